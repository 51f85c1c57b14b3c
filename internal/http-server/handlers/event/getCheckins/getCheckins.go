package getCheckins

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"eventcheckin/internal/checkin"
	"eventcheckin/internal/lib/api/response"
	"eventcheckin/internal/lib/logger/sl"
	"eventcheckin/internal/models"
)

type CheckinsResponse struct {
	response.Response
	Records []models.CheckInRecord `json:"records"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RecordLister
type RecordLister interface {
	Records(ctx context.Context, eventID string, since time.Time) ([]models.CheckInRecord, error)
}

func New(log *slog.Logger, lister RecordLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.getCheckins.New"

		log = log.With(slog.String("op", op))

		eventID := chi.URLParam(r, "id")
		if eventID == "" {
			log.Error("event id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("event id is required"))
			return
		}

		log = log.With(slog.String("event_id", eventID))

		// since defaults to the zero time, meaning the whole ledger.
		var since time.Time
		if raw := r.URL.Query().Get("since"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				log.Error("invalid since parameter", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid since parameter, expected RFC3339"))
				return
			}
			since = parsed
		}

		records, err := lister.Records(r.Context(), eventID, since)
		if err != nil {
			log.Error("failed to list checkins", sl.Err(err))

			if errors.Is(err, checkin.ErrEventNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list checkins"))
			return
		}

		log.Info("checkins listed", slog.Int("count", len(records)))

		if records == nil {
			records = []models.CheckInRecord{}
		}

		render.JSON(w, r, CheckinsResponse{
			Response: response.OK(),
			Records:  records,
		})
	}
}
