package resetEvent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"eventcheckin/internal/checkin"
	"eventcheckin/internal/lib/api/response"
	"eventcheckin/internal/lib/logger/sl"
)

type ResetResponse struct {
	response.Response
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventResetter
type EventResetter interface {
	Reset(ctx context.Context, eventID string) error
}

// New handles the administrative clear-event operation. It removes every
// check-in record for the event; the validator never goes through here.
func New(log *slog.Logger, resetter EventResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.resetEvent.New"

		log = log.With(slog.String("op", op))

		eventID := chi.URLParam(r, "id")
		if eventID == "" {
			log.Error("event id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("event id is required"))
			return
		}

		log = log.With(slog.String("event_id", eventID))

		if err := resetter.Reset(r.Context(), eventID); err != nil {
			log.Error("failed to reset event", sl.Err(err))

			if errors.Is(err, checkin.ErrEventNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to reset event"))
			return
		}

		log.Info("event reset")

		render.JSON(w, r, ResetResponse{
			Response: response.OK(),
		})
	}
}
