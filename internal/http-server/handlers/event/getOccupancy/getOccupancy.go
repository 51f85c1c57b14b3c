package getOccupancy

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
	"eventcheckin/internal/models"
)

type OccupancyResponse struct {
	response.Response
	Snapshot models.OccupancySnapshot `json:"snapshot"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=OccupancyProvider
type OccupancyProvider interface {
	Occupancy(ctx context.Context, eventID string) (models.OccupancySnapshot, error)
}

func New(log *slog.Logger, provider OccupancyProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.getOccupancy.New"

		log = log.With(slog.String("op", op))

		eventID := chi.URLParam(r, "id")
		if eventID == "" {
			log.Error("event id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("event id is required"))
			return
		}

		log = log.With(slog.String("event_id", eventID))

		snapshot, err := provider.Occupancy(r.Context(), eventID)
		if err != nil {
			log.Error("failed to get occupancy", sl.Err(err))

			if errors.Is(err, checkin.ErrEventNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}

			if errors.Is(err, checkin.ErrStorageUnavailable) {
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.Error("storage unavailable"))
				return
			}

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get occupancy"))
			return
		}

		log.Info("occupancy snapshot computed", slog.Int("total_checkins", snapshot.TotalCheckins))

		render.JSON(w, r, OccupancyResponse{
			Response: response.OK(),
			Snapshot: snapshot,
		})
	}
}
