package subscribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"eventcheckin/internal/broadcast"
	"eventcheckin/internal/checkin"
	"eventcheckin/internal/lib/api/response"
	"eventcheckin/internal/lib/logger/sl"
	"eventcheckin/internal/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=OccupancyProvider
type OccupancyProvider interface {
	Occupancy(ctx context.Context, eventID string) (models.OccupancySnapshot, error)
}

// New streams check-in updates for one event over server-sent events. The
// first frame is a fresh snapshot, so a reconnecting dashboard never has to
// care about frames it missed while away.
func New(log *slog.Logger, hub *broadcast.Hub, provider OccupancyProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dashboard.subscribe.New"

		log = log.With(slog.String("op", op))

		eventID := chi.URLParam(r, "id")
		if eventID == "" {
			log.Error("event id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("event id is required"))
			return
		}

		log = log.With(slog.String("event_id", eventID))

		flusher, ok := w.(http.Flusher)
		if !ok {
			log.Error("streaming unsupported by response writer")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("streaming unsupported"))
			return
		}

		snapshot, err := provider.Occupancy(r.Context(), eventID)
		if err != nil {
			log.Error("failed to get initial snapshot", sl.Err(err))

			if errors.Is(err, checkin.ErrEventNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to subscribe"))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		if err := writeFrame(w, flusher, broadcast.Update{
			Type:     broadcast.TypeSnapshotRefresh,
			Snapshot: snapshot,
		}); err != nil {
			log.Error("failed to write initial frame", sl.Err(err))
			return
		}

		sub := hub.Subscribe(eventID)
		defer hub.Unsubscribe(sub)

		log.Info("dashboard subscribed")

		for {
			select {
			case <-r.Context().Done():
				log.Info("dashboard disconnected")
				return
			case update, ok := <-sub.Updates():
				if !ok {
					// Pruned by the hub, likely because this connection fell
					// behind. The client reconnects for a fresh snapshot.
					log.Info("subscriber pruned")
					return
				}

				if err := writeFrame(w, flusher, update); err != nil {
					log.Info("send failed, dropping subscriber", sl.Err(err))
					return
				}
			}
		}
	}
}

func writeFrame(w http.ResponseWriter, flusher http.Flusher, update broadcast.Update) error {
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}

	flusher.Flush()

	return nil
}
