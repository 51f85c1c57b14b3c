package occupancy

import (
	"context"
	"time"

	"eventcheckin/internal/clock"
	"eventcheckin/internal/models"
)

// Ledger is the read-only slice of the check-in ledger the aggregator needs.
type Ledger interface {
	Count(ctx context.Context, eventID string) (int, error)
	ListSince(ctx context.Context, eventID string, since time.Time) ([]models.CheckInRecord, error)
}

// Ticketing supplies approved-ticket counts from the external sales system.
// It is optional; without it the waiting count degrades to zero.
type Ticketing interface {
	ApprovedCount(ctx context.Context, eventID string) (int, error)
}

type Aggregator struct {
	ledger    Ledger
	ticketing Ticketing
	clock     clock.Clock
}

func New(ledger Ledger, ticketing Ticketing, clk clock.Clock) *Aggregator {
	return &Aggregator{
		ledger:    ledger,
		ticketing: ticketing,
		clock:     clk,
	}
}

// Snapshot derives the live occupancy counters for an event. Read-only; the
// snapshot is recomputed on every call and never stored.
func (a *Aggregator) Snapshot(ctx context.Context, event *models.Event) (models.OccupancySnapshot, error) {
	total, err := a.ledger.Count(ctx, event.ID)
	if err != nil {
		return models.OccupancySnapshot{}, err
	}

	hourAgo := a.clock.Now().Add(-1 * time.Hour)

	recent, err := a.ledger.ListSince(ctx, event.ID, hourAgo)
	if err != nil {
		return models.OccupancySnapshot{}, err
	}

	snap := models.OccupancySnapshot{
		EventID:          event.ID,
		TotalCheckins:    total,
		CheckinsLastHour: len(recent),
	}

	if event.MaxCapacity > 0 {
		rate := float64(total) / float64(event.MaxCapacity)
		if rate > 1 {
			rate = 1
		}
		snap.OccupancyRate = rate
	} else {
		snap.CapacityUndefined = true
	}

	// The ticketing collaborator may be absent or down; the waiting count
	// degrades to zero rather than failing the snapshot.
	if a.ticketing != nil {
		approved, err := a.ticketing.ApprovedCount(ctx, event.ID)
		if err == nil && approved > total {
			snap.WaitingCount = approved - total
		}
	}

	return snap, nil
}
