package occupancy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventcheckin/internal/clock"
	"eventcheckin/internal/models"
	"eventcheckin/internal/occupancy"
)

var now = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

type stubLedger struct {
	total  int
	recent []models.CheckInRecord
	err    error
}

func (s *stubLedger) Count(_ context.Context, _ string) (int, error) {
	return s.total, s.err
}

func (s *stubLedger) ListSince(_ context.Context, _ string, since time.Time) ([]models.CheckInRecord, error) {
	var out []models.CheckInRecord
	for _, rec := range s.recent {
		if !rec.Timestamp.Before(since) {
			out = append(out, rec)
		}
	}
	return out, s.err
}

type stubTicketing struct {
	approved int
	err      error
}

func (s *stubTicketing) ApprovedCount(_ context.Context, _ string) (int, error) {
	return s.approved, s.err
}

func event(capacity int) *models.Event {
	return &models.Event{ID: "ev-1", MaxCapacity: capacity, Status: models.EventActive}
}

func TestSnapshotRate(t *testing.T) {
	t.Parallel()

	agg := occupancy.New(&stubLedger{total: 2}, nil, clock.NewFixed(now))

	snap, err := agg.Snapshot(context.Background(), event(4))
	require.NoError(t, err)

	assert.Equal(t, 2, snap.TotalCheckins)
	assert.InDelta(t, 0.5, snap.OccupancyRate, 1e-9)
	assert.False(t, snap.CapacityUndefined)
}

func TestSnapshotRateClamped(t *testing.T) {
	t.Parallel()

	agg := occupancy.New(&stubLedger{total: 7}, nil, clock.NewFixed(now))

	snap, err := agg.Snapshot(context.Background(), event(4))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, snap.OccupancyRate, 1e-9)
}

func TestSnapshotCapacityUndefined(t *testing.T) {
	t.Parallel()

	agg := occupancy.New(&stubLedger{total: 12}, nil, clock.NewFixed(now))

	snap, err := agg.Snapshot(context.Background(), event(0))
	require.NoError(t, err)

	assert.True(t, snap.CapacityUndefined)
	assert.Zero(t, snap.OccupancyRate)
}

func TestSnapshotLastHour(t *testing.T) {
	t.Parallel()

	ledger := &stubLedger{
		total: 3,
		recent: []models.CheckInRecord{
			{ID: "old", Timestamp: now.Add(-2 * time.Hour)},
			{ID: "recent-1", Timestamp: now.Add(-30 * time.Minute)},
			{ID: "recent-2", Timestamp: now.Add(-5 * time.Minute)},
		},
	}

	agg := occupancy.New(ledger, nil, clock.NewFixed(now))

	snap, err := agg.Snapshot(context.Background(), event(10))
	require.NoError(t, err)

	assert.Equal(t, 2, snap.CheckinsLastHour)
}

func TestSnapshotWaitingCount(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		ticketing occupancy.Ticketing
		expected  int
	}{
		{
			name:      "Approved above total",
			ticketing: &stubTicketing{approved: 5},
			expected:  3,
		},
		{
			name:      "Approved below total never negative",
			ticketing: &stubTicketing{approved: 1},
			expected:  0,
		},
		{
			name:      "No ticketing collaborator",
			ticketing: nil,
			expected:  0,
		},
		{
			name:      "Ticketing failure degrades to zero",
			ticketing: &stubTicketing{err: errors.New("redis down")},
			expected:  0,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			agg := occupancy.New(&stubLedger{total: 2}, tc.ticketing, clock.NewFixed(now))

			snap, err := agg.Snapshot(context.Background(), event(10))
			require.NoError(t, err)

			assert.Equal(t, tc.expected, snap.WaitingCount)
		})
	}
}

func TestSnapshotLedgerFailure(t *testing.T) {
	t.Parallel()

	agg := occupancy.New(&stubLedger{err: errors.New("db down")}, nil, clock.NewFixed(now))

	_, err := agg.Snapshot(context.Background(), event(10))
	assert.Error(t, err)
}
