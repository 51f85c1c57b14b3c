package memory

import (
	"context"
	"sync"
	"time"

	"eventcheckin/internal/checkin"
	"eventcheckin/internal/models"
)

// Storage is an in-memory event store and check-in ledger for the local
// environment and tests. Each event carries its own lock so check-ins for
// different events never contend.
type Storage struct {
	mu     sync.RWMutex
	events map[string]*eventState
}

type eventState struct {
	mu         sync.Mutex
	event      models.Event
	records    []models.CheckInRecord
	byAttendee map[string]int
}

func New() *Storage {
	return &Storage{
		events: make(map[string]*eventState),
	}
}

func (s *Storage) UpsertEvent(_ context.Context, event models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.events[event.ID]
	if !ok {
		s.events[event.ID] = &eventState{
			event:      event,
			byAttendee: make(map[string]int),
		}
		return nil
	}

	st.mu.Lock()
	st.event = event
	st.mu.Unlock()

	return nil
}

func (s *Storage) SetEventStatus(_ context.Context, eventID string, status models.EventStatus) error {
	st := s.state(eventID)
	if st == nil {
		return checkin.ErrEventNotFound
	}

	st.mu.Lock()
	st.event.Status = status
	st.mu.Unlock()

	return nil
}

func (s *Storage) GetEvent(_ context.Context, id string) (*models.Event, error) {
	st := s.state(id)
	if st == nil {
		return nil, nil
	}

	st.mu.Lock()
	event := st.event
	st.mu.Unlock()

	return &event, nil
}

// Append holds the event's lock across the duplicate and capacity checks
// and the write, so concurrent appends serialize per event and the ledger
// invariants hold without a global lock.
func (s *Storage) Append(_ context.Context, rec models.CheckInRecord) (models.CheckInRecord, error) {
	st := s.state(rec.EventID)
	if st == nil {
		return models.CheckInRecord{}, checkin.ErrEventNotFound
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if i, ok := st.byAttendee[rec.AttendeeIdentifier]; ok {
		return st.records[i], checkin.ErrAlreadyCheckedIn
	}

	if st.event.MaxCapacity > 0 && len(st.records) >= st.event.MaxCapacity {
		return models.CheckInRecord{}, checkin.ErrCapacityExceeded
	}

	st.byAttendee[rec.AttendeeIdentifier] = len(st.records)
	st.records = append(st.records, rec)

	return rec, nil
}

func (s *Storage) Count(_ context.Context, eventID string) (int, error) {
	st := s.state(eventID)
	if st == nil {
		return 0, nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	return len(st.records), nil
}

func (s *Storage) ListSince(_ context.Context, eventID string, since time.Time) ([]models.CheckInRecord, error) {
	st := s.state(eventID)
	if st == nil {
		return nil, nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	// Records are append-ordered, which matches timestamp order here.
	var out []models.CheckInRecord
	for _, rec := range st.records {
		if !rec.Timestamp.Before(since) {
			out = append(out, rec)
		}
	}

	return out, nil
}

func (s *Storage) GetCheckIn(_ context.Context, eventID, attendeeIdentifier string) (*models.CheckInRecord, error) {
	st := s.state(eventID)
	if st == nil {
		return nil, nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	i, ok := st.byAttendee[attendeeIdentifier]
	if !ok {
		return nil, nil
	}

	rec := st.records[i]

	return &rec, nil
}

func (s *Storage) Clear(_ context.Context, eventID string) error {
	st := s.state(eventID)
	if st == nil {
		return checkin.ErrEventNotFound
	}

	st.mu.Lock()
	st.records = nil
	st.byAttendee = make(map[string]int)
	st.mu.Unlock()

	return nil
}

func (s *Storage) state(eventID string) *eventState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.events[eventID]
}
