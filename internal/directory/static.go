package directory

import (
	"context"
	"sync"

	"eventcheckin/internal/models"
)

// Static is a map-backed directory for the local environment and tests.
type Static struct {
	mu        sync.RWMutex
	attendees map[string]models.Attendee
	approved  map[string]int
}

func NewStatic() *Static {
	return &Static{
		attendees: make(map[string]models.Attendee),
		approved:  make(map[string]int),
	}
}

func (s *Static) Add(identifier string, attendee models.Attendee) {
	s.mu.Lock()
	s.attendees[identifier] = attendee
	s.mu.Unlock()
}

func (s *Static) SetApprovedCount(eventID string, count int) {
	s.mu.Lock()
	s.approved[eventID] = count
	s.mu.Unlock()
}

func (s *Static) GetAttendee(_ context.Context, identifier string) (*models.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attendee, ok := s.attendees[identifier]
	if !ok {
		return nil, nil
	}

	return &attendee, nil
}

func (s *Static) ApprovedCount(_ context.Context, eventID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.approved[eventID], nil
}
