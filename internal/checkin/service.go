package checkin

import (
	"context"
	"time"

	"github.com/google/uuid"

	"eventcheckin/internal/broadcast"
	"eventcheckin/internal/clock"
	"eventcheckin/internal/models"
	"eventcheckin/internal/occupancy"
)

// EventStore reads event state owned by the external event-management
// system. Returns (nil, nil) for an unknown event id.
type EventStore interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
}

// Ledger is the durable, idempotent record of accepted check-ins. Append is
// atomic per (event, attendee): under concurrent duplicates exactly one
// record wins and the losers get ErrAlreadyCheckedIn with the existing
// record.
type Ledger interface {
	Append(ctx context.Context, rec models.CheckInRecord) (models.CheckInRecord, error)
	Count(ctx context.Context, eventID string) (int, error)
	ListSince(ctx context.Context, eventID string, since time.Time) ([]models.CheckInRecord, error)
	GetCheckIn(ctx context.Context, eventID, attendeeIdentifier string) (*models.CheckInRecord, error)
	Clear(ctx context.Context, eventID string) error
}

// AttendeeDirectory looks up ticket holders in the external ticketing
// system. Returns (nil, nil) for an unknown identifier.
type AttendeeDirectory interface {
	GetAttendee(ctx context.Context, identifier string) (*models.Attendee, error)
}

// Service runs the full submission flow: gather state, decide, append,
// snapshot, broadcast.
type Service struct {
	events    EventStore
	ledger    Ledger
	directory AttendeeDirectory
	validator *Validator
	agg       *occupancy.Aggregator
	hub       *broadcast.Hub
	clock     clock.Clock
}

func NewService(
	events EventStore,
	ledger Ledger,
	directory AttendeeDirectory,
	validator *Validator,
	agg *occupancy.Aggregator,
	hub *broadcast.Hub,
	clk clock.Clock,
) *Service {
	return &Service{
		events:    events,
		ledger:    ledger,
		directory: directory,
		validator: validator,
		agg:       agg,
		hub:       hub,
		clock:     clk,
	}
}

// CheckIn processes one submission. On ErrAlreadyCheckedIn the returned
// record is the existing one, so callers can tell the attendee when they
// originally checked in. Retrying after ErrStorageUnavailable is safe: the
// append is idempotent.
func (s *Service) CheckIn(ctx context.Context, a Attempt) (models.CheckInRecord, models.OccupancySnapshot, error) {
	event, err := s.events.GetEvent(ctx, a.EventID)
	if err != nil {
		return models.CheckInRecord{}, models.OccupancySnapshot{}, err
	}

	st := State{Event: event}

	identifier, ok := Identifier(a)
	if ok {
		attendee, err := s.directory.GetAttendee(ctx, identifier)
		if err != nil {
			return models.CheckInRecord{}, models.OccupancySnapshot{}, err
		}
		st.Attendee = attendee

		existing, err := s.ledger.GetCheckIn(ctx, a.EventID, identifier)
		if err != nil {
			return models.CheckInRecord{}, models.OccupancySnapshot{}, err
		}
		if existing != nil {
			st.AlreadyCheckedIn = true

			// Duplicate wins over capacity in the decision order, but run
			// the validator anyway so an inactive event still rejects first.
			if decErr := s.validator.Decide(a, st); decErr != nil {
				return *existing, models.OccupancySnapshot{}, decErr
			}
		}

		count, err := s.ledger.Count(ctx, a.EventID)
		if err != nil {
			return models.CheckInRecord{}, models.OccupancySnapshot{}, err
		}
		st.CheckedInCount = count
	}

	if err := s.validator.Decide(a, st); err != nil {
		return models.CheckInRecord{}, models.OccupancySnapshot{}, err
	}

	rec := models.CheckInRecord{
		ID:                 uuid.NewString(),
		EventID:            a.EventID,
		AttendeeIdentifier: identifier,
		DisplayName:        st.Attendee.DisplayName,
		Method:             a.Method,
		VerificationDigits: a.VerificationDigits,
		Timestamp:          s.clock.Now(),
	}

	stored, err := s.ledger.Append(ctx, rec)
	if err != nil {
		// A concurrent duplicate lost the race; stored is the winner's
		// record. Not a fault.
		return stored, models.OccupancySnapshot{}, err
	}

	snap := s.publish(ctx, event, &stored, broadcast.TypeCheckinUpdate)

	return stored, snap, nil
}

// Occupancy returns the current snapshot for an event.
func (s *Service) Occupancy(ctx context.Context, eventID string) (models.OccupancySnapshot, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return models.OccupancySnapshot{}, err
	}
	if event == nil {
		return models.OccupancySnapshot{}, ErrEventNotFound
	}

	return s.agg.Snapshot(ctx, event)
}

// Records lists check-ins for an event, oldest first, starting at since.
// Callers may re-issue with an updated since to page forward.
func (s *Service) Records(ctx context.Context, eventID string, since time.Time) ([]models.CheckInRecord, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	return s.ledger.ListSince(ctx, eventID, since)
}

// Reset is the administrative clear-event operation. Subscribers get a
// fresh snapshot so dashboards drop to zero immediately.
func (s *Service) Reset(ctx context.Context, eventID string) error {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrEventNotFound
	}

	if err := s.ledger.Clear(ctx, eventID); err != nil {
		return err
	}

	s.publish(ctx, event, nil, broadcast.TypeSnapshotRefresh)

	return nil
}

// Refresh recomputes and broadcasts the snapshot for one event topic. Used
// by the periodic refresh loop to bound staleness for subscribers that
// missed a frame.
func (s *Service) Refresh(ctx context.Context, eventID string) error {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrEventNotFound
	}

	s.publish(ctx, event, nil, broadcast.TypeSnapshotRefresh)

	return nil
}

// publish recomputes the snapshot and fans it out. The check-in itself has
// already committed, so a snapshot failure degrades to an empty snapshot
// instead of failing the caller; the next refresh repairs it.
func (s *Service) publish(ctx context.Context, event *models.Event, rec *models.CheckInRecord, typ string) models.OccupancySnapshot {
	snap, err := s.agg.Snapshot(ctx, event)
	if err != nil {
		return models.OccupancySnapshot{EventID: event.ID, CapacityUndefined: event.MaxCapacity == 0}
	}

	s.hub.Publish(event.ID, broadcast.Update{
		Type:     typ,
		Record:   rec,
		Snapshot: snap,
	})

	return snap
}
