package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"eventcheckin/internal/checkin"
	"eventcheckin/internal/config"
	"eventcheckin/internal/models"
)

const uniqueViolation = "23505"

type Storage struct {
	DB *sql.DB
}

func InitDB(dbCfg *config.Database) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	return &Storage{DB: db}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) UpsertEvent(ctx context.Context, event models.Event) error {
	query := `
		INSERT INTO events (id, name, start_time, end_time, location, max_capacity, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			location = EXCLUDED.location,
			max_capacity = EXCLUDED.max_capacity,
			status = EXCLUDED.status`

	_, err := s.DB.ExecContext(ctx, query,
		event.ID,
		event.Name,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.MaxCapacity,
		event.Status,
	)
	if err != nil {
		return storageErr("failed to upsert event", err)
	}

	return nil
}

func (s *Storage) SetEventStatus(ctx context.Context, eventID string, status models.EventStatus) error {
	query := `UPDATE events SET status = $2 WHERE id = $1`

	result, err := s.DB.ExecContext(ctx, query, eventID, status)
	if err != nil {
		return storageErr("failed to update event status", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return checkin.ErrEventNotFound
	}

	return nil
}

func (s *Storage) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	query := `
		SELECT id, name, start_time, end_time, location, max_capacity, status
		FROM events
		WHERE id = $1`

	var event models.Event
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.StartTime,
		&event.EndTime,
		&event.Location,
		&event.MaxCapacity,
		&event.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("failed to get event", err)
	}

	return &event, nil
}

// Append commits one check-in atomically. The event row is locked FOR
// UPDATE so the capacity check and the insert serialize per event, and the
// unique index on (event_id, attendee_identifier) makes concurrent
// duplicates lose with ErrAlreadyCheckedIn instead of writing twice.
func (s *Storage) Append(ctx context.Context, rec models.CheckInRecord) (models.CheckInRecord, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.CheckInRecord{}, storageErr("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var maxCapacity int
	lockQuery := `SELECT max_capacity FROM events WHERE id = $1 FOR UPDATE`

	err = tx.QueryRowContext(ctx, lockQuery, rec.EventID).Scan(&maxCapacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CheckInRecord{}, checkin.ErrEventNotFound
		}
		return models.CheckInRecord{}, storageErr("failed to lock event", err)
	}

	if maxCapacity > 0 {
		var count int
		countQuery := `SELECT COUNT(*) FROM checkins WHERE event_id = $1`

		if err = tx.QueryRowContext(ctx, countQuery, rec.EventID).Scan(&count); err != nil {
			return models.CheckInRecord{}, storageErr("failed to count checkins", err)
		}

		if count >= maxCapacity {
			return models.CheckInRecord{}, checkin.ErrCapacityExceeded
		}
	}

	insertQuery := `
		INSERT INTO checkins (id, event_id, attendee_identifier, display_name, method, verification_digits, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = tx.ExecContext(ctx, insertQuery,
		rec.ID,
		rec.EventID,
		rec.AttendeeIdentifier,
		rec.DisplayName,
		rec.Method,
		rec.VerificationDigits,
		rec.Timestamp,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			existing, getErr := s.GetCheckIn(ctx, rec.EventID, rec.AttendeeIdentifier)
			if getErr == nil && existing != nil {
				return *existing, checkin.ErrAlreadyCheckedIn
			}
			return models.CheckInRecord{}, checkin.ErrAlreadyCheckedIn
		}
		return models.CheckInRecord{}, storageErr("failed to insert checkin", err)
	}

	if err = tx.Commit(); err != nil {
		return models.CheckInRecord{}, storageErr("failed to commit checkin", err)
	}

	return rec, nil
}

func (s *Storage) Count(ctx context.Context, eventID string) (int, error) {
	query := `SELECT COUNT(*) FROM checkins WHERE event_id = $1`

	var count int
	if err := s.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, storageErr("failed to count checkins", err)
	}

	return count, nil
}

func (s *Storage) ListSince(ctx context.Context, eventID string, since time.Time) ([]models.CheckInRecord, error) {
	query := `
		SELECT id, event_id, attendee_identifier, display_name, method, verification_digits, created_at
		FROM checkins
		WHERE event_id = $1 AND created_at >= $2
		ORDER BY created_at ASC`

	rows, err := s.DB.QueryContext(ctx, query, eventID, since)
	if err != nil {
		return nil, storageErr("failed to list checkins", err)
	}
	defer rows.Close()

	var records []models.CheckInRecord
	for rows.Next() {
		var rec models.CheckInRecord
		err = rows.Scan(
			&rec.ID,
			&rec.EventID,
			&rec.AttendeeIdentifier,
			&rec.DisplayName,
			&rec.Method,
			&rec.VerificationDigits,
			&rec.Timestamp,
		)
		if err != nil {
			return nil, storageErr("failed to scan checkin", err)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, storageErr("error iterating checkins", err)
	}

	return records, nil
}

func (s *Storage) GetCheckIn(ctx context.Context, eventID, attendeeIdentifier string) (*models.CheckInRecord, error) {
	query := `
		SELECT id, event_id, attendee_identifier, display_name, method, verification_digits, created_at
		FROM checkins
		WHERE event_id = $1 AND attendee_identifier = $2`

	var rec models.CheckInRecord
	err := s.DB.QueryRowContext(ctx, query, eventID, attendeeIdentifier).Scan(
		&rec.ID,
		&rec.EventID,
		&rec.AttendeeIdentifier,
		&rec.DisplayName,
		&rec.Method,
		&rec.VerificationDigits,
		&rec.Timestamp,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("failed to get checkin", err)
	}

	return &rec, nil
}

func (s *Storage) Clear(ctx context.Context, eventID string) error {
	query := `DELETE FROM checkins WHERE event_id = $1`

	if _, err := s.DB.ExecContext(ctx, query, eventID); err != nil {
		return storageErr("failed to clear checkins", err)
	}

	return nil
}

// storageErr keeps the driver detail in the message while marking the error
// retryable for callers.
func storageErr(msg string, err error) error {
	return fmt.Errorf("%s: %v: %w", msg, err, checkin.ErrStorageUnavailable)
}
