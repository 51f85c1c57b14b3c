package directory

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"eventcheckin/internal/checkin"
	"eventcheckin/internal/models"
)

const (
	attendeeKeyPrefix = "attendee:"
	approvedKeyPrefix = "approved:"
)

// Redis reads the attendee directory and approved-ticket counters the
// external sales system maintains. Attendees live in hashes
// (attendee:<identifier> -> cpf, display_name), approved counts in plain
// counters (approved:<event_id>). This service never writes either.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{client: client}, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) GetAttendee(ctx context.Context, identifier string) (*models.Attendee, error) {
	fields, err := r.client.HGetAll(ctx, attendeeKeyPrefix+identifier).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to look up attendee: %v: %w", err, checkin.ErrStorageUnavailable)
	}

	if len(fields) == 0 {
		return nil, nil
	}

	return &models.Attendee{
		CPF:         fields["cpf"],
		DisplayName: fields["display_name"],
	}, nil
}

// ApprovedCount returns 0 for events the sales system has not published a
// counter for.
func (r *Redis) ApprovedCount(ctx context.Context, eventID string) (int, error) {
	val, err := r.client.Get(ctx, approvedKeyPrefix+eventID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get approved count: %v: %w", err, checkin.ErrStorageUnavailable)
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, nil
	}

	return count, nil
}
