package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"eventcheckin/internal/lib/logger/sl"
	"eventcheckin/internal/models"
)

const routingKey = "event.lifecycle.*"

// EventStore applies externally-driven event state to local storage.
type EventStore interface {
	UpsertEvent(ctx context.Context, event models.Event) error
}

// LifecycleMessage is what the event-management system publishes on every
// scheduled/active/closed transition. It carries the full event so this
// service needs no other ingress for event data.
type LifecycleMessage struct {
	EventID     string             `json:"event_id"`
	Name        string             `json:"name"`
	StartTime   time.Time          `json:"start_time"`
	EndTime     time.Time          `json:"end_time"`
	Location    string             `json:"location"`
	MaxCapacity int                `json:"max_capacity"`
	Status      models.EventStatus `json:"status"`
}

// Lifecycle consumes event lifecycle transitions from the event-management
// system's topic exchange. The core only observes these; it never drives
// them.
type Lifecycle struct {
	log   *slog.Logger
	store EventStore
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewLifecycle(log *slog.Logger, url, exchange, queue string, store EventStore) (*Lifecycle, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("bind %s: %w", routingKey, err)
	}

	return &Lifecycle{
		log:   log,
		store: store,
		conn:  conn,
		ch:    ch,
		queue: q.Name,
	}, nil
}

// Run consumes until ctx is cancelled or the channel closes.
func (c *Lifecycle) Run(ctx context.Context) error {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	log := c.log.With(slog.String("component", "consumer/lifecycle"))
	log.Info("lifecycle consumer started", slog.String("queue", c.queue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.handle(ctx, log, d)
		}
	}
}

func (c *Lifecycle) handle(ctx context.Context, log *slog.Logger, d amqp.Delivery) {
	var msg LifecycleMessage

	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Error("failed to decode lifecycle message", sl.Err(err))
		_ = d.Nack(false, false)
		return
	}

	if msg.EventID == "" || !models.ValidEventStatus(msg.Status) {
		log.Error("invalid lifecycle message",
			slog.String("event_id", msg.EventID),
			slog.String("status", string(msg.Status)),
		)
		_ = d.Nack(false, false)
		return
	}

	event := models.Event{
		ID:          msg.EventID,
		Name:        msg.Name,
		StartTime:   msg.StartTime,
		EndTime:     msg.EndTime,
		Location:    msg.Location,
		MaxCapacity: msg.MaxCapacity,
		Status:      msg.Status,
	}

	if err := c.store.UpsertEvent(ctx, event); err != nil {
		log.Error("failed to apply lifecycle transition", sl.Err(err))
		// Requeue: storage hiccups are retryable, the upsert is idempotent.
		_ = d.Nack(false, true)
		return
	}

	log.Info("event lifecycle applied",
		slog.String("event_id", msg.EventID),
		slog.String("status", string(msg.Status)),
	)

	_ = d.Ack(false)
}

func (c *Lifecycle) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
