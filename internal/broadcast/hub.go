package broadcast

import (
	"sync"

	"eventcheckin/internal/models"
)

const (
	TypeCheckinUpdate   = "checkin_update"
	TypeSnapshotRefresh = "snapshot_refresh"
)

// Update is one frame pushed to dashboard subscribers of an event topic.
type Update struct {
	Type     string                   `json:"type"`
	Record   *models.CheckInRecord    `json:"record,omitempty"`
	Snapshot models.OccupancySnapshot `json:"snapshot"`
}

const subscriberBuffer = 16

// Subscriber is one dashboard session attached to a single event topic.
type Subscriber struct {
	eventID string
	ch      chan Update

	once sync.Once
}

// Updates returns the frame stream. The channel is closed when the
// subscriber is unsubscribed or pruned; missed frames are not replayed, a
// reconnecting client must fetch a fresh snapshot itself.
func (s *Subscriber) Updates() <-chan Update {
	return s.ch
}

func (s *Subscriber) EventID() string {
	return s.eventID
}

func (s *Subscriber) close() {
	s.once.Do(func() {
		close(s.ch)
	})
}

// Hub fans ledger changes out to dashboard sessions. Topics are keyed by
// event id so subscriber cardinality scales with monitored events, not
// attendees.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[*Subscriber]struct{}),
	}
}

func (h *Hub) Subscribe(eventID string) *Subscriber {
	sub := &Subscriber{
		eventID: eventID,
		ch:      make(chan Update, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	topic, ok := h.topics[eventID]
	if !ok {
		topic = make(map[*Subscriber]struct{})
		h.topics[eventID] = topic
	}
	topic[sub] = struct{}{}

	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	h.remove(sub)
	h.mu.Unlock()

	sub.close()
}

// Publish delivers an update to every subscriber of the event's topic.
// Delivery never blocks: a subscriber whose buffer is full is pruned, same
// as a dead connection. There is no retry of missed frames.
func (h *Hub) Publish(eventID string, u Update) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.topics[eventID] {
		select {
		case sub.ch <- u:
		default:
			h.remove(sub)
			sub.close()
		}
	}
}

// ActiveTopics lists event ids with at least one subscriber, for periodic
// snapshot refreshes.
func (h *Hub) ActiveTopics() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]string, 0, len(h.topics))
	for id := range h.topics {
		ids = append(ids, id)
	}

	return ids
}

// Subscribers reports the subscriber count for an event topic.
func (h *Hub) Subscribers(eventID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.topics[eventID])
}

// remove expects h.mu held.
func (h *Hub) remove(sub *Subscriber) {
	topic, ok := h.topics[sub.eventID]
	if !ok {
		return
	}

	delete(topic, sub)
	if len(topic) == 0 {
		delete(h.topics, sub.eventID)
	}
}
