package models

import "time"

type EventStatus string

const (
	EventScheduled EventStatus = "scheduled"
	EventActive    EventStatus = "active"
	EventClosed    EventStatus = "closed"
)

// ValidEventStatus reports whether s is one of the known lifecycle states.
func ValidEventStatus(s EventStatus) bool {
	switch s {
	case EventScheduled, EventActive, EventClosed:
		return true
	}
	return false
}

type Event struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     time.Time   `json:"end_time"`
	Location    string      `json:"location"`
	MaxCapacity int         `json:"max_capacity"`
	Status      EventStatus `json:"status"`
}
