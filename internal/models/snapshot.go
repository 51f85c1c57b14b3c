package models

// OccupancySnapshot is derived from the check-in ledger on demand and never
// stored durably.
type OccupancySnapshot struct {
	EventID           string  `json:"event_id"`
	TotalCheckins     int     `json:"total_checkins"`
	CheckinsLastHour  int     `json:"checkins_last_hour"`
	OccupancyRate     float64 `json:"occupancy_rate"`
	WaitingCount      int     `json:"waiting_count"`
	CapacityUndefined bool    `json:"capacity_undefined,omitempty"`
}
