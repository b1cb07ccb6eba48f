package model

import "time"

type ConflictType string

const (
	// ConflictDayClosed: the proposed schedule closes the booking's weekday.
	ConflictDayClosed ConflictType = "day_closed"
	// ConflictOutsideHours: the booking no longer fits inside any single
	// range of the proposed hours.
	ConflictOutsideHours ConflictType = "outside_hours"
)

// Conflict describes one existing booking that a proposed schedule change
// would orphan. Advisory output only: the detector never mutates bookings.
type Conflict struct {
	BookingID   string       `json:"booking_id"`
	ClientName  string       `json:"client_name"`
	ServiceID   string       `json:"service_id"`
	BookingDate time.Time    `json:"booking_date"`
	Window      TimeRange    `json:"window"`
	Type        ConflictType `json:"type"`
}
