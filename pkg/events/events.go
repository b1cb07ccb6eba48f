package events

import (
	"time"
)

// Topics carrying booking lifecycle facts
const (
	TopicBookingFacts    = "booking.facts"
	TopicBookingFactsDLQ = "booking.facts.dlq"
)

// Event types published to the booking facts topic
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"
	TypeBookingCompleted = "booking.completed"
	TypeBookingNoShow    = "booking.noshow"
	TypeReminderDue      = "reminder.due"
	TypeReviewRequested  = "review.requested"
)

// SchemaVersion is the current payload schema version
const SchemaVersion = "1"

// BookingFact is the payload for booking lifecycle events
type BookingFact struct {
	BookingID   string    `json:"booking_id"`
	ProviderID  string    `json:"provider_id"`
	LocationID  string    `json:"location_id,omitempty"`
	MemberID    string    `json:"member_id,omitempty"`
	ServiceID   string    `json:"service_id"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	Status      string    `json:"status"`
	Actor       string    `json:"actor,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	BookingDate time.Time `json:"booking_date"`
	StartMin    int       `json:"start_min"`
	EndMin      int       `json:"end_min"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ReminderFact is the payload for reminder and review request events
type ReminderFact struct {
	BookingID   string    `json:"booking_id"`
	ProviderID  string    `json:"provider_id"`
	ClientEmail string    `json:"client_email"`
	ClientPhone string    `json:"client_phone,omitempty"`
	OffsetHours int       `json:"offset_hours,omitempty"`
	BookingDate time.Time `json:"booking_date"`
	StartMin    int       `json:"start_min"`
	OccurredAt  time.Time `json:"occurred_at"`
}
