package model

import (
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "noshow"
)

// IsTerminal reports whether the status admits no further transitions.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

// Actor kinds recorded on cancellations.
const (
	ActorProvider = "provider"
	ActorClient   = "client"
)

type ClientInfo struct {
	Name  string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" bson:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Notes string `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
}

// Booking is an appointment claiming one time slot. Mutated only through
// the lifecycle service; EndTime is always StartTime + DurationMin.
type Booking struct {
	ID                  string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProviderID          string        `json:"provider_id" bson:"provider_id" validate:"required,mongodb"`
	LocationID          string        `json:"location_id" bson:"location_id" validate:"required,mongodb"`
	MemberID            string        `json:"member_id,omitempty" bson:"member_id,omitempty" validate:"omitempty,mongodb"`
	ServiceID           string        `json:"service_id" bson:"service_id" validate:"required,mongodb"`
	StartTime           time.Time     `json:"start_time" bson:"start_time" validate:"required"`
	EndTime             time.Time     `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	DurationMin         int           `json:"duration_min" bson:"duration_min" validate:"required,min=5,max=480"`
	BufferMin           int           `json:"buffer_min" bson:"buffer_min" validate:"min=0,max=120"`
	Status              BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed noshow"`
	Client              ClientInfo    `json:"client" bson:"client"`
	CancelToken         string        `json:"-" bson:"cancel_token"`
	CancelledBy         string        `json:"cancelled_by,omitempty" bson:"cancelled_by,omitempty"`
	CancelReason        string        `json:"cancel_reason,omitempty" bson:"cancel_reason,omitempty"`
	CancelledAt         *time.Time    `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	RemindersSent       []int         `json:"reminders_sent,omitempty" bson:"reminders_sent,omitempty"`
	ReviewRequestSentAt *time.Time    `json:"review_request_sent_at,omitempty" bson:"review_request_sent_at,omitempty"`
	CreatedAt           time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Window returns the wall-clock minutes the booking occupies on its date,
// widened by the buffer on both sides and clamped to the day.
func (b *Booking) Window(bufferMin int) TimeRange {
	start := MinutesOf(b.StartTime) - bufferMin
	end := MinutesOf(b.StartTime) + b.DurationMin + bufferMin
	return TimeRange{Start: max(0, start), End: min(MinutesPerDay, end)}
}

// BookingRequest is the client-facing creation payload. The engine
// recomputes EndTime and status; clients only pick a start.
type BookingRequest struct {
	ProviderID  string     `json:"provider_id" validate:"required,mongodb"`
	LocationID  string     `json:"location_id" validate:"required,mongodb"`
	MemberID    string     `json:"member_id,omitempty" validate:"omitempty,mongodb"`
	ServiceID   string     `json:"service_id" validate:"required,mongodb"`
	StartTime   time.Time  `json:"start_time" validate:"required"`
	DurationMin int        `json:"duration_min" validate:"required,min=5,max=480"`
	Client      ClientInfo `json:"client"`
}

// SlotQuery are the inputs of one slot-generation run.
type SlotQuery struct {
	ProviderID  string    `json:"provider_id" validate:"required,mongodb"`
	LocationID  string    `json:"location_id" validate:"required,mongodb"`
	MemberID    string    `json:"member_id,omitempty" validate:"omitempty,mongodb"`
	ServiceID   string    `json:"service_id,omitempty" validate:"omitempty,mongodb"`
	Date        time.Time `json:"date" validate:"required"`
	DurationMin int       `json:"duration_min" validate:"required,min=5,max=480"`
	BufferMin   int       `json:"buffer_min" validate:"min=0,max=120"`
}
