package model

import "time"

// ProviderSettings are the booking policies the engine consumes read-only.
type ProviderSettings struct {
	ProviderID              string    `json:"provider_id" bson:"_id" validate:"required,mongodb"`
	RequiresConfirmation    bool      `json:"requires_confirmation" bson:"requires_confirmation"`
	DefaultBufferMin        int       `json:"default_buffer_min" bson:"default_buffer_min" validate:"min=0,max=120"`
	MinBookingNoticeMin     int       `json:"min_booking_notice_min" bson:"min_booking_notice_min" validate:"min=0,max=10080"`
	MaxBookingAdvanceDays   int       `json:"max_booking_advance_days" bson:"max_booking_advance_days" validate:"min=1,max=365"`
	AllowClientCancellation bool      `json:"allow_client_cancellation" bson:"allow_client_cancellation"`
	CancellationDeadlineMin int       `json:"cancellation_deadline_min" bson:"cancellation_deadline_min" validate:"min=0,max=20160"`
	ReminderOffsetsHours    []int     `json:"reminder_offsets_hours" bson:"reminder_offsets_hours" validate:"omitempty,max=10,dive,min=1,max=720"`
	UpdatedAt               time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// BookingWindow returns the earliest and latest dates a client may book,
// relative to now.
func (s *ProviderSettings) BookingWindow(now time.Time) (earliest, latest time.Time) {
	earliest = now.Add(time.Duration(s.MinBookingNoticeMin) * time.Minute)
	latest = now.AddDate(0, 0, s.MaxBookingAdvanceDays)
	return earliest, latest
}
