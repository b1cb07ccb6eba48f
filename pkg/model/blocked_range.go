package model

import (
	"time"
)

// BlockedRange is a date-bounded absence (vacation, sick leave) that
// overrides the weekly schedule. AllDay removes the whole day; otherwise
// only the [StartTime, EndTime) window is removed. No versioning: the
// explicit date bounds make it safe to create and delete directly.
type BlockedRange struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProviderID string    `json:"provider_id" bson:"provider_id" validate:"required,mongodb"`
	LocationID string    `json:"location_id,omitempty" bson:"location_id,omitempty" validate:"omitempty,mongodb"`
	MemberID   string    `json:"member_id,omitempty" bson:"member_id,omitempty" validate:"omitempty,mongodb"`
	StartDate  time.Time `json:"start_date" bson:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" bson:"end_date" validate:"required"`
	AllDay     bool      `json:"all_day" bson:"all_day"`
	StartTime  int       `json:"start_time,omitempty" bson:"start_time,omitempty" validate:"min=0,max=1440"`
	EndTime    int       `json:"end_time,omitempty" bson:"end_time,omitempty" validate:"min=0,max=1440"`
	Reason     string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=200"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// CoversDate reports whether the range includes the given calendar date.
// Both bounds are inclusive.
func (b *BlockedRange) CoversDate(date time.Time) bool {
	date = DateOf(date)
	return !date.Before(DateOf(b.StartDate)) && !date.After(DateOf(b.EndDate))
}

// AppliesTo reports whether the range constrains the given location/member.
// An empty LocationID or MemberID on the block means it applies everywhere.
func (b *BlockedRange) AppliesTo(locationID, memberID string) bool {
	if b.LocationID != "" && b.LocationID != locationID {
		return false
	}
	if b.MemberID != "" && b.MemberID != memberID {
		return false
	}
	return true
}

// WindowOn returns the time window removed from the given date, and whether
// the range covers that date at all.
func (b *BlockedRange) WindowOn(date time.Time) (TimeRange, bool) {
	if !b.CoversDate(date) {
		return TimeRange{}, false
	}
	if b.AllDay {
		return TimeRange{Start: 0, End: MinutesPerDay}, true
	}
	return TimeRange{Start: b.StartTime, End: b.EndTime}, true
}
