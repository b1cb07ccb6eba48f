package model

import (
	"time"
)

// ScheduleKey identifies the weekly schedule of one member at one location.
// MemberID is empty for providers that do not schedule per member.
type ScheduleKey struct {
	ProviderID string `json:"provider_id" bson:"provider_id" validate:"required,mongodb"`
	LocationID string `json:"location_id" bson:"location_id" validate:"required,mongodb"`
	MemberID   string `json:"member_id,omitempty" bson:"member_id,omitempty" validate:"omitempty,mongodb"`
}

// WeeklyScheduleEntry is one day-of-week of a member's recurring hours.
// Entries are append-only: EffectiveFrom == nil is the baseline, a non-nil
// EffectiveFrom is a future-dated version that supersedes the baseline from
// that date on. Entries are never deleted, only superseded, so the history
// needed to explain conflicts is preserved.
type WeeklyScheduleEntry struct {
	ID            string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProviderID    string      `json:"provider_id" bson:"provider_id" validate:"required,mongodb"`
	LocationID    string      `json:"location_id" bson:"location_id" validate:"required,mongodb"`
	MemberID      string      `json:"member_id,omitempty" bson:"member_id,omitempty" validate:"omitempty,mongodb"`
	DayOfWeek     int         `json:"day_of_week" bson:"day_of_week" validate:"min=0,max=6"`
	IsOpen        bool        `json:"is_open" bson:"is_open"`
	Slots         []TimeRange `json:"slots" bson:"slots" validate:"omitempty,max=24,dive"`
	EffectiveFrom *time.Time  `json:"effective_from,omitempty" bson:"effective_from,omitempty"`
	CreatedAt     time.Time   `json:"created_at" bson:"created_at" validate:"omitempty"`
}

func (e *WeeklyScheduleEntry) Key() ScheduleKey {
	return ScheduleKey{ProviderID: e.ProviderID, LocationID: e.LocationID, MemberID: e.MemberID}
}

// EffectiveEntry selects the entry that applies on the given date: the one
// with the greatest EffectiveFrom <= onDate, or the baseline when no dated
// version qualifies. Returns nil when the list holds no applicable entry.
func EffectiveEntry(entries []*WeeklyScheduleEntry, onDate time.Time) *WeeklyScheduleEntry {
	onDate = DateOf(onDate)

	var baseline *WeeklyScheduleEntry
	var best *WeeklyScheduleEntry
	for _, e := range entries {
		if e.EffectiveFrom == nil {
			baseline = e
			continue
		}
		from := DateOf(*e.EffectiveFrom)
		if from.After(onDate) {
			continue
		}
		if best == nil || from.After(DateOf(*best.EffectiveFrom)) {
			best = e
		}
	}
	if best != nil {
		return best
	}
	return baseline
}
