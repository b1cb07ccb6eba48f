package model

import (
	"fmt"
)

// MinutesPerDay bounds every wall-clock time range.
const MinutesPerDay = 24 * 60

// TimeRange is a half-open [Start, End) window expressed in minutes since
// midnight. A valid range satisfies 0 <= Start < End <= 1440.
type TimeRange struct {
	Start int `json:"start" bson:"start" validate:"min=0,max=1440"`
	End   int `json:"end" bson:"end" validate:"min=0,max=1440"`
}

func (tr TimeRange) Valid() bool {
	return tr.Start >= 0 && tr.Start < tr.End && tr.End <= MinutesPerDay
}

func (tr TimeRange) Contains(other TimeRange) bool {
	return tr.Start <= other.Start && other.End <= tr.End
}

func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.Start < other.End && tr.End > other.Start
}

func (tr TimeRange) DurationMin() int {
	return tr.End - tr.Start
}

// Subtract removes other from tr and returns the remaining pieces
// in ascending order (zero, one or two ranges).
func (tr TimeRange) Subtract(other TimeRange) []TimeRange {
	if !tr.Overlaps(other) {
		return []TimeRange{tr}
	}

	var remaining []TimeRange
	if other.Start > tr.Start {
		remaining = append(remaining, TimeRange{Start: tr.Start, End: other.Start})
	}
	if other.End < tr.End {
		remaining = append(remaining, TimeRange{Start: other.End, End: tr.End})
	}
	return remaining
}

func (tr TimeRange) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", tr.Start/60, tr.Start%60, tr.End/60, tr.End%60)
}

// SubtractAll removes every window in cuts from the given free ranges.
func SubtractAll(free []TimeRange, cuts []TimeRange) []TimeRange {
	for _, cut := range cuts {
		var next []TimeRange
		for _, f := range free {
			next = append(next, f.Subtract(cut)...)
		}
		free = next
	}
	return free
}

// RangesOverlap reports whether any two ranges in the list overlap.
func RangesOverlap(ranges []TimeRange) bool {
	for i := 0; i < len(ranges); i++ {
		for j := i + 1; j < len(ranges); j++ {
			if ranges[i].Overlaps(ranges[j]) {
				return true
			}
		}
	}
	return false
}
