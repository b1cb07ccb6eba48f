package model

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEffectiveEntry(t *testing.T) {
	v1 := date(2026, time.March, 1)
	v2 := date(2026, time.April, 1)

	baseline := &WeeklyScheduleEntry{ID: "base", IsOpen: true}
	march := &WeeklyScheduleEntry{ID: "march", IsOpen: true, EffectiveFrom: &v1}
	april := &WeeklyScheduleEntry{ID: "april", IsOpen: false, EffectiveFrom: &v2}

	entries := []*WeeklyScheduleEntry{baseline, april, march}

	tests := []struct {
		name   string
		onDate time.Time
		wantID string
	}{
		{"before any dated version", date(2026, time.February, 10), "base"},
		{"on first effective date", v1, "march"},
		{"between versions", date(2026, time.March, 15), "march"},
		{"on second effective date", v2, "april"},
		{"after all versions", date(2026, time.July, 1), "april"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveEntry(entries, tt.onDate)
			if got == nil || got.ID != tt.wantID {
				t.Errorf("EffectiveEntry(%s) = %v, want %s", tt.onDate.Format(time.DateOnly), got, tt.wantID)
			}
		})
	}
}

func TestEffectiveEntry_NoBaseline(t *testing.T) {
	v := date(2026, time.May, 1)
	entries := []*WeeklyScheduleEntry{{ID: "may", EffectiveFrom: &v}}

	if got := EffectiveEntry(entries, date(2026, time.April, 1)); got != nil {
		t.Errorf("expected nil before the only dated version, got %v", got)
	}
	if got := EffectiveEntry(entries, date(2026, time.May, 2)); got == nil || got.ID != "may" {
		t.Errorf("expected dated version after its effective date, got %v", got)
	}
}

func TestBooking_Window(t *testing.T) {
	b := &Booking{
		StartTime:   time.Date(2026, time.June, 8, 10, 0, 0, 0, time.UTC),
		DurationMin: 45,
	}

	if got := b.Window(0); got != (TimeRange{Start: 600, End: 645}) {
		t.Errorf("Window(0) = %v", got)
	}
	if got := b.Window(15); got != (TimeRange{Start: 585, End: 660}) {
		t.Errorf("Window(15) = %v", got)
	}
}

func TestBlockedRange_WindowOn(t *testing.T) {
	b := &BlockedRange{
		StartDate: date(2026, time.June, 8),
		EndDate:   date(2026, time.June, 10),
		StartTime: 600,
		EndTime:   720,
	}

	if _, ok := b.WindowOn(date(2026, time.June, 11)); ok {
		t.Error("date outside the range should not be covered")
	}

	win, ok := b.WindowOn(date(2026, time.June, 9))
	if !ok || win != (TimeRange{Start: 600, End: 720}) {
		t.Errorf("WindowOn() = %v, %v", win, ok)
	}

	b.AllDay = true
	win, ok = b.WindowOn(date(2026, time.June, 9))
	if !ok || win != (TimeRange{Start: 0, End: MinutesPerDay}) {
		t.Errorf("all-day WindowOn() = %v, %v", win, ok)
	}
}
