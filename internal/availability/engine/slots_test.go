package engine

import (
	"testing"
	"time"

	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

var (
	testMonday  = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday
	testTuesday = time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
)

func openEntry(day time.Weekday, slots ...model.TimeRange) *model.WeeklyScheduleEntry {
	return &model.WeeklyScheduleEntry{
		ProviderID: "64a000000000000000000001",
		LocationID: "64a000000000000000000002",
		DayOfWeek:  int(day),
		IsOpen:     true,
		Slots:      slots,
	}
}

func TestGenerateSlotsFullOpenDay(t *testing.T) {
	entry := openEntry(time.Monday, model.TimeRange{Start: 9 * 60, End: 18 * 60})

	starts := GenerateSlots(entry, nil, nil, testMonday, 30, 0)

	if len(starts) != 18 {
		t.Fatalf("expected 18 slots, got %d: %v", len(starts), starts)
	}
	if starts[0] != 9*60 {
		t.Errorf("first slot = %d, want %d", starts[0], 9*60)
	}
	if starts[len(starts)-1] != 17*60+30 {
		t.Errorf("last slot = %d, want %d", starts[len(starts)-1], 17*60+30)
	}
	for i := 1; i < len(starts); i++ {
		if starts[i]-starts[i-1] != 30 {
			t.Errorf("slots not spaced 30 minutes apart at index %d: %v", i, starts)
		}
	}
}

func TestGenerateSlotsAllDayBlock(t *testing.T) {
	entry := openEntry(time.Monday, model.TimeRange{Start: 9 * 60, End: 18 * 60})
	blocks := []*model.BlockedRange{{
		ProviderID: entry.ProviderID,
		StartDate:  testMonday,
		EndDate:    testMonday,
		AllDay:     true,
	}}

	starts := GenerateSlots(entry, blocks, nil, testMonday, 30, 0)

	if len(starts) != 0 {
		t.Fatalf("expected no slots on a fully blocked day, got %v", starts)
	}
}

func TestGenerateSlotsPartialBlock(t *testing.T) {
	entry := openEntry(time.Monday, model.TimeRange{Start: 9 * 60, End: 12 * 60})
	blocks := []*model.BlockedRange{{
		ProviderID: entry.ProviderID,
		StartDate:  testMonday,
		EndDate:    testMonday,
		StartTime:  10 * 60,
		EndTime:    11 * 60,
	}}

	starts := GenerateSlots(entry, blocks, nil, testMonday, 60, 0)

	want := []int{9 * 60, 11 * 60}
	if len(starts) != len(want) {
		t.Fatalf("expected %v, got %v", want, starts)
	}
	for i := range want {
		if starts[i] != want[i] {
			t.Errorf("slot %d = %d, want %d", i, starts[i], want[i])
		}
	}
}

func TestGenerateSlotsBlockForOtherDateIgnored(t *testing.T) {
	entry := openEntry(time.Monday, model.TimeRange{Start: 9 * 60, End: 10 * 60})
	blocks := []*model.BlockedRange{{
		ProviderID: entry.ProviderID,
		StartDate:  testTuesday,
		EndDate:    testTuesday,
		AllDay:     true,
	}}

	starts := GenerateSlots(entry, blocks, nil, testMonday, 30, 0)

	if len(starts) != 2 {
		t.Fatalf("block on another date must not remove slots, got %v", starts)
	}
}

func TestGenerateSlotsBlockScopedToOtherMemberIgnored(t *testing.T) {
	entry := openEntry(time.Monday, model.TimeRange{Start: 9 * 60, End: 10 * 60})
	blocks := []*model.BlockedRange{{
		ProviderID: entry.ProviderID,
		MemberID:   "64a0000000000000000000ff",
		StartDate:  testMonday,
		EndDate:    testMonday,
		AllDay:     true,
	}}

	starts := GenerateSlots(entry, blocks, nil, testMonday, 30, 0)

	if len(starts) != 2 {
		t.Fatalf("block scoped to another member must not remove slots, got %v", starts)
	}
}

func TestGenerateSlotsExistingBookingWithBuffer(t *testing.T) {
	entry := openEntry(time.Monday, model.TimeRange{Start: 9 * 60, End: 12 * 60})
	bookings := []*model.Booking{{
		ID:          "64a000000000000000000010",
		Status:      model.StatusConfirmed,
		StartTime:   model.AtMinutes(testMonday, 10*60),
		EndTime:     model.AtMinutes(testMonday, 10*60+30),
		DurationMin: 30,
	}}

	starts := GenerateSlots(entry, nil, bookings, testMonday, 30, 15)

	// Booking occupies 10:00-10:30, widened to 09:45-10:45.
	for _, s := range starts {
		if s+30 > 9*60+45 && s < 10*60+45 {
			t.Errorf("slot %d overlaps buffered booking window", s)
		}
	}
	if len(starts) == 0 {
		t.Fatal("expected some free slots around the booking")
	}
}

func TestGenerateSlotsCancelledBookingFreesSlot(t *testing.T) {
	entry := openEntry(time.Monday, model.TimeRange{Start: 10 * 60, End: 11 * 60})
	bookings := []*model.Booking{{
		ID:          "64a000000000000000000011",
		Status:      model.StatusCancelled,
		StartTime:   model.AtMinutes(testMonday, 10*60),
		EndTime:     model.AtMinutes(testMonday, 11*60),
		DurationMin: 60,
	}}

	starts := GenerateSlots(entry, nil, bookings, testMonday, 60, 0)

	if len(starts) != 1 || starts[0] != 10*60 {
		t.Fatalf("cancelled booking must not consume the slot, got %v", starts)
	}
}

func TestGenerateSlotsClosedDay(t *testing.T) {
	entry := &model.WeeklyScheduleEntry{DayOfWeek: int(time.Monday), IsOpen: false}

	if starts := GenerateSlots(entry, nil, nil, testMonday, 30, 0); len(starts) != 0 {
		t.Fatalf("closed day must yield no slots, got %v", starts)
	}
	if starts := GenerateSlots(nil, nil, nil, testMonday, 30, 0); len(starts) != 0 {
		t.Fatalf("missing entry must yield no slots, got %v", starts)
	}
}

func TestGenerateSlotsDurationMustFitSingleInterval(t *testing.T) {
	// Two 45-minute islands; a 60-minute service fits in neither.
	entry := openEntry(time.Monday,
		model.TimeRange{Start: 9 * 60, End: 9*60 + 45},
		model.TimeRange{Start: 10 * 60, End: 10*60 + 45},
	)

	if starts := GenerateSlots(entry, nil, nil, testMonday, 60, 0); len(starts) != 0 {
		t.Fatalf("60-minute service cannot span interval gaps, got %v", starts)
	}
}
