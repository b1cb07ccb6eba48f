package engine

import (
	"testing"

	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

func tuesdayBooking(startMin, durationMin int, status model.BookingStatus) *model.Booking {
	return &model.Booking{
		ID:          "64a000000000000000000020",
		ServiceID:   "64a000000000000000000021",
		Status:      status,
		StartTime:   model.AtMinutes(testTuesday, startMin),
		EndTime:     model.AtMinutes(testTuesday, startMin+durationMin),
		DurationMin: durationMin,
		Client:      model.ClientInfo{Name: "Dana Levi", Email: "dana@example.com"},
	}
}

func TestDetectConflictsNarrowedHours(t *testing.T) {
	// Confirmed booking Tuesday 10:00-10:45, proposal moves Tuesday
	// to [12:00, 18:00).
	booking := tuesdayBooking(10*60, 45, model.StatusConfirmed)
	proposal := []model.TimeRange{{Start: 12 * 60, End: 18 * 60}}

	conflicts := DetectConflicts(true, proposal, []*model.Booking{booking})

	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	c := conflicts[0]
	if c.Type != model.ConflictOutsideHours {
		t.Errorf("conflict type = %s, want %s", c.Type, model.ConflictOutsideHours)
	}
	if !c.BookingDate.Equal(testTuesday) {
		t.Errorf("booking date = %v, want %v", c.BookingDate, testTuesday)
	}
	if c.BookingID != booking.ID || c.ClientName != "Dana Levi" {
		t.Errorf("conflict does not identify the booking: %+v", c)
	}
}

func TestDetectConflictsDayClosed(t *testing.T) {
	booking := tuesdayBooking(10*60, 45, model.StatusPending)

	conflicts := DetectConflicts(false, nil, []*model.Booking{booking})

	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	if conflicts[0].Type != model.ConflictDayClosed {
		t.Errorf("conflict type = %s, want %s", conflicts[0].Type, model.ConflictDayClosed)
	}
}

func TestDetectConflictsBookingStillFits(t *testing.T) {
	booking := tuesdayBooking(13*60, 45, model.StatusConfirmed)
	proposal := []model.TimeRange{{Start: 12 * 60, End: 18 * 60}}

	if conflicts := DetectConflicts(true, proposal, []*model.Booking{booking}); len(conflicts) != 0 {
		t.Fatalf("booking inside proposed hours must not conflict, got %+v", conflicts)
	}
}

func TestDetectConflictsTerminalStatusesIgnored(t *testing.T) {
	for _, status := range []model.BookingStatus{model.StatusCancelled, model.StatusCompleted, model.StatusNoShow} {
		booking := tuesdayBooking(10*60, 45, status)
		if conflicts := DetectConflicts(false, nil, []*model.Booking{booking}); len(conflicts) != 0 {
			t.Errorf("%s booking must not conflict, got %+v", status, conflicts)
		}
	}
}

func TestDetectConflictsBookingSpanningTwoRanges(t *testing.T) {
	// Proposed hours have a lunch gap; a booking across the gap does not
	// fit in a single range even though both halves are open.
	booking := tuesdayBooking(11*60+30, 60, model.StatusConfirmed)
	proposal := []model.TimeRange{
		{Start: 9 * 60, End: 12 * 60},
		{Start: 12*60 + 30, End: 18 * 60},
	}

	conflicts := DetectConflicts(true, proposal, []*model.Booking{booking})

	if len(conflicts) != 1 || conflicts[0].Type != model.ConflictOutsideHours {
		t.Fatalf("expected one outside_hours conflict, got %+v", conflicts)
	}
}

func TestDetectConflictsMultipleBookings(t *testing.T) {
	inside := tuesdayBooking(14*60, 30, model.StatusConfirmed)
	inside.ID = "64a000000000000000000030"
	outside := tuesdayBooking(9*60, 30, model.StatusConfirmed)
	outside.ID = "64a000000000000000000031"
	proposal := []model.TimeRange{{Start: 12 * 60, End: 18 * 60}}

	conflicts := DetectConflicts(true, proposal, []*model.Booking{inside, outside})

	if len(conflicts) != 1 {
		t.Fatalf("expected exactly the out-of-hours booking to conflict, got %+v", conflicts)
	}
	if conflicts[0].BookingID != outside.ID {
		t.Errorf("conflicting booking = %s, want %s", conflicts[0].BookingID, outside.ID)
	}
}
