package engine

import (
	"time"

	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

// GenerateSlots computes the bookable start times for one member on one
// date, as minutes since midnight in ascending order.
//
// The effective entry's open ranges are the starting point. Blocked windows
// covering the date are removed, then the occupancy of every non-terminal
// booking widened by the buffer on both sides. Candidate starts are walked
// at durationMin steps from the beginning of each remaining free interval;
// a candidate counts only when the whole appointment fits inside a single
// interval.
//
// Pure function: same inputs, same output. The authoritative re-check at
// booking commit time calls it again inside a transaction.
func GenerateSlots(
	entry *model.WeeklyScheduleEntry,
	blocks []*model.BlockedRange,
	bookings []*model.Booking,
	date time.Time,
	durationMin int,
	bufferMin int,
) []int {
	if entry == nil || !entry.IsOpen || durationMin <= 0 {
		return nil
	}

	free := make([]model.TimeRange, 0, len(entry.Slots))
	for _, slot := range entry.Slots {
		if slot.Valid() {
			free = append(free, slot)
		}
	}

	var cuts []model.TimeRange
	for _, block := range blocks {
		if !block.AppliesTo(entry.LocationID, entry.MemberID) {
			continue
		}
		if window, ok := block.WindowOn(date); ok && window.Valid() {
			cuts = append(cuts, window)
		}
	}

	day := model.DateOf(date)
	for _, b := range bookings {
		if b.Status.IsTerminal() {
			continue
		}
		if !model.DateOf(b.StartTime).Equal(day) {
			continue
		}
		buffer := bufferMin
		if b.BufferMin > buffer {
			buffer = b.BufferMin
		}
		cuts = append(cuts, b.Window(buffer))
	}

	free = model.SubtractAll(free, cuts)

	var starts []int
	for _, interval := range free {
		for start := interval.Start; start+durationMin <= interval.End; start += durationMin {
			starts = append(starts, start)
		}
	}
	return starts
}
