package engine

import (
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

// DetectConflicts reports the bookings a proposed day schedule would orphan.
// A booking conflicts when the proposed day is closed, or when its time no
// longer fits inside any single proposed range. Buffers are ignored here:
// they space bookings apart, they do not bind against opening hours.
//
// Advisory output only. Nothing is mutated; conflicting bookings stay on the
// books and the provider resolves them out of band.
func DetectConflicts(
	proposedIsOpen bool,
	proposedSlots []model.TimeRange,
	bookings []*model.Booking,
) []model.Conflict {
	var conflicts []model.Conflict

	for _, b := range bookings {
		if b.Status.IsTerminal() {
			continue
		}

		window := b.Window(0)

		if !proposedIsOpen {
			conflicts = append(conflicts, conflict(b, window, model.ConflictDayClosed))
			continue
		}

		fits := false
		for _, slot := range proposedSlots {
			if slot.Contains(window) {
				fits = true
				break
			}
		}
		if !fits {
			conflicts = append(conflicts, conflict(b, window, model.ConflictOutsideHours))
		}
	}

	return conflicts
}

func conflict(b *model.Booking, window model.TimeRange, typ model.ConflictType) model.Conflict {
	return model.Conflict{
		BookingID:   b.ID,
		ClientName:  b.Client.Name,
		ServiceID:   b.ServiceID,
		BookingDate: model.DateOf(b.StartTime),
		Window:      window,
		Type:        typ,
	}
}
