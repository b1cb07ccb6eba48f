package statemachine

import (
	"errors"
	"fmt"

	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

// Action is a lifecycle operation requested on a booking.
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
	ActionNoShow   Action = "noshow"
)

var ErrIllegalTransition = errors.New("illegal booking state transition")

// transitions is the single source of truth for the lifecycle. Terminal
// states have no outgoing edges.
var transitions = map[model.BookingStatus]map[Action]model.BookingStatus{
	model.StatusPending: {
		ActionConfirm: model.StatusConfirmed,
		ActionCancel:  model.StatusCancelled,
	},
	model.StatusConfirmed: {
		ActionCancel:   model.StatusCancelled,
		ActionComplete: model.StatusCompleted,
		ActionNoShow:   model.StatusNoShow,
	},
}

// target is the state each action lands in, used for idempotent retries.
var target = map[Action]model.BookingStatus{
	ActionConfirm:  model.StatusConfirmed,
	ActionCancel:   model.StatusCancelled,
	ActionComplete: model.StatusCompleted,
	ActionNoShow:   model.StatusNoShow,
}

// Next resolves one transition. noop is true when the booking is already in
// the action's target state: a retried request that already succeeded must
// not fail, and must not run side effects twice.
func Next(current model.BookingStatus, action Action) (next model.BookingStatus, noop bool, err error) {
	if current == target[action] {
		return current, true, nil
	}

	next, ok := transitions[current][action]
	if !ok {
		return "", false, fmt.Errorf("%w: cannot %s a %s booking", ErrIllegalTransition, action, current)
	}
	return next, false, nil
}

// CanApply reports whether the action is currently legal, counting an
// idempotent retry as legal.
func CanApply(current model.BookingStatus, action Action) bool {
	_, _, err := Next(current, action)
	return err == nil
}
