package statemachine

import (
	"errors"
	"testing"

	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

func TestNextExhaustive(t *testing.T) {
	statuses := []model.BookingStatus{
		model.StatusPending,
		model.StatusConfirmed,
		model.StatusCancelled,
		model.StatusCompleted,
		model.StatusNoShow,
	}
	actions := []Action{ActionConfirm, ActionCancel, ActionComplete, ActionNoShow}

	// want maps every (status, action) pair to the expected next status;
	// empty string means the transition is illegal.
	want := map[model.BookingStatus]map[Action]model.BookingStatus{
		model.StatusPending: {
			ActionConfirm:  model.StatusConfirmed,
			ActionCancel:   model.StatusCancelled,
			ActionComplete: "",
			ActionNoShow:   "",
		},
		model.StatusConfirmed: {
			ActionConfirm:  model.StatusConfirmed, // idempotent retry
			ActionCancel:   model.StatusCancelled,
			ActionComplete: model.StatusCompleted,
			ActionNoShow:   model.StatusNoShow,
		},
		model.StatusCancelled: {
			ActionConfirm:  "",
			ActionCancel:   model.StatusCancelled, // idempotent retry
			ActionComplete: "",
			ActionNoShow:   "",
		},
		model.StatusCompleted: {
			ActionConfirm:  "",
			ActionCancel:   "",
			ActionComplete: model.StatusCompleted, // idempotent retry
			ActionNoShow:   "",
		},
		model.StatusNoShow: {
			ActionConfirm:  "",
			ActionCancel:   "",
			ActionComplete: "",
			ActionNoShow:   model.StatusNoShow, // idempotent retry
		},
	}

	for _, status := range statuses {
		for _, action := range actions {
			next, _, err := Next(status, action)
			expected := want[status][action]

			if expected == "" {
				if err == nil {
					t.Errorf("(%s, %s): expected error, got %s", status, action, next)
				} else if !errors.Is(err, ErrIllegalTransition) {
					t.Errorf("(%s, %s): error %v does not wrap ErrIllegalTransition", status, action, err)
				}
				continue
			}

			if err != nil {
				t.Errorf("(%s, %s): unexpected error: %v", status, action, err)
				continue
			}
			if next != expected {
				t.Errorf("(%s, %s) = %s, want %s", status, action, next, expected)
			}
		}
	}
}

func TestNextIdempotentRetryIsNoop(t *testing.T) {
	tests := []struct {
		current model.BookingStatus
		action  Action
	}{
		{model.StatusConfirmed, ActionConfirm},
		{model.StatusCancelled, ActionCancel},
		{model.StatusCompleted, ActionComplete},
		{model.StatusNoShow, ActionNoShow},
	}

	for _, tt := range tests {
		next, noop, err := Next(tt.current, tt.action)
		if err != nil {
			t.Errorf("(%s, %s): unexpected error: %v", tt.current, tt.action, err)
		}
		if !noop {
			t.Errorf("(%s, %s): expected noop retry", tt.current, tt.action)
		}
		if next != tt.current {
			t.Errorf("(%s, %s): noop must keep the current status, got %s", tt.current, tt.action, next)
		}
	}
}

func TestNextFirstTransitionIsNotNoop(t *testing.T) {
	next, noop, err := Next(model.StatusPending, ActionConfirm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if noop {
		t.Error("first confirm must not be a noop")
	}
	if next != model.StatusConfirmed {
		t.Errorf("next = %s, want %s", next, model.StatusConfirmed)
	}
}

func TestCanApply(t *testing.T) {
	if !CanApply(model.StatusPending, ActionCancel) {
		t.Error("pending booking must be cancellable")
	}
	if CanApply(model.StatusCompleted, ActionCancel) {
		t.Error("completed booking must not be cancellable")
	}
	if !CanApply(model.StatusCancelled, ActionCancel) {
		t.Error("cancel retry on a cancelled booking must be legal")
	}
}
