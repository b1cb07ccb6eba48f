package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/LewisLovet/opatam-sub005/pkg/logger"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ScheduleValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewScheduleValidator(log *logger.Logger) *ScheduleValidator {
	return &ScheduleValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *ScheduleValidator) Validate(entry *model.WeeklyScheduleEntry) error {
	if err := v.validate.Struct(entry); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.checkSlots(entry)
}

// checkSlots enforces the invariants struct tags cannot express: an open day
// carries at least one well-formed slot, slots never overlap, and a closed
// day carries none.
func (v *ScheduleValidator) checkSlots(entry *model.WeeklyScheduleEntry) error {
	var errs ValidationErrors

	if entry.IsOpen && len(entry.Slots) == 0 {
		errs = append(errs, ValidationError{
			Field:   "slots",
			Message: "an open day must have at least one time range",
		})
	}
	if !entry.IsOpen && len(entry.Slots) > 0 {
		errs = append(errs, ValidationError{
			Field:   "slots",
			Message: "a closed day must not have time ranges",
		})
	}

	for i, slot := range entry.Slots {
		if !slot.Valid() {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("slots[%d]", i),
				Message: fmt.Sprintf("invalid time range %s: start must be before end and both within 00:00-24:00", slot),
			})
		}
	}

	if model.RangesOverlap(entry.Slots) {
		errs = append(errs, ValidationError{
			Field:   "slots",
			Message: "time ranges must not overlap",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *ScheduleValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid object ID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
