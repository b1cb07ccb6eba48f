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

type BlockedRangeValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBlockedRangeValidator(log *logger.Logger) *BlockedRangeValidator {
	return &BlockedRangeValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *BlockedRangeValidator) Validate(br *model.BlockedRange) error {
	if err := v.validate.Struct(br); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	var errs ValidationErrors

	if model.DateOf(br.EndDate).Before(model.DateOf(br.StartDate)) {
		errs = append(errs, ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if !br.AllDay {
		window := model.TimeRange{Start: br.StartTime, End: br.EndTime}
		if !window.Valid() {
			errs = append(errs, ValidationError{
				Field:   "start_time",
				Message: "a partial-day block needs a valid time window with start before end",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *BlockedRangeValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
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
