package errors

import "errors"

var (
	ErrNotFound = errors.New("schedule entry not found")

	ErrInvalidID = errors.New("invalid schedule entry ID format")
)
