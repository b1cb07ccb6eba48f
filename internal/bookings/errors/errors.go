package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStatusChanged: the compare-and-set update matched no document, so
	// another request changed the status first. Callers reload and decide.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)
