package errors

import "errors"

var (
	ErrNotFound = errors.New("blocked range not found")

	ErrInvalidID = errors.New("invalid blocked range ID format")
)
