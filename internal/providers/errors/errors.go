package errors

import "errors"

var (
	ErrNotFound = errors.New("provider settings not found")
)
