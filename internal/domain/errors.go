package domain

import "errors"

var (
	// ErrNotFound is returned when a record lookup has no match.
	ErrNotFound = errors.New("not found")
	// ErrInvalidFilter marks a malformed query request.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidSubscription marks a malformed subscribe request.
	ErrInvalidSubscription = errors.New("invalid subscription")
)
