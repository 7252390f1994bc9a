package abtest

import "errors"

var (
	// ErrValidation reports an invalid state transition or constraint
	// violation (allocation sum, variant count, lifecycle rules).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound reports an unknown session, variant or template name.
	ErrNotFound = errors.New("not found")
)
