package loan

import "errors"

// Error kinds returned by the store and the lifecycle engine. All are
// expected, recoverable conditions; callers match with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrNotFound          = errors.New("loan not found")
	ErrDuplicateID       = errors.New("duplicate loan id")
)
