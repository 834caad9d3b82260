package domain

import "errors"

// Error categories. Callers match them with errors.Is; concrete errors wrap
// one of these alongside the underlying cause.
var (
	// ErrNotFound: the record does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrTransient: the store or blob backend failed; the caller may retry.
	ErrTransient = errors.New("temporarily unavailable")
	// ErrValidation: required input is missing or outside the allowed values.
	ErrValidation = errors.New("invalid input")
	// ErrConflict: the inspection lifecycle does not allow the operation.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable: an optional collaborator is not configured.
	ErrUnavailable = errors.New("not configured")
)
