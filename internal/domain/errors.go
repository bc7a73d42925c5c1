package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrValidation        = errors.New("validation failed")
	ErrEventNotOpen      = errors.New("event is not open for registration")
	ErrAlreadyRegistered = errors.New("already registered for event")
	ErrCapacityExceeded  = errors.New("event is at capacity")
	ErrNotRegistered     = errors.New("no active registration for event")
	ErrConflict          = errors.New("conflicting state")
	ErrTimeout           = errors.New("operation timed out")
	ErrTransient         = errors.New("transient storage failure")
	ErrFatal             = errors.New("invariant violation")
)
