package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Specific validation errors below wrap it.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned when an operation is attempted without a
	// signed-in user.
	ErrUnauthorized = errors.New("unauthorized operation")
)
