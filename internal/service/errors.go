package service

import (
	"errors"
	"fmt"
)

// Service errors returned by CollectionService. Callers check them with
// errors.Is; the API layer maps each to an HTTP status.
var (
	// ErrDuplicateName indicates the user already has a collection with the
	// requested name. API layer should map this to HTTP 409 Conflict.
	ErrDuplicateName = errors.New("collection name already exists")

	// ErrCollectionNotFound indicates the requested collection does not exist
	// for the user. API layer should map this to HTTP 404 Not Found.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrPersistence indicates the store could not complete the operation.
	// API layer should map this to HTTP 500 Internal Server Error.
	ErrPersistence = errors.New("failed to persist collection")
)

// CollectionServiceError is a custom error type for collection service errors.
type CollectionServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for CollectionServiceError.
func (e *CollectionServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("collection service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("collection service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CollectionServiceError) Unwrap() error {
	return e.Err
}

// NewCollectionServiceError creates a new CollectionServiceError.
func NewCollectionServiceError(operation, message string, err error) *CollectionServiceError {
	return &CollectionServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
