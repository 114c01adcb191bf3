package store

import (
	"errors"
	"fmt"
)

// Common store errors returned by every CollectionStore backend.
var (
	// ErrNotFound is returned when a user's collection index or a named
	// collection does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a save would create a second collection
	// with a name the user already has.
	ErrDuplicate = errors.New("entity already exists")

	// ErrTransactionFailed is returned when the atomic save could not be
	// committed for any reason other than a duplicate name.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrCollectionNotFound indicates the named collection does not exist.
	ErrCollectionNotFound = fmt.Errorf("%w: collection", ErrNotFound)

	// ErrCollectionExists indicates the user already has a collection with that name.
	ErrCollectionExists = fmt.Errorf("%w: collection name", ErrDuplicate)
)

// IsNotFoundError reports whether err is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a store failure with the entity and operation it concerns.
type StoreError struct {
	Entity    string // The entity type (e.g., "collection", "index")
	Operation string // The operation that failed (e.g., "save", "list")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// TransactionError wraps a backend failure so it matches ErrTransactionFailed
// while keeping the underlying cause available to errors.As.
func TransactionError(operation string, err error) error {
	return NewStoreError("collection", operation, "transaction failed",
		fmt.Errorf("%w: %w", ErrTransactionFailed, err))
}
