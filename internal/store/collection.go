package store

import (
	"context"

	"github.com/phrazzld/flashcards-api/internal/domain"
)

// CollectionStore persists a user's collection index and the card sets it
// names. Implementations keep the two in step: a name appears in the index
// if and only if its cards were written in the same atomic unit.
type CollectionStore interface {
	// SaveCollection atomically reads the user's index, rejects the save with
	// ErrCollectionExists when the name is already present, and otherwise
	// merges the name into the index and writes every card with its position.
	// Concurrent saves of the same new name commit at most once.
	// Other failures wrap ErrTransactionFailed.
	SaveCollection(ctx context.Context, userID string, c *domain.Collection) error

	// ListCollections returns the names in the user's index in save order.
	// A user without an index gets an empty index created and an empty slice.
	ListCollections(ctx context.Context, userID string) ([]domain.CollectionSummary, error)

	// ListCards returns the cards of one collection ordered by position.
	// Returns ErrCollectionNotFound when the user or the name is unknown.
	ListCards(ctx context.Context, userID, name string) ([]domain.StoredFlashcard, error)
}
