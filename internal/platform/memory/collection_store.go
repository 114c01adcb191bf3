// Package memory provides an in-process store.CollectionStore for local
// development and tests. Data does not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/phrazzld/flashcards-api/internal/domain"
	"github.com/phrazzld/flashcards-api/internal/store"
)

type userData struct {
	index       []domain.CollectionSummary
	collections map[string][]domain.StoredFlashcard
}

// CollectionStore keeps every user's index and card sets in maps guarded by
// one mutex, so each SaveCollection is a single critical section.
type CollectionStore struct {
	mu    sync.Mutex
	users map[string]*userData
}

var _ store.CollectionStore = (*CollectionStore)(nil)

// NewCollectionStore returns an empty store.
func NewCollectionStore() *CollectionStore {
	return &CollectionStore{users: make(map[string]*userData)}
}

// SaveCollection implements store.CollectionStore.
func (s *CollectionStore) SaveCollection(ctx context.Context, userID string, c *domain.Collection) error {
	if err := ctx.Err(); err != nil {
		return store.TransactionError("save", err)
	}

	cards := make([]domain.StoredFlashcard, len(c.Cards))
	for i, card := range c.Cards {
		id, err := domain.NewCardID()
		if err != nil {
			return store.TransactionError("save", err)
		}
		cards[i] = domain.StoredFlashcard{ID: id, Flashcard: card, Position: i}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.userLocked(userID)
	if _, exists := u.collections[c.Name]; exists {
		return store.ErrCollectionExists
	}
	u.index = append(u.index, domain.CollectionSummary{Name: c.Name})
	u.collections[c.Name] = cards
	return nil
}

// ListCollections implements store.CollectionStore.
func (s *CollectionStore) ListCollections(ctx context.Context, userID string) ([]domain.CollectionSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.userLocked(userID)
	out := make([]domain.CollectionSummary, len(u.index))
	copy(out, u.index)
	return out, nil
}

// ListCards implements store.CollectionStore.
func (s *CollectionStore) ListCards(ctx context.Context, userID, name string) ([]domain.StoredFlashcard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, store.ErrCollectionNotFound
	}
	cards, ok := u.collections[name]
	if !ok {
		return nil, store.ErrCollectionNotFound
	}
	out := make([]domain.StoredFlashcard, len(cards))
	copy(out, cards)
	return out, nil
}

// userLocked returns the user's data, creating an empty index on first use.
// Callers hold s.mu.
func (s *CollectionStore) userLocked(userID string) *userData {
	u, ok := s.users[userID]
	if !ok {
		u = &userData{collections: make(map[string][]domain.StoredFlashcard)}
		s.users[userID] = u
	}
	return u
}
