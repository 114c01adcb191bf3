package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/flashcards-api/internal/domain"
	"github.com/phrazzld/flashcards-api/internal/store"
)

// MockCollectionStore implements store.CollectionStore for testing.
type MockCollectionStore struct {
	SaveCollectionFn  func(ctx context.Context, userID string, c *domain.Collection) error
	ListCollectionsFn func(ctx context.Context, userID string) ([]domain.CollectionSummary, error)
	ListCardsFn       func(ctx context.Context, userID, name string) ([]domain.StoredFlashcard, error)

	mu    sync.Mutex
	saved []*domain.Collection
}

var _ store.CollectionStore = (*MockCollectionStore)(nil)

// SaveCollection implements store.CollectionStore. Every collection passed
// in is recorded, whatever the outcome.
func (m *MockCollectionStore) SaveCollection(ctx context.Context, userID string, c *domain.Collection) error {
	m.mu.Lock()
	m.saved = append(m.saved, c)
	m.mu.Unlock()

	if m.SaveCollectionFn != nil {
		return m.SaveCollectionFn(ctx, userID, c)
	}
	return nil
}

// ListCollections implements store.CollectionStore.
func (m *MockCollectionStore) ListCollections(ctx context.Context, userID string) ([]domain.CollectionSummary, error) {
	if m.ListCollectionsFn != nil {
		return m.ListCollectionsFn(ctx, userID)
	}
	return []domain.CollectionSummary{}, nil
}

// ListCards implements store.CollectionStore. Without ListCardsFn every
// collection is missing.
func (m *MockCollectionStore) ListCards(ctx context.Context, userID, name string) ([]domain.StoredFlashcard, error) {
	if m.ListCardsFn != nil {
		return m.ListCardsFn(ctx, userID, name)
	}
	return nil, store.ErrCollectionNotFound
}

// Saved returns the collections passed to SaveCollection.
func (m *MockCollectionStore) Saved() []*domain.Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Collection(nil), m.saved...)
}
