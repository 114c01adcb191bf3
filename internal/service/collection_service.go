package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashcards-api/internal/domain"
	"github.com/phrazzld/flashcards-api/internal/metrics"
	"github.com/phrazzld/flashcards-api/internal/platform/logger"
	"github.com/phrazzld/flashcards-api/internal/redact"
	"github.com/phrazzld/flashcards-api/internal/store"
)

// CollectionService provides the collection use cases for a signed-in user.
type CollectionService interface {
	// SaveCollection validates and stores a named collection. It returns
	// ErrDuplicateName if the user already has a collection with that name.
	SaveCollection(ctx context.Context, userID, name string, cards []domain.Flashcard) (*domain.Collection, error)

	// ListCollections returns the user's collection index in save order.
	ListCollections(ctx context.Context, userID string) ([]domain.CollectionSummary, error)

	// ListCards returns the cards of one collection in saved order.
	ListCards(ctx context.Context, userID, name string) ([]domain.StoredFlashcard, error)
}

type collectionServiceImpl struct {
	store   store.CollectionStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

var _ CollectionService = (*collectionServiceImpl)(nil)

// NewCollectionService creates a new CollectionService.
// It returns an error if the store is nil. m may be nil.
func NewCollectionService(
	collectionStore store.CollectionStore,
	m *metrics.Metrics,
	logger *slog.Logger,
) (CollectionService, error) {
	if collectionStore == nil {
		return nil, fmt.Errorf("%w: collection store cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &collectionServiceImpl{
		store:   collectionStore,
		metrics: m,
		logger:  logger.With(slog.String("component", "collection_service")),
	}, nil
}

// SaveCollection implements CollectionService.SaveCollection
func (s *collectionServiceImpl) SaveCollection(
	ctx context.Context,
	userID, name string,
	cards []domain.Flashcard,
) (*domain.Collection, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	collection, err := domain.NewCollection(name, cards)
	if err != nil {
		log.Debug("rejected invalid collection", slog.String("error", err.Error()))
		s.metrics.ObserveSave(metrics.OutcomeInvalid)
		return nil, err
	}

	log = log.With(slog.String("collection", collection.Name))
	err = s.store.SaveCollection(ctx, userID, collection)
	switch {
	case err == nil:
		s.metrics.ObserveSave(metrics.OutcomeSuccess)
		log.Info("saved collection", slog.Int("card_count", len(collection.Cards)))
		return collection, nil
	case store.IsDuplicateError(err):
		s.metrics.ObserveSave(metrics.OutcomeDuplicate)
		log.Info("collection name already exists")
		return nil, NewCollectionServiceError("save_collection", "name already taken", ErrDuplicateName)
	default:
		s.metrics.ObserveSave(metrics.OutcomeFailed)
		log.Error("failed to save collection", slog.String("error", redact.Error(err)))
		return nil, NewCollectionServiceError("save_collection", "store failure",
			fmt.Errorf("%w: %w", ErrPersistence, err))
	}
}

// ListCollections implements CollectionService.ListCollections
func (s *collectionServiceImpl) ListCollections(
	ctx context.Context,
	userID string,
) ([]domain.CollectionSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	index, err := s.store.ListCollections(ctx, userID)
	if err != nil {
		log.Error("failed to list collections", slog.String("error", redact.Error(err)))
		return nil, NewCollectionServiceError("list_collections", "store failure",
			fmt.Errorf("%w: %w", ErrPersistence, err))
	}
	if index == nil {
		index = []domain.CollectionSummary{}
	}
	return index, nil
}

// ListCards implements CollectionService.ListCards
func (s *collectionServiceImpl) ListCards(
	ctx context.Context,
	userID, name string,
) ([]domain.StoredFlashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	name = domain.NormalizeCollectionName(name)
	if name == "" {
		return nil, NewCollectionServiceError("list_cards", "empty name", ErrCollectionNotFound)
	}

	cards, err := s.store.ListCards(ctx, userID, name)
	switch {
	case err == nil:
		return cards, nil
	case store.IsNotFoundError(err):
		log.Debug("collection not found", slog.String("collection", name))
		return nil, NewCollectionServiceError("list_cards", "collection not found", ErrCollectionNotFound)
	default:
		log.Error("failed to list cards",
			slog.String("collection", name),
			slog.String("error", redact.Error(err)))
		return nil, NewCollectionServiceError("list_cards", "store failure",
			fmt.Errorf("%w: %w", ErrPersistence, err))
	}
}
