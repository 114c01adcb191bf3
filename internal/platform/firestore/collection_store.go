package firestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"github.com/phrazzld/flashcards-api/internal/domain"
	"github.com/phrazzld/flashcards-api/internal/platform/logger"
	"github.com/phrazzld/flashcards-api/internal/redact"
	"github.com/phrazzld/flashcards-api/internal/store"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// UsersCollection is the top-level collection holding one document per user.
	UsersCollection = "user"

	indexField    = "flashcards"
	positionField = "position"
)

// indexDoc is the user document.
type indexDoc struct {
	Flashcards []domain.CollectionSummary `firestore:"flashcards"`
}

func (d indexDoc) contains(name string) bool {
	for _, entry := range d.Flashcards {
		if entry.Name == name {
			return true
		}
	}
	return false
}

// cardDoc is one flashcard document inside a collection's subcollection.
type cardDoc struct {
	Front    string `firestore:"front"`
	Back     string `firestore:"back"`
	Position int    `firestore:"position"`
}

// CollectionStore implements store.CollectionStore on Firestore.
type CollectionStore struct {
	client *firestore.Client
	logger *slog.Logger
}

var _ store.CollectionStore = (*CollectionStore)(nil)

// NewCollectionStore wraps an open client. If logger is nil, a default
// logger will be used.
func NewCollectionStore(client *firestore.Client, logger *slog.Logger) *CollectionStore {
	if client == nil {
		panic("firestore client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectionStore{
		client: client,
		logger: logger.With(slog.String("component", "collection_store")),
	}
}

func (s *CollectionStore) userRef(userID string) *firestore.DocumentRef {
	return s.client.Collection(UsersCollection).Doc(userID)
}

// SaveCollection implements store.CollectionStore. The index read is
// validated at commit; if another save changed the user document first,
// Firestore re-runs the function, which then sees the committed name.
func (s *CollectionStore) SaveCollection(ctx context.Context, userID string, c *domain.Collection) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID),
		slog.String("collection", c.Name))

	cards, err := toCardDocs(c)
	if err != nil {
		return store.TransactionError("save", err)
	}

	userRef := s.userRef(userID)
	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		index, err := readIndex(tx.Get(userRef))
		if err != nil {
			return err
		}
		if index.contains(c.Name) {
			return store.ErrCollectionExists
		}

		entry := domain.CollectionSummary{Name: c.Name}
		if err := tx.Set(userRef, map[string]interface{}{
			indexField: firestore.ArrayUnion(entry),
		}, firestore.MergeAll); err != nil {
			return fmt.Errorf("update index: %w", err)
		}

		cardsRef := userRef.Collection(c.Name)
		for id, card := range cards {
			if err := tx.Create(cardsRef.Doc(id), card); err != nil {
				return fmt.Errorf("create card: %w", err)
			}
		}
		return nil
	})

	switch {
	case err == nil:
		log.Debug("collection saved", slog.Int("card_count", len(cards)))
		return nil
	case errors.Is(err, store.ErrCollectionExists):
		log.Debug("collection name already taken")
		return store.ErrCollectionExists
	default:
		log.Error("failed to save collection", slog.String("error", redact.Error(err)))
		return store.TransactionError("save", err)
	}
}

// ListCollections implements store.CollectionStore. A user without a
// document gets an empty one.
func (s *CollectionStore) ListCollections(ctx context.Context, userID string) ([]domain.CollectionSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID))
	userRef := s.userRef(userID)

	snap, err := userRef.Get(ctx)
	if status.Code(err) == codes.NotFound {
		_, err = userRef.Create(ctx, indexDoc{Flashcards: []domain.CollectionSummary{}})
		if err != nil && status.Code(err) != codes.AlreadyExists {
			log.Error("failed to create collection index", slog.String("error", redact.Error(err)))
			return nil, store.NewStoreError("index", "list", "failed to create index", err)
		}
		log.Debug("created empty collection index")
		return []domain.CollectionSummary{}, nil
	}

	index, err := readIndex(snap, err)
	if err != nil {
		log.Error("failed to read collection index", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("index", "list", "read failed", err)
	}
	out := make([]domain.CollectionSummary, len(index.Flashcards))
	copy(out, index.Flashcards)
	return out, nil
}

// ListCards implements store.CollectionStore.
func (s *CollectionStore) ListCards(ctx context.Context, userID, name string) ([]domain.StoredFlashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID),
		slog.String("collection", name))
	userRef := s.userRef(userID)

	snap, err := userRef.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, store.ErrCollectionNotFound
	}
	index, err := readIndex(snap, err)
	if err != nil {
		log.Error("failed to read collection index", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("collection", "list cards", "read index failed", err)
	}
	if !index.contains(name) {
		return nil, store.ErrCollectionNotFound
	}

	docs, err := userRef.Collection(name).OrderBy(positionField, firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		log.Error("failed to query flashcards", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("collection", "list cards", "query failed", err)
	}

	out := make([]domain.StoredFlashcard, 0, len(docs))
	for _, doc := range docs {
		var card cardDoc
		if err := doc.DataTo(&card); err != nil {
			return nil, store.NewStoreError("collection", "list cards", "decode failed", err)
		}
		out = append(out, domain.StoredFlashcard{
			ID:        doc.Ref.ID,
			Flashcard: domain.Flashcard{Front: card.Front, Back: card.Back},
			Position:  card.Position,
		})
	}
	return out, nil
}

// readIndex decodes a user document read. A missing document is an empty index.
func readIndex(snap *firestore.DocumentSnapshot, err error) (indexDoc, error) {
	var index indexDoc
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return index, nil
		}
		return index, fmt.Errorf("read index: %w", err)
	}
	if err := snap.DataTo(&index); err != nil {
		return index, fmt.Errorf("decode index: %w", err)
	}
	return index, nil
}

// toCardDocs assigns ids and positions to the collection's cards.
func toCardDocs(c *domain.Collection) (map[string]cardDoc, error) {
	docs := make(map[string]cardDoc, len(c.Cards))
	for i, card := range c.Cards {
		id, err := domain.NewCardID()
		if err != nil {
			return nil, err
		}
		docs[id] = cardDoc{Front: card.Front, Back: card.Back, Position: i}
	}
	return docs, nil
}
