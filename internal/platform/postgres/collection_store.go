package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/flashcards-api/internal/domain"
	"github.com/phrazzld/flashcards-api/internal/platform/logger"
	"github.com/phrazzld/flashcards-api/internal/redact"
	"github.com/phrazzld/flashcards-api/internal/store"
)

// cardColumns is the number of bind parameters per inserted flashcard row.
const cardColumns = 6

// CollectionStore implements store.CollectionStore on PostgreSQL.
type CollectionStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.CollectionStore = (*CollectionStore)(nil)

// NewCollectionStore creates a PostgreSQL collection store. The schema must
// already be migrated. If logger is nil, a default logger will be used.
func NewCollectionStore(db *sql.DB, logger *slog.Logger) *CollectionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectionStore{
		db:     db,
		logger: logger.With(slog.String("component", "collection_store")),
	}
}

// SaveCollection implements store.CollectionStore. The index row, the
// collection row and every card are written in one transaction. A concurrent
// save of the same name blocks on the collections primary key and then fails
// with store.ErrCollectionExists.
func (s *CollectionStore) SaveCollection(ctx context.Context, userID string, c *domain.Collection) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID),
		slog.String("collection", c.Name))

	cards := make([]domain.StoredFlashcard, len(c.Cards))
	for i, card := range c.Cards {
		id, err := domain.NewCardID()
		if err != nil {
			return store.TransactionError("save", err)
		}
		cards[i] = domain.StoredFlashcard{ID: id, Flashcard: card, Position: i}
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureIndex(ctx, tx, userID); err != nil {
			return err
		}

		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM collections WHERE user_id = $1 AND name = $2)`,
			userID, c.Name).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check collection name: %w", err)
		}
		if exists {
			return store.ErrCollectionExists
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO collections (user_id, name) VALUES ($1, $2)`,
			userID, c.Name)
		if err != nil {
			if IsUniqueViolation(err) {
				return store.ErrCollectionExists
			}
			return fmt.Errorf("insert collection: %w", err)
		}

		query, args := insertCardsQuery(userID, c.Name, cards)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert flashcards: %w", err)
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

// ListCollections implements store.CollectionStore. The index row is created
// on first use, so a new user gets an empty list.
func (s *CollectionStore) ListCollections(ctx context.Context, userID string) ([]domain.CollectionSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID))

	if err := ensureIndex(ctx, s.db, userID); err != nil {
		log.Error("failed to create collection index", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("index", "list", "failed to create index", MapError(err))
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM collections WHERE user_id = $1 ORDER BY seq`,
		userID)
	if err != nil {
		log.Error("failed to query collections", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("index", "list", "query failed", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", redact.Error(closeErr)))
		}
	}()

	out := make([]domain.CollectionSummary, 0)
	for rows.Next() {
		var summary domain.CollectionSummary
		if err := rows.Scan(&summary.Name); err != nil {
			return nil, store.NewStoreError("index", "list", "scan failed", err)
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("index", "list", "row iteration failed", MapError(err))
	}
	return out, nil
}

// ListCards implements store.CollectionStore. Cards come back in the order
// they were saved.
func (s *CollectionStore) ListCards(ctx context.Context, userID, name string) ([]domain.StoredFlashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID),
		slog.String("collection", name))

	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM collections WHERE user_id = $1 AND name = $2`,
		userID, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCollectionNotFound
	}
	if err != nil {
		log.Error("failed to look up collection", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("collection", "list cards", "lookup failed", MapError(err))
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, front, back, position FROM flashcards
		 WHERE user_id = $1 AND collection_name = $2
		 ORDER BY position`,
		userID, name)
	if err != nil {
		log.Error("failed to query flashcards", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("collection", "list cards", "query failed", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", redact.Error(closeErr)))
		}
	}()

	out := make([]domain.StoredFlashcard, 0)
	for rows.Next() {
		var card domain.StoredFlashcard
		if err := rows.Scan(&card.ID, &card.Front, &card.Back, &card.Position); err != nil {
			return nil, store.NewStoreError("collection", "list cards", "scan failed", err)
		}
		out = append(out, card)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("collection", "list cards", "row iteration failed", MapError(err))
	}
	return out, nil
}

// ensureIndex creates the user's index row if it is missing.
func ensureIndex(ctx context.Context, db store.DBTX, userID string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO collection_indexes (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID)
	if err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// insertCardsQuery builds one multi-row INSERT for all cards of a collection.
func insertCardsQuery(userID, name string, cards []domain.StoredFlashcard) (string, []any) {
	var b strings.Builder
	b.WriteString(`INSERT INTO flashcards (id, user_id, collection_name, position, front, back) VALUES `)

	args := make([]any, 0, len(cards)*cardColumns)
	for i, card := range cards {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * cardColumns
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6)
		args = append(args, card.ID, userID, name, card.Position, card.Front, card.Back)
	}
	return b.String(), args
}
