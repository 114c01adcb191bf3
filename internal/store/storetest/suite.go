// Package storetest holds the behavioral tests every store.CollectionStore
// backend must pass. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/flashcards-api/internal/domain"
	"github.com/phrazzld/flashcards-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a ready store. It is called once per subtest.
type Factory func(t *testing.T) store.CollectionStore

// Run exercises the CollectionStore contract against the backend built by newStore.
// User ids are random, so backends may share state between subtests.
func Run(t *testing.T, newStore Factory) {
	t.Run("ListCollections_NewUserIsEmpty", func(t *testing.T) {
		s := newStore(t)
		userID := NewUserID()

		got, err := s.ListCollections(context.Background(), userID)
		require.NoError(t, err)
		assert.Empty(t, got)

		// Listing again sees the lazily created index, still empty.
		got, err = s.ListCollections(context.Background(), userID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("SaveCollection_RoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		userID := NewUserID()
		c := Collection(t, "Biology", 10)

		require.NoError(t, s.SaveCollection(ctx, userID, c))

		index, err := s.ListCollections(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, []domain.CollectionSummary{{Name: "Biology"}}, index)

		cards, err := s.ListCards(ctx, userID, "Biology")
		require.NoError(t, err)
		require.Len(t, cards, len(c.Cards))
		seen := make(map[string]struct{})
		for i, card := range cards {
			assert.Equal(t, c.Cards[i], card.Flashcard, "cards keep their saved order")
			assert.Equal(t, i, card.Position)
			assert.NotEmpty(t, card.ID)
			seen[card.ID] = struct{}{}
		}
		assert.Len(t, seen, len(cards), "card ids are unique")
	})

	t.Run("SaveCollection_IndexKeepsSaveOrder", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		userID := NewUserID()

		for _, name := range []string{"Zoology", "Algebra", "Chemistry"} {
			require.NoError(t, s.SaveCollection(ctx, userID, Collection(t, name, 1)))
		}

		index, err := s.ListCollections(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, []domain.CollectionSummary{{Name: "Zoology"}, {Name: "Algebra"}, {Name: "Chemistry"}}, index)
	})

	t.Run("SaveCollection_DuplicateLeavesFirstUnchanged", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		userID := NewUserID()
		first := Collection(t, "History", 2)
		second := &domain.Collection{Name: "History", Cards: []domain.Flashcard{{Front: "other", Back: "card"}}}

		require.NoError(t, s.SaveCollection(ctx, userID, first))
		err := s.SaveCollection(ctx, userID, second)

		assert.ErrorIs(t, err, store.ErrCollectionExists)
		assert.True(t, store.IsDuplicateError(err))

		index, err := s.ListCollections(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, index, 1)

		cards, err := s.ListCards(ctx, userID, "History")
		require.NoError(t, err)
		require.Len(t, cards, 2)
		assert.Equal(t, first.Cards[0], cards[0].Flashcard)
	})

	t.Run("SaveCollection_NamesAreCaseSensitive", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		userID := NewUserID()

		require.NoError(t, s.SaveCollection(ctx, userID, Collection(t, "bio", 1)))
		require.NoError(t, s.SaveCollection(ctx, userID, Collection(t, "Bio", 1)))
	})

	t.Run("SaveCollection_UsersAreIsolated", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		alice, bob := NewUserID(), NewUserID()

		require.NoError(t, s.SaveCollection(ctx, alice, Collection(t, "Shared Name", 1)))
		require.NoError(t, s.SaveCollection(ctx, bob, Collection(t, "Shared Name", 3)))

		_, err := s.ListCards(ctx, NewUserID(), "Shared Name")
		assert.ErrorIs(t, err, store.ErrCollectionNotFound)

		cards, err := s.ListCards(ctx, bob, "Shared Name")
		require.NoError(t, err)
		assert.Len(t, cards, 3)
	})

	t.Run("ListCards_NotFound", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		userID := NewUserID()

		_, err := s.ListCards(ctx, userID, "Nothing")
		assert.ErrorIs(t, err, store.ErrCollectionNotFound, "unknown user")

		require.NoError(t, s.SaveCollection(ctx, userID, Collection(t, "Something", 1)))
		_, err = s.ListCards(ctx, userID, "Nothing")
		assert.ErrorIs(t, err, store.ErrCollectionNotFound, "unknown name")
		assert.True(t, store.IsNotFoundError(err))
	})

	t.Run("SaveCollection_ConcurrentSameNameCommitsOnce", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		userID := NewUserID()

		// Seed the index so every writer starts from the same snapshot.
		_, err := s.ListCollections(ctx, userID)
		require.NoError(t, err)

		const writers = 5
		collections := make([]*domain.Collection, writers)
		for i := range collections {
			collections[i] = Collection(t, "Race", i+1)
		}

		errs := make([]error, writers)
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				errs[i] = s.SaveCollection(ctx, userID, collections[i])
			}(i)
		}
		close(start)
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, store.ErrCollectionExists)
		}
		assert.Equal(t, 1, succeeded, "exactly one concurrent save commits")

		index, err := s.ListCollections(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, []domain.CollectionSummary{{Name: "Race"}}, index)

		cards, err := s.ListCards(ctx, userID, "Race")
		require.NoError(t, err)
		assert.NotEmpty(t, cards)
		for i, card := range cards {
			assert.Equal(t, i, card.Position, "cards come from a single save")
		}
	})
}

// NewUserID returns a random user id.
func NewUserID() string {
	return "user_" + uuid.NewString()
}

// Collection builds a valid collection with n numbered cards.
func Collection(t *testing.T, name string, n int) *domain.Collection {
	t.Helper()
	cards := make([]domain.Flashcard, n)
	for i := range cards {
		cards[i] = domain.Flashcard{
			Front: fmt.Sprintf("%s question %d", name, i+1),
			Back:  fmt.Sprintf("%s answer %d", name, i+1),
		}
	}
	c, err := domain.NewCollection(name, cards)
	require.NoError(t, err)
	return c
}
