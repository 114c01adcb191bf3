//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/phrazzld/flashcards-api/internal/platform/postgres"
	"github.com/phrazzld/flashcards-api/internal/store"
	"github.com/phrazzld/flashcards-api/internal/store/storetest"
	"github.com/phrazzld/flashcards-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionStore_Postgres(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	storetest.Run(t, func(t *testing.T) store.CollectionStore {
		return postgres.NewCollectionStore(db, nil)
	})
}

func TestCollectionStore_BlankCardRejectedBySchema(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	s := postgres.NewCollectionStore(db, nil)
	ctx := context.Background()
	userID := storetest.NewUserID()

	c := storetest.Collection(t, "Blank", 2)
	c.Cards[1].Back = ""

	err := s.SaveCollection(ctx, userID, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrTransactionFailed)
	assert.True(t, postgres.IsCheckConstraintViolation(err))

	// The failed save left nothing behind.
	index, err := s.ListCollections(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, index)
}

func TestMigrate_Status(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	err := postgres.Migrate(context.Background(), db, postgres.MigrateStatus, nil)
	assert.NoError(t, err)

	err = postgres.Migrate(context.Background(), db, "redo", nil)
	assert.Error(t, err)
}
