package postgres

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	body, err := fs.ReadFile(migrationsFS, files[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "-- +goose Down")
	assert.Contains(t, string(body), "PRIMARY KEY (user_id, name)")
}

func TestMigrate_RejectsUnknownCommand(t *testing.T) {
	err := Migrate(context.Background(), nil, "redo", nil)
	assert.ErrorContains(t, err, `unsupported migration command "redo"`)
}
