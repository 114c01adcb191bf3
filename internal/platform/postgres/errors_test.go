package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/flashcards-api/internal/platform/postgres"
	"github.com/phrazzld/flashcards-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "collections",
		ColumnName:     "front",
		ConstraintName: "collections_pkey",
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	plain := errors.New("connection reset")

	tests := []struct {
		name       string
		err        error
		wantIs     error
		wantPlain  bool
		wantSubstr string
	}{
		{name: "no rows", err: sql.ErrNoRows, wantIs: store.ErrNotFound},
		{name: "unique", err: newPgError("23505"), wantIs: store.ErrDuplicate},
		{name: "wrapped unique", err: fmt.Errorf("insert: %w", newPgError("23505")), wantIs: store.ErrDuplicate},
		{name: "foreign key", err: newPgError("23503"), wantSubstr: "constraint violation (collections_pkey)"},
		{name: "check", err: newPgError("23514"), wantSubstr: "constraint violation"},
		{name: "not null", err: newPgError("23502"), wantSubstr: "not null violation (front)"},
		{name: "other", err: plain, wantPlain: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := postgres.MapError(tt.err)

			if tt.wantIs != nil {
				assert.ErrorIs(t, got, tt.wantIs)
			}
			if tt.wantPlain {
				assert.Same(t, plain, got)
			}
			if tt.wantSubstr != "" {
				assert.Contains(t, got.Error(), tt.wantSubstr)
				assert.False(t, store.IsDuplicateError(got))
			}
		})
	}

	assert.NoError(t, postgres.MapError(nil))
}

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsUniqueViolation(newPgError("23505")))
	assert.False(t, postgres.IsUniqueViolation(newPgError("23503")))
	assert.False(t, postgres.IsUniqueViolation(errors.New("23505")))

	assert.True(t, postgres.IsForeignKeyViolation(fmt.Errorf("wrap: %w", newPgError("23503"))))
	assert.False(t, postgres.IsForeignKeyViolation(nil))

	assert.True(t, postgres.IsCheckConstraintViolation(newPgError("23514")))
	assert.False(t, postgres.IsCheckConstraintViolation(newPgError("23505")))
}
