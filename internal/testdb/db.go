package testdb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/flashcards-api/internal/ciutil"
	"github.com/phrazzld/flashcards-api/internal/platform/logger"
	"github.com/phrazzld/flashcards-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// IsIntegrationTestEnvironment returns true if a test database URL is set.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// GetTestDatabaseURL returns FLASHCARDS_TEST_DB_URL, falling back to DATABASE_URL.
func GetTestDatabaseURL() string {
	return ciutil.TestDatabaseURL(nil)
}

// GetTestDBWithT returns a migrated database connection for testing. Without
// a database URL the test is skipped, or fails when running in CI.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := ciutil.RequireEnv(t, ciutil.EnvTestDatabaseURL, ciutil.EnvDatabaseURL)

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open database connection")

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	t.Cleanup(func() {
		CleanupDB(t, db)
	})

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "Database ping failed")

	SetupTestDatabaseSchema(t, db)
	return db
}

// SetupTestDatabaseSchema applies the embedded migrations. It is idempotent.
func SetupTestDatabaseSchema(t *testing.T, db *sql.DB) {
	t.Helper()

	log, _ := logger.NewTestLogger(t)
	err := postgres.Migrate(context.Background(), db, postgres.MigrateUp, log)
	require.NoError(t, err, "Failed to run migrations")
}

// CleanupDB properly closes a database connection, logging any errors.
func CleanupDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		t.Logf("Warning: failed to close database connection: %v", err)
	}
}
