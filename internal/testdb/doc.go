// Package testdb provides helpers for tests that need a real PostgreSQL
// database.
//
// Tests call GetTestDBWithT, which skips when no database URL is set and
// otherwise returns a migrated connection that is closed at cleanup. Store
// tests use random user ids instead of transaction rollback, because the
// collection store opens its own transactions.
//
// # Environment Variables
//
// - DATABASE_URL: Primary connection string
// - FLASHCARDS_TEST_DB_URL: Alternative connection string
package testdb
