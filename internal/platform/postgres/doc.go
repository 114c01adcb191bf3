// Package postgres provides the PostgreSQL implementation of
// store.CollectionStore, the embedded goose migrations that create its
// schema, and helpers that map driver errors onto store errors.
//
// A user's collection index is a row in collection_indexes. Each saved
// collection is a row in collections keyed by (user_id, name), and its cards
// live in flashcards. The composite primary key on collections is what turns
// two concurrent saves of the same name into exactly one commit.
package postgres
