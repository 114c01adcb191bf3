// Package store defines the persistence contract for flashcard collections.
// Backends live under internal/platform (firestore, postgres, memory) and
// report failures with the sentinel errors declared here, so the service
// layer never inspects driver-specific errors.
package store
