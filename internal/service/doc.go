// Package service contains the application's use cases. It validates input,
// calls the persistence contract in internal/store, and translates store
// failures into the error kinds the API layer maps to HTTP statuses.
//
// Services receive their dependencies through constructor injection and never
// depend on a specific storage backend.
package service
