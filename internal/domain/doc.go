// Package domain contains the flashcard, collection and collection index
// types together with their validation rules. It has no knowledge of the
// stores, the completion providers or the HTTP layer.
package domain
