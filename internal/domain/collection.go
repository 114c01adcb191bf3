package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxCollectionNameRunes bounds the length of a collection name.
	MaxCollectionNameRunes = 100

	// MaxCardsPerCollection bounds how many cards one save may carry.
	MaxCardsPerCollection = 200
)

// Collection validation errors. Each wraps ErrValidation.
var (
	ErrCollectionNameEmpty   = fmt.Errorf("%w: collection name cannot be empty", ErrValidation)
	ErrCollectionNameTooLong = fmt.Errorf("%w: collection name exceeds %d characters", ErrValidation, MaxCollectionNameRunes)
	ErrCollectionNameInvalid = fmt.Errorf("%w: collection name contains reserved characters", ErrValidation)
	ErrCollectionEmpty       = fmt.Errorf("%w: collection must contain at least one card", ErrValidation)
	ErrCollectionTooLarge    = fmt.Errorf("%w: collection exceeds %d cards", ErrValidation, MaxCardsPerCollection)
)

// Collection is a named set of flashcards owned by one user.
type Collection struct {
	Name  string
	Cards []Flashcard
}

// CollectionSummary is one entry of a user's collection index.
type CollectionSummary struct {
	Name string `json:"name" firestore:"name"`
}

// NewCollection normalizes the name and cards and validates the result.
// Names are compared exactly after trimming, so "Bio" and "bio" differ.
func NewCollection(name string, cards []Flashcard) (*Collection, error) {
	c := &Collection{
		Name:  NormalizeCollectionName(name),
		Cards: make([]Flashcard, 0, len(cards)),
	}

	for i, card := range cards {
		normalized, err := NewFlashcard(card.Front, card.Back)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		c.Cards = append(c.Cards, normalized)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// NormalizeCollectionName trims surrounding whitespace.
func NormalizeCollectionName(name string) string {
	return strings.TrimSpace(name)
}

// ValidateCollectionName checks a normalized name. Names become document
// path segments, so path separators and reserved ids are rejected.
func ValidateCollectionName(name string) error {
	if name == "" {
		return ErrCollectionNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxCollectionNameRunes {
		return ErrCollectionNameTooLong
	}
	if strings.Contains(name, "/") || name == "." || name == ".." {
		return ErrCollectionNameInvalid
	}
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
		return ErrCollectionNameInvalid
	}
	return nil
}

// Validate checks the name and the card list.
func (c *Collection) Validate() error {
	if err := ValidateCollectionName(c.Name); err != nil {
		return err
	}
	if len(c.Cards) == 0 {
		return ErrCollectionEmpty
	}
	if len(c.Cards) > MaxCardsPerCollection {
		return ErrCollectionTooLarge
	}
	for i, card := range c.Cards {
		if err := card.Validate(); err != nil {
			return fmt.Errorf("card %d: %w", i, err)
		}
	}
	return nil
}
