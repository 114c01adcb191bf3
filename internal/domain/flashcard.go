package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// MaxCardFieldRunes bounds the length of each side of a card.
const MaxCardFieldRunes = 1000

// Flashcard validation errors. Each wraps ErrValidation.
var (
	ErrCardFrontEmpty   = fmt.Errorf("%w: card front cannot be empty", ErrValidation)
	ErrCardBackEmpty    = fmt.Errorf("%w: card back cannot be empty", ErrValidation)
	ErrCardFieldTooLong = fmt.Errorf("%w: card text exceeds %d characters", ErrValidation, MaxCardFieldRunes)
)

// Flashcard is one study card: a prompt on the front, the answer on the back.
type Flashcard struct {
	Front string `json:"front" firestore:"front"`
	Back  string `json:"back"  firestore:"back"`
}

// NewFlashcard trims both sides and validates the result.
func NewFlashcard(front, back string) (Flashcard, error) {
	card := Flashcard{
		Front: strings.TrimSpace(front),
		Back:  strings.TrimSpace(back),
	}
	if err := card.Validate(); err != nil {
		return Flashcard{}, err
	}
	return card, nil
}

// Validate checks that both sides are present and within bounds.
func (f Flashcard) Validate() error {
	if strings.TrimSpace(f.Front) == "" {
		return ErrCardFrontEmpty
	}
	if strings.TrimSpace(f.Back) == "" {
		return ErrCardBackEmpty
	}
	if utf8.RuneCountInString(f.Front) > MaxCardFieldRunes ||
		utf8.RuneCountInString(f.Back) > MaxCardFieldRunes {
		return ErrCardFieldTooLong
	}
	return nil
}

// StoredFlashcard is a Flashcard that belongs to a saved collection.
// Position records its place in the collection as it was saved.
type StoredFlashcard struct {
	ID string `json:"id"`
	Flashcard
	Position int `json:"-"`
}

// NewCardID returns a fresh identifier for a stored card.
func NewCardID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate card id: %w", err)
	}
	return id, nil
}
