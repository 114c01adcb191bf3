package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/flashcards-api/internal/domain"
)

type completionPayload struct {
	Flashcards *[]cardPayload `json:"flashcards"`
}

type cardPayload struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// ParseCompletion decodes completion text into exactly want flashcards.
// Extra cards are dropped; anything else that does not yield want valid
// cards is an ErrMalformedResponse.
func ParseCompletion(text string, want int) ([]domain.Flashcard, error) {
	body := stripCodeFence(text)
	if body == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrMalformedResponse)
	}

	var payload completionPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if payload.Flashcards == nil {
		return nil, fmt.Errorf("%w: missing flashcards array", ErrMalformedResponse)
	}

	raw := *payload.Flashcards
	if len(raw) < want {
		return nil, fmt.Errorf("%w: got %d flashcards, want %d", ErrMalformedResponse, len(raw), want)
	}

	cards := make([]domain.Flashcard, 0, want)
	for i, c := range raw[:want] {
		card, err := domain.NewFlashcard(c.Front, c.Back)
		if err != nil {
			return nil, fmt.Errorf("%w: flashcard %d: %v", ErrMalformedResponse, i, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// stripCodeFence removes a surrounding markdown code fence, which some
// models add even in JSON mode.
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		return ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
