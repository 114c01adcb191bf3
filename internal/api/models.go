package api

import (
	"github.com/phrazzld/flashcards-api/internal/billing"
	"github.com/phrazzld/flashcards-api/internal/domain"
)

// FlashcardRequest is one card in a save request.
type FlashcardRequest struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back"  validate:"required"`
}

// SaveCollectionRequest defines the payload for saving a named collection.
// Field limits beyond presence are enforced by the domain.
type SaveCollectionRequest struct {
	Name       string             `json:"name"       validate:"required"`
	Flashcards []FlashcardRequest `json:"flashcards" validate:"required,min=1,dive"`
}

// FlashcardResponse is a generated card.
type FlashcardResponse struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// StoredFlashcardResponse is a saved card with its identifier.
type StoredFlashcardResponse struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// CollectionResponse is one entry of the user's collection index.
type CollectionResponse struct {
	Name string `json:"name"`
}

// SaveCollectionResponse confirms a save.
type SaveCollectionResponse struct {
	Name      string `json:"name"`
	CardCount int    `json:"card_count"`
}

// CheckoutSessionResponse is a created checkout session.
type CheckoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutStatusResponse reports a checkout session's state for the result page.
type CheckoutStatusResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

func toFlashcards(req []FlashcardRequest) []domain.Flashcard {
	cards := make([]domain.Flashcard, len(req))
	for i, c := range req {
		cards[i] = domain.Flashcard{Front: c.Front, Back: c.Back}
	}
	return cards
}

func toFlashcardResponses(cards []domain.Flashcard) []FlashcardResponse {
	out := make([]FlashcardResponse, len(cards))
	for i, c := range cards {
		out[i] = FlashcardResponse{Front: c.Front, Back: c.Back}
	}
	return out
}

func toStoredFlashcardResponses(cards []domain.StoredFlashcard) []StoredFlashcardResponse {
	out := make([]StoredFlashcardResponse, len(cards))
	for i, c := range cards {
		out[i] = StoredFlashcardResponse{ID: c.ID, Front: c.Front, Back: c.Back}
	}
	return out
}

func toCollectionResponses(index []domain.CollectionSummary) []CollectionResponse {
	out := make([]CollectionResponse, len(index))
	for i, c := range index {
		out[i] = CollectionResponse{Name: c.Name}
	}
	return out
}

func toCheckoutStatusResponse(s *billing.Session) CheckoutStatusResponse {
	return CheckoutStatusResponse{
		ID:            s.ID,
		Status:        s.Status,
		PaymentStatus: s.PaymentStatus,
		CustomerEmail: s.CustomerEmail,
	}
}
