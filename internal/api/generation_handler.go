package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashcards-api/internal/api/shared"
	"github.com/phrazzld/flashcards-api/internal/domain"
	"github.com/phrazzld/flashcards-api/internal/generation"
	"github.com/phrazzld/flashcards-api/internal/platform/logger"
)

// maxBytesPerRune bounds the request body size from the rune limit.
const maxBytesPerRune = 4

// CardGenerator turns text into flashcards. *generation.Gateway implements it.
type CardGenerator interface {
	Generate(ctx context.Context, rawText string) ([]domain.Flashcard, error)
	MaxInputChars() int
}

// GenerationHandler handles flashcard generation requests.
type GenerationHandler struct {
	generator CardGenerator
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(generator CardGenerator) *GenerationHandler {
	return &GenerationHandler{generator: generator}
}

// Generate handles POST /api/generate. The body is the raw study text, not
// JSON. The response is a JSON array of {front, back} cards. Nothing is saved.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	log := logger.FromContextOrDefault(r.Context(), nil)

	limit := int64(h.generator.MaxInputChars()) * maxBytesPerRune
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleAPIError(w, r, generation.ErrInputTooLong, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	cards, err := h.generator.Generate(r.Context(), string(body))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("returning generated flashcards", slog.Int("card_count", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusOK, toFlashcardResponses(cards))
}
