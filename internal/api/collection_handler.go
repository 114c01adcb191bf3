package api

import (
	"net/http"

	"github.com/phrazzld/flashcards-api/internal/api/shared"
	"github.com/phrazzld/flashcards-api/internal/service"
)

// CollectionHandler handles collection-related HTTP requests
type CollectionHandler struct {
	collectionService service.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionService service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// ListCollections handles GET /api/collections requests. A user who never
// saved gets an empty array.
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	index, err := h.collectionService.ListCollections(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toCollectionResponses(index))
}

// SaveCollection handles POST /api/collections requests
func (h *CollectionHandler) SaveCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req SaveCollectionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	collection, err := h.collectionService.SaveCollection(r.Context(), userID, req.Name, toFlashcards(req.Flashcards))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, SaveCollectionResponse{
		Name:      collection.Name,
		CardCount: len(collection.Cards),
	})
}

// ListCards handles GET /api/collections/{name}/flashcards requests
func (h *CollectionHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, name, ok := handleUserIDAndPathParam(w, r, "name")
	if !ok {
		return
	}

	cards, err := h.collectionService.ListCards(r.Context(), userID, name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toStoredFlashcardResponses(cards))
}
