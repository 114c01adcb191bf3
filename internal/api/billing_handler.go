package api

import (
	"net/http"

	"github.com/phrazzld/flashcards-api/internal/api/shared"
	"github.com/phrazzld/flashcards-api/internal/billing"
)

// BillingHandler handles subscription checkout requests.
type BillingHandler struct {
	checkout billing.Checkout
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(checkout billing.Checkout) *BillingHandler {
	return &BillingHandler{checkout: checkout}
}

// CreateCheckoutSession handles POST /api/checkout_session. Redirect URLs
// are built from the request's Origin header.
func (h *BillingHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	session, err := h.checkout.CreateSession(r.Context(), r.Header.Get("Origin"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CheckoutSessionResponse{ID: session.ID, URL: session.URL})
}

// GetCheckoutSession handles GET /api/checkout_session?session_id=...
func (h *BillingHandler) GetCheckoutSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	id := r.URL.Query().Get("session_id")
	if id == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "session_id is required")
		return
	}

	session, err := h.checkout.GetSession(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toCheckoutStatusResponse(session))
}
