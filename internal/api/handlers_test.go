package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/flashcards-api/internal/api/shared"
	"github.com/phrazzld/flashcards-api/internal/billing"
	"github.com/phrazzld/flashcards-api/internal/domain"
	"github.com/phrazzld/flashcards-api/internal/generation"
	"github.com/phrazzld/flashcards-api/internal/mocks"
	"github.com/phrazzld/flashcards-api/internal/platform/memory"
	"github.com/phrazzld/flashcards-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

// testRouter mounts the handlers the way the server does, minus
// authentication: requests carry the user id directly.
func testRouter(gen *GenerationHandler, col *CollectionHandler, bill *BillingHandler) http.Handler {
	r := chi.NewRouter()
	if gen != nil {
		r.Post("/api/generate", gen.Generate)
	}
	if col != nil {
		r.Get("/api/collections", col.ListCollections)
		r.Post("/api/collections", col.SaveCollection)
		r.Get("/api/collections/{name}/flashcards", col.ListCards)
	}
	if bill != nil {
		r.Post("/api/checkout_session", bill.CreateCheckoutSession)
		r.Get("/api/checkout_session", bill.GetCheckoutSession)
	}
	return r
}

func do(t *testing.T, h http.Handler, method, target, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		r = r.WithContext(shared.WithUserID(r.Context(), userID))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func newTestGateway(t *testing.T, completer generation.Completer, maxChars int) *generation.Gateway {
	t.Helper()
	g, err := generation.NewGateway(completer, generation.Config{CardCount: 10, MaxInputChars: maxChars}, nil, nil)
	require.NoError(t, err)
	return g
}

func TestGenerate(t *testing.T) {
	completer := mocks.NewMockCompleterWithCards(12)
	h := testRouter(NewGenerationHandler(newTestGateway(t, completer, 100)), nil, nil)

	w := do(t, h, http.MethodPost, "/api/generate", "Mitochondria are the powerhouse of the cell.", testUser)

	require.Equal(t, http.StatusOK, w.Code)
	cards := decode[[]FlashcardResponse](t, w)
	assert.Len(t, cards, 10, "extra cards are dropped")
	assert.Equal(t, FlashcardResponse{Front: "Question 1", Back: "Answer 1"}, cards[0])

	require.Equal(t, 1, completer.CallCount())
	assert.Equal(t, "Mitochondria are the powerhouse of the cell.", completer.Requests()[0].UserText,
		"the body is sent verbatim")
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		completer  *mocks.MockCompleter
		body       string
		userID     string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "signed out",
			completer:  mocks.NewMockCompleterWithCards(10),
			body:       "text",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "blank text",
			completer:  mocks.NewMockCompleterWithCards(10),
			body:       "   ",
			userID:     testUser,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Text is required",
		},
		{
			name:       "too many runes",
			completer:  mocks.NewMockCompleterWithCards(10),
			body:       strings.Repeat("a", 101),
			userID:     testUser,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "body over byte limit",
			completer:  mocks.NewMockCompleterWithCards(10),
			body:       strings.Repeat("a", 401),
			userID:     testUser,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "upstream",
			completer:  &mocks.MockCompleter{Err: errors.New("503 from provider sk-abcdefghijklmnopqrstuvwxyz")},
			body:       "text",
			userID:     testUser,
			wantStatus: http.StatusBadGateway,
			wantMsg:    "unavailable",
		},
		{
			name:       "malformed",
			completer:  &mocks.MockCompleter{Response: "Sure! Here are your cards:"},
			body:       "text",
			userID:     testUser,
			wantStatus: http.StatusBadGateway,
			wantMsg:    "unusable response",
		},
		{
			name:       "too few cards",
			completer:  mocks.NewMockCompleterWithCards(9),
			body:       "text",
			userID:     testUser,
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testRouter(NewGenerationHandler(newTestGateway(t, tt.completer, 100)), nil, nil)

			w := do(t, h, http.MethodPost, "/api/generate", tt.body, tt.userID)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotContains(t, w.Body.String(), "sk-")
			if tt.wantMsg != "" {
				body := decode[shared.ErrorResponse](t, w)
				assert.Contains(t, body.Error, tt.wantMsg)
			}
		})
	}
}

func newCollectionRouter(t *testing.T, s service.CollectionService) http.Handler {
	t.Helper()
	return testRouter(nil, NewCollectionHandler(s), nil)
}

func newMemoryCollectionService(t *testing.T) service.CollectionService {
	t.Helper()
	svc, err := service.NewCollectionService(memory.NewCollectionStore(), nil, nil)
	require.NoError(t, err)
	return svc
}

func TestCollections_SaveListAndRead(t *testing.T) {
	h := newCollectionRouter(t, newMemoryCollectionService(t))

	w := do(t, h, http.MethodGet, "/api/collections", "", testUser)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String(), "a new user gets an empty array")

	body := `{"name":"Cell Biology","flashcards":[{"front":"Q1","back":"A1"},{"front":"Q2","back":"A2"}]}`
	w = do(t, h, http.MethodPost, "/api/collections", body, testUser)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, SaveCollectionResponse{Name: "Cell Biology", CardCount: 2}, decode[SaveCollectionResponse](t, w))

	w = do(t, h, http.MethodGet, "/api/collections", "", testUser)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []CollectionResponse{{Name: "Cell Biology"}}, decode[[]CollectionResponse](t, w))

	w = do(t, h, http.MethodGet, "/api/collections/Cell%20Biology/flashcards", "", testUser)
	require.Equal(t, http.StatusOK, w.Code)
	cards := decode[[]StoredFlashcardResponse](t, w)
	require.Len(t, cards, 2)
	assert.Equal(t, "Q1", cards[0].Front)
	assert.Equal(t, "A2", cards[1].Back)
	assert.NotEmpty(t, cards[0].ID)

	w = do(t, h, http.MethodPost, "/api/collections", body, testUser)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodGet, "/api/collections/Chemistry/flashcards", "", testUser)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/api/collections/Cell%20Biology/flashcards", "", "someone-else")
	assert.Equal(t, http.StatusNotFound, w.Code, "collections are per user")
}

func TestSaveCollection_BadRequests(t *testing.T) {
	h := newCollectionRouter(t, newMemoryCollectionService(t))

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"malformed json", `{"name":`, "Invalid request format"},
		{"unknown field", `{"name":"Bio","flashcards":[{"front":"Q","back":"A"}],"owner":"x"}`, "Invalid request format"},
		{"missing name", `{"flashcards":[{"front":"Q","back":"A"}]}`, "Invalid Name"},
		{"no cards", `{"name":"Bio","flashcards":[]}`, "Invalid Flashcards"},
		{"blank back", `{"name":"Bio","flashcards":[{"front":"Q","back":"  "}]}`, "card back cannot be empty"},
		{"slash in name", `{"name":"a/b","flashcards":[{"front":"Q","back":"A"}]}`, "Invalid collection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/collections", tt.body, testUser)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decode[shared.ErrorResponse](t, w).Error, tt.wantMsg)
		})
	}
}

func TestCollections_StoreFailure(t *testing.T) {
	failing := &mocks.MockCollectionStore{
		SaveCollectionFn: func(ctx context.Context, userID string, c *domain.Collection) error {
			return errors.New("firestore: deadline exceeded")
		},
		ListCollectionsFn: func(ctx context.Context, userID string) ([]domain.CollectionSummary, error) {
			return nil, errors.New("firestore: unavailable")
		},
	}
	svc, err := service.NewCollectionService(failing, nil, nil)
	require.NoError(t, err)
	h := newCollectionRouter(t, svc)

	w := do(t, h, http.MethodPost, "/api/collections", `{"name":"Bio","flashcards":[{"front":"Q","back":"A"}]}`, testUser)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "firestore")

	w = do(t, h, http.MethodGet, "/api/collections", "", testUser)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCollections_RequireUser(t *testing.T) {
	h := newCollectionRouter(t, newMemoryCollectionService(t))

	for _, target := range []string{"/api/collections", "/api/collections/Bio/flashcards"} {
		w := do(t, h, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
	}
}

func TestCheckoutSession(t *testing.T) {
	checkout := &mocks.MockCheckout{
		CreateSessionFn: func(ctx context.Context, origin string) (*billing.Session, error) {
			if origin == "" {
				return nil, billing.ErrInvalidOrigin
			}
			assert.Equal(t, "http://localhost:3000", origin)
			return &billing.Session{ID: "cs_1", URL: "https://checkout.stripe.com/cs_1"}, nil
		},
		GetSessionFn: func(ctx context.Context, id string) (*billing.Session, error) {
			if id != "cs_1" {
				return nil, billing.ErrSessionNotFound
			}
			return &billing.Session{ID: "cs_1", Status: "complete", PaymentStatus: "paid"}, nil
		},
	}
	h := testRouter(nil, nil, NewBillingHandler(checkout))

	r := httptest.NewRequest(http.MethodPost, "/api/checkout_session", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	r = r.WithContext(shared.WithUserID(r.Context(), testUser))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, CheckoutSessionResponse{ID: "cs_1", URL: "https://checkout.stripe.com/cs_1"},
		decode[CheckoutSessionResponse](t, w))

	w = do(t, h, http.MethodPost, "/api/checkout_session", "", testUser)
	assert.Equal(t, http.StatusBadRequest, w.Code, "no Origin header")

	w = do(t, h, http.MethodGet, "/api/checkout_session?session_id=cs_1", "", testUser)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, CheckoutStatusResponse{ID: "cs_1", Status: "complete", PaymentStatus: "paid"},
		decode[CheckoutStatusResponse](t, w))

	w = do(t, h, http.MethodGet, "/api/checkout_session?session_id=cs_2", "", testUser)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/api/checkout_session", "", testUser)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCards_EscapedNames(t *testing.T) {
	svc := newMemoryCollectionService(t)
	for _, name := range []string{"100% Recall", "Q&A: Bio?"} {
		_, err := svc.SaveCollection(context.Background(), testUser, name, []domain.Flashcard{{Front: "Q", Back: "A"}})
		require.NoError(t, err)
	}
	h := newCollectionRouter(t, svc)

	for _, target := range []string{
		"/api/collections/100%25%20Recall/flashcards",
		"/api/collections/Q&A:%20Bio%3F/flashcards",
	} {
		w := do(t, h, http.MethodGet, target, "", testUser)
		assert.Equal(t, http.StatusOK, w.Code, target)
	}
}
