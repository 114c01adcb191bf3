package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/flashcards-api/internal/api/shared"
	"github.com/phrazzld/flashcards-api/internal/metrics"
	"github.com/phrazzld/flashcards-api/internal/mocks"
	"github.com/phrazzld/flashcards-api/internal/platform/logger"
	"github.com/phrazzld/flashcards-api/internal/service/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoUser writes the signed-in user id, or "anonymous".
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.CurrentUser(r.Context())
	if !ok {
		userID = "anonymous"
	}
	_, _ = w.Write([]byte(userID))
})

func TestAuthenticate(t *testing.T) {
	verifier := &mocks.MockVerifier{
		VerifyFn: func(ctx context.Context, token string) (*auth.Identity, error) {
			switch token {
			case "good":
				return &auth.Identity{UserID: "user-1"}, nil
			case "old":
				return nil, auth.ErrExpiredToken
			case "broken":
				return nil, errors.New("jwks endpoint unreachable")
			default:
				return nil, auth.ErrInvalidToken
			}
		},
	}
	handler := NewAuthMiddleware(verifier).Authenticate(echoUser)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid", "Bearer good", http.StatusOK, "user-1"},
		{"lowercase scheme", "bearer good", http.StatusOK, "user-1"},
		{"missing header", "", http.StatusUnauthorized, "Authorization header required"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "Invalid authorization format"},
		{"no token", "Bearer ", http.StatusUnauthorized, "Invalid authorization format"},
		{"expired", "Bearer old", http.StatusUnauthorized, "Token expired"},
		{"invalid", "Bearer forged", http.StatusUnauthorized, "Invalid token"},
		{"verifier failure", "Bearer broken", http.StatusInternalServerError, "Authentication error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/collections", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.NotContains(t, w.Body.String(), "jwks endpoint")
		})
	}
}

func TestTraceMiddleware(t *testing.T) {
	log, buf := logger.NewTestLogger(t)

	var seenTraceID string
	handler := TraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NotEmpty(t, seenTraceID)
	assert.Equal(t, seenTraceID, w.Header().Get(TraceIDHeader))
	assert.Equal(t, http.StatusTeapot, w.Code)

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	for _, entry := range entries {
		assert.Equal(t, seenTraceID, entry["trace_id"], "every request log line carries the trace id")
	}
	logger.AssertLogContains(t, buf, "inside handler")
	logger.AssertLogContains(t, buf, "request completed")
}

func TestRateLimiter(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	limiter := NewRateLimiter(6, 2, m)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	handler := limiter.Limit(echoUser)

	call := func(userID string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
		r = r.WithContext(shared.WithUserID(r.Context(), userID))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, call("alice").Code)
	assert.Equal(t, http.StatusOK, call("alice").Code)

	limited := call("alice")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "10", limited.Header().Get("Retry-After"), "six per minute refills one token every ten seconds")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimited))

	assert.Equal(t, http.StatusOK, call("bob").Code, "users have separate buckets")

	now = now.Add(10 * time.Second)
	assert.Equal(t, http.StatusOK, call("alice").Code, "a token refilled")
	assert.Equal(t, http.StatusTooManyRequests, call("alice").Code)
}

func TestRateLimiter_EvictsIdleUsers(t *testing.T) {
	limiter := NewRateLimiter(60, 1, nil)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.reserve("alice")
	limiter.reserve("bob")
	require.Len(t, limiter.limiters, 2)

	now = now.Add(idleLimiterTTL + time.Minute)
	limiter.reserve("carol")

	assert.Len(t, limiter.limiters, 1)
	assert.Contains(t, limiter.limiters, "carol")
}
