package mocks

import (
	"context"

	"github.com/phrazzld/flashcards-api/internal/service/auth"
)

// MockVerifier implements auth.Verifier for testing.
type MockVerifier struct {
	VerifyFn func(ctx context.Context, token string) (*auth.Identity, error)

	// Tokens maps accepted tokens to user ids when VerifyFn is nil. Any other
	// token is rejected with auth.ErrInvalidToken.
	Tokens map[string]string
}

var _ auth.Verifier = (*MockVerifier)(nil)

// Verify implements auth.Verifier.
func (m *MockVerifier) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, token)
	}
	if token == "" {
		return nil, auth.ErrMissingToken
	}
	userID, ok := m.Tokens[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Identity{UserID: userID}, nil
}
