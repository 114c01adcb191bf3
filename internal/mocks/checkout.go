package mocks

import (
	"context"

	"github.com/phrazzld/flashcards-api/internal/billing"
)

// MockCheckout implements billing.Checkout for testing.
type MockCheckout struct {
	CreateSessionFn func(ctx context.Context, origin string) (*billing.Session, error)
	GetSessionFn    func(ctx context.Context, id string) (*billing.Session, error)
}

var _ billing.Checkout = (*MockCheckout)(nil)

// CreateSession implements billing.Checkout.
func (m *MockCheckout) CreateSession(ctx context.Context, origin string) (*billing.Session, error) {
	if m.CreateSessionFn != nil {
		return m.CreateSessionFn(ctx, origin)
	}
	return &billing.Session{ID: "cs_mock", URL: "https://checkout.example.test/cs_mock"}, nil
}

// GetSession implements billing.Checkout.
func (m *MockCheckout) GetSession(ctx context.Context, id string) (*billing.Session, error) {
	if m.GetSessionFn != nil {
		return m.GetSessionFn(ctx, id)
	}
	return nil, billing.ErrSessionNotFound
}
