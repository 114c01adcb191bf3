package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/phrazzld/flashcards-api/internal/generation"
)

// MockCompleter implements generation.Completer for testing.
type MockCompleter struct {
	// CompleteFn allows test cases to mock the Complete behavior.
	CompleteFn func(ctx context.Context, req generation.CompletionRequest) (string, error)

	// Default response values used when CompleteFn is nil.
	Response string
	Err      error

	// ProviderName is returned by Name; defaults to "mock".
	ProviderName string

	mu       sync.Mutex
	requests []generation.CompletionRequest
}

// Complete implements generation.Completer.
func (m *MockCompleter) Complete(ctx context.Context, req generation.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, req)
	}
	return m.Response, m.Err
}

// Name implements generation.Completer.
func (m *MockCompleter) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// Requests returns a copy of every request received.
func (m *MockCompleter) Requests() []generation.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.CompletionRequest(nil), m.requests...)
}

// CallCount returns how many times Complete was called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// NewMockCompleterWithCards returns a MockCompleter whose completion holds
// n well-formed flashcards.
func NewMockCompleterWithCards(n int) *MockCompleter {
	return &MockCompleter{Response: FlashcardsJSON(n)}
}

// FlashcardsJSON builds a completion body with n numbered cards.
func FlashcardsJSON(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"front":"Question %d","back":"Answer %d"}`, i+1, i+1)
	}
	return `{"flashcards":[` + strings.Join(parts, ",") + `]}`
}
