package generation

import "context"

// CompletionRequest is one chat completion: a system instruction and the
// user's text, sent verbatim.
type CompletionRequest struct {
	SystemPrompt string
	UserText     string
}

// Completer is a language-model completion service that answers in JSON.
// Implementations return errors wrapping ErrUpstream for transport failures,
// non-success statuses and safety blocks. They do not retry.
type Completer interface {
	// Complete returns the raw completion text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Name identifies the provider in logs and metrics.
	Name() string
}
