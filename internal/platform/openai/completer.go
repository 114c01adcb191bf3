// Package openai implements generation.Completer with an OpenAI chat model
// through langchaingo. Any OpenAI-compatible endpoint can be targeted with a
// custom base URL.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashcards-api/internal/generation"
	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// ProviderName identifies this completer in logs and metrics.
const ProviderName = "openai"

// stopReasonContentFilter is the finish reason OpenAI reports when its
// moderation layer truncates a response.
const stopReasonContentFilter = "content_filter"

// contentGenerator is the part of llms.Model used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Completer sends JSON-mode chat completions to an OpenAI model.
type Completer struct {
	llm    contentGenerator
	model  string
	logger *slog.Logger
}

var _ generation.Completer = (*Completer)(nil)

// NewCompleter builds a langchaingo OpenAI client. baseURL may be empty.
func NewCompleter(apiKey, model, baseURL string, logger *slog.Logger) (*Completer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}

	opts := []lcopenai.Option{
		lcopenai.WithToken(apiKey),
		lcopenai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(baseURL))
	}

	llm, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: creating OpenAI client: %v", generation.ErrInvalidConfig, err)
	}

	return newCompleter(llm, model, logger)
}

func newCompleter(llm contentGenerator, model string, logger *slog.Logger) (*Completer, error) {
	if llm == nil {
		return nil, errors.New("openai client cannot be nil")
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Completer{
		llm:    llm,
		model:  model,
		logger: logger.With(slog.String("component", "openai_completer")),
	}, nil
}

// Name implements generation.Completer.
func (c *Completer) Name() string {
	return ProviderName
}

// Complete implements generation.Completer.
func (c *Completer) Complete(ctx context.Context, req generation.CompletionRequest) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, req.UserText),
	}

	c.logger.DebugContext(ctx, "calling OpenAI API",
		slog.String("model", c.model),
		slog.Int("input_length", len(req.UserText)))

	resp, err := c.llm.GenerateContent(ctx, messages, llms.WithModel(c.model), llms.WithJSONMode())
	if err != nil {
		return "", fmt.Errorf("%w: openai: %w", generation.ErrUpstream, err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", fmt.Errorf("%w: openai returned no choices", generation.ErrUpstream)
	}

	choice := resp.Choices[0]
	if choice.StopReason == stopReasonContentFilter {
		return "", generation.ErrContentBlocked
	}
	return choice.Content, nil
}
