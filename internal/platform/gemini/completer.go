package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/flashcards-api/internal/generation"
	"google.golang.org/genai"
)

// ProviderName identifies this completer in logs and metrics.
const ProviderName = "gemini"

// contentGenerator is the slice of the genai client used here; genai's
// Models service satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Completer sends completion requests to a Gemini model.
type Completer struct {
	models contentGenerator
	model  string
	logger *slog.Logger
}

var _ generation.Completer = (*Completer)(nil)

// NewCompleter creates a Gemini API client for model.
func NewCompleter(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Completer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newCompleter(client.Models, model, logger)
}

func newCompleter(models contentGenerator, model string, logger *slog.Logger) (*Completer, error) {
	if models == nil {
		return nil, errors.New("gemini models client cannot be nil")
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Completer{
		models: models,
		model:  model,
		logger: logger.With(slog.String("component", "gemini_completer")),
	}, nil
}

// Name implements generation.Completer.
func (c *Completer) Name() string {
	return ProviderName
}

// Complete implements generation.Completer.
func (c *Completer) Complete(ctx context.Context, req generation.CompletionRequest) (string, error) {
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: req.UserText}}},
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}},
		ResponseMIMEType:  "application/json",
	}

	c.logger.DebugContext(ctx, "calling Gemini API",
		slog.String("model", c.model),
		slog.Int("input_length", len(req.UserText)))

	resp, err := c.models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %w", generation.ErrUpstream, err)
	}

	return extractText(resp)
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: gemini returned no response", generation.ErrUpstream)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", generation.ErrUpstream)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", generation.ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: gemini candidate has no content", generation.ErrUpstream)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
