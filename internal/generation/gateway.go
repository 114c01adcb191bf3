package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/phrazzld/flashcards-api/internal/domain"
	"github.com/phrazzld/flashcards-api/internal/metrics"
	"github.com/phrazzld/flashcards-api/internal/platform/logger"
	"github.com/phrazzld/flashcards-api/internal/redact"
)

// Config holds the generation contract.
type Config struct {
	// CardCount is the exact number of cards returned by Generate.
	CardCount int
	// MaxInputChars bounds the submitted text, counted in runes.
	MaxInputChars int
	// Timeout bounds one completion call. Zero means no extra deadline.
	Timeout time.Duration
	// PromptTemplate is the system instruction template. Empty selects
	// DefaultPromptTemplate.
	PromptTemplate string
}

// Gateway produces flashcards from raw text through a Completer.
type Gateway struct {
	completer    Completer
	systemPrompt string
	cardCount    int
	maxInput     int
	timeout      time.Duration
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

// NewGateway validates cfg and renders the system prompt once.
func NewGateway(completer Completer, cfg Config, logger *slog.Logger, m *metrics.Metrics) (*Gateway, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer cannot be nil", ErrInvalidConfig)
	}
	if cfg.CardCount <= 0 {
		return nil, fmt.Errorf("%w: card count must be positive", ErrInvalidConfig)
	}
	if cfg.MaxInputChars <= 0 {
		return nil, fmt.Errorf("%w: max input chars must be positive", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	tmpl := cfg.PromptTemplate
	if tmpl == "" {
		tmpl = DefaultPromptTemplate
	}
	prompt, err := RenderSystemPrompt(tmpl, cfg.CardCount)
	if err != nil {
		return nil, err
	}

	return &Gateway{
		completer:    completer,
		systemPrompt: prompt,
		cardCount:    cfg.CardCount,
		maxInput:     cfg.MaxInputChars,
		timeout:      cfg.Timeout,
		logger:       logger.With(slog.String("component", "generation_gateway")),
		metrics:      m,
	}, nil
}

// CardCount returns the number of cards each successful Generate returns.
func (g *Gateway) CardCount() int {
	return g.cardCount
}

// MaxInputChars returns the input limit in runes.
func (g *Gateway) MaxInputChars() int {
	return g.maxInput
}

// Generate sends rawText to the completion service and returns exactly
// CardCount flashcards. Nothing is persisted.
func (g *Gateway) Generate(ctx context.Context, rawText string) ([]domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)
	provider := g.completer.Name()

	if strings.TrimSpace(rawText) == "" {
		g.metrics.ObserveGeneration(provider, metrics.OutcomeInvalid, 0)
		return nil, ErrEmptyInput
	}
	if n := utf8.RuneCountInString(rawText); n > g.maxInput {
		g.metrics.ObserveGeneration(provider, metrics.OutcomeInvalid, 0)
		return nil, fmt.Errorf("%w: %d characters, limit is %d", ErrInputTooLong, n, g.maxInput)
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.completer.Complete(callCtx, CompletionRequest{
		SystemPrompt: g.systemPrompt,
		UserText:     rawText,
	})
	elapsed := time.Since(start)

	if err != nil {
		if !errors.Is(err, ErrUpstream) {
			err = fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		g.metrics.ObserveGeneration(provider, metrics.OutcomeUpstream, elapsed)
		log.Error("completion request failed",
			slog.String("provider", provider),
			slog.Duration("elapsed", elapsed),
			slog.String("error", redact.Error(err)))
		return nil, err
	}

	cards, err := ParseCompletion(text, g.cardCount)
	if err != nil {
		g.metrics.ObserveGeneration(provider, metrics.OutcomeMalformed, elapsed)
		log.Warn("completion response rejected",
			slog.String("provider", provider),
			slog.Int("response_length", len(text)),
			slog.String("error", redact.Error(err)))
		return nil, err
	}

	g.metrics.ObserveGeneration(provider, metrics.OutcomeSuccess, elapsed)
	log.Info("flashcards generated",
		slog.String("provider", provider),
		slog.Int("card_count", len(cards)),
		slog.Int("input_length", utf8.RuneCountInString(rawText)),
		slog.Duration("elapsed", elapsed))

	return cards, nil
}
