package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gcfirestore "cloud.google.com/go/firestore"
	"github.com/phrazzld/flashcards-api/internal/api/middleware"
	"github.com/phrazzld/flashcards-api/internal/billing"
	"github.com/phrazzld/flashcards-api/internal/config"
	"github.com/phrazzld/flashcards-api/internal/generation"
	"github.com/phrazzld/flashcards-api/internal/metrics"
	fsstore "github.com/phrazzld/flashcards-api/internal/platform/firestore"
	"github.com/phrazzld/flashcards-api/internal/platform/gemini"
	"github.com/phrazzld/flashcards-api/internal/platform/memory"
	"github.com/phrazzld/flashcards-api/internal/platform/openai"
	"github.com/phrazzld/flashcards-api/internal/platform/postgres"
	"github.com/phrazzld/flashcards-api/internal/service"
	"github.com/phrazzld/flashcards-api/internal/service/auth"
	"github.com/phrazzld/flashcards-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// application holds the shared dependencies and the resources that must be
// released on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Backend handles, set only for the selected backend.
	db        *sql.DB
	firestore *gcfirestore.Client

	metrics        *metrics.Metrics
	metricsHandler http.Handler

	verifier          auth.Verifier
	gateway           *generation.Gateway
	collectionService service.CollectionService
	rateLimiter       *middleware.RateLimiter
	// checkout is nil when billing is disabled.
	checkout billing.Checkout
}

// newApplication builds every dependency from cfg. On error, anything
// already opened is released.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *application, err error) {
	app := &application{config: cfg, logger: logger}
	defer func() {
		if err != nil {
			app.cleanup()
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.New(reg)
	app.metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	app.verifier, err = auth.NewVerifier(cfg.Auth, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identity verifier: %w", err)
	}
	logger.Info("identity verifier initialized", slog.String("mode", cfg.Auth.Mode))

	completer, err := newCompleter(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize completion provider: %w", err)
	}
	tmpl, err := generation.LoadPromptTemplate(cfg.LLM.PromptTemplatePath)
	if err != nil {
		return nil, err
	}
	app.gateway, err = generation.NewGateway(completer, generation.Config{
		CardCount:      cfg.LLM.CardCount,
		MaxInputChars:  cfg.LLM.MaxInputChars,
		Timeout:        time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		PromptTemplate: tmpl,
	}, logger, app.metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation gateway: %w", err)
	}
	logger.Info("generation gateway initialized",
		slog.String("provider", completer.Name()),
		slog.String("model", cfg.LLM.Model),
		slog.Int("card_count", cfg.LLM.CardCount))

	collectionStore, err := app.setupStore(ctx)
	if err != nil {
		return nil, err
	}
	app.collectionService, err = service.NewCollectionService(collectionStore, app.metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection service: %w", err)
	}

	app.rateLimiter = middleware.NewRateLimiter(
		cfg.RateLimit.GenerationsPerMinute,
		cfg.RateLimit.Burst,
		app.metrics,
	)

	if cfg.Billing.Enabled() {
		app.checkout, err = billing.NewStripeCheckout(cfg.Billing.StripeSecretKey, cfg.Billing.PriceID, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize checkout: %w", err)
		}
		logger.Info("billing enabled")
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// newCompleter selects the completion provider.
func newCompleter(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Completer, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		c, err := gemini.NewCompleter(ctx, cfg.GeminiAPIKey, cfg.Model, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderOpenAI:
		c, err := openai.NewCompleter(cfg.OpenAIAPIKey, cfg.Model, cfg.OpenAIBaseURL, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

// setupStore opens the configured backend and returns its collection store.
func (app *application) setupStore(ctx context.Context) (store.CollectionStore, error) {
	backend := app.config.Store.Backend
	defer app.logger.Info("collection store initialized", slog.String("backend", backend))

	switch backend {
	case config.BackendMemory:
		app.logger.Warn("using the in-memory store; collections are lost on restart")
		return memory.NewCollectionStore(), nil

	case config.BackendPostgres:
		db, err := setupAppDatabase(ctx, app.config.Database, app.logger)
		if err != nil {
			return nil, err
		}
		app.db = db
		return postgres.NewCollectionStore(db, app.logger), nil

	case config.BackendFirestore:
		client, err := fsstore.NewClient(ctx, app.config.Firestore)
		if err != nil {
			return nil, err
		}
		app.firestore = client
		return fsstore.NewCollectionStore(client, app.logger), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases backend connections.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.Any("error", err))
		}
		app.db = nil
	}
	if app.firestore != nil {
		if err := app.firestore.Close(); err != nil {
			app.logger.Error("error closing firestore client", slog.Any("error", err))
		}
		app.firestore = nil
	}
}
