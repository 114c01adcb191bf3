package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/flashcards-api/internal/api"
	"github.com/phrazzld/flashcards-api/internal/api/middleware"
	"github.com/rs/cors"
)

// setupRouter registers every route and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware(app.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: app.config.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Accept", "Origin"},
		ExposedHeaders: []string{middleware.TraceIDHeader, "Retry-After"},
		MaxAge:         300,
	}).Handler)

	authMiddleware := middleware.NewAuthMiddleware(app.verifier)
	generationHandler := api.NewGenerationHandler(app.gateway)
	collectionHandler := api.NewCollectionHandler(app.collectionService)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.With(app.rateLimiter.Limit).Post("/generate", generationHandler.Generate)

		r.Get("/collections", collectionHandler.ListCollections)
		r.Post("/collections", collectionHandler.SaveCollection)
		r.Get("/collections/{name}/flashcards", collectionHandler.ListCards)

		if app.checkout != nil {
			billingHandler := api.NewBillingHandler(app.checkout)
			r.Post("/checkout_session", billingHandler.CreateCheckoutSession)
			r.Get("/checkout_session", billingHandler.GetCheckoutSession)
		}
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", slog.Any("error", err))
		}
	})
	r.Handle("/metrics", app.metricsHandler)

	return r
}
