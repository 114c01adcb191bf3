// Package metrics declares the Prometheus instruments exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess   = "success"
	OutcomeUpstream  = "upstream_error"
	OutcomeMalformed = "malformed_response"
	OutcomeInvalid   = "invalid_input"
	OutcomeDuplicate = "duplicate_name"
	OutcomeFailed    = "persistence_error"
)

// Metrics holds the service's Prometheus instruments.
//
// Metrics:
//   - flashcards_generation_requests_total{provider,outcome}
//   - flashcards_generation_duration_seconds{provider}
//   - flashcards_collection_saves_total{outcome}
//   - flashcards_rate_limited_total
type Metrics struct {
	GenerationRequests *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	CollectionSaves    *prometheus.CounterVec
	RateLimited        prometheus.Counter
}

// New registers the instruments with reg. Pass prometheus.DefaultRegisterer
// in the server and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		GenerationRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flashcards_generation_requests_total",
				Help: "Total number of flashcard generation requests by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		GenerationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flashcards_generation_duration_seconds",
				Help:    "Time spent waiting for the completion provider",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"provider"},
		),
		CollectionSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flashcards_collection_saves_total",
				Help: "Total number of collection saves by outcome",
			},
			[]string{"outcome"},
		),
		RateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flashcards_rate_limited_total",
				Help: "Total number of generation requests rejected by the per-user rate limit",
			},
		),
	}
}

// Nop returns instruments registered with a private registry, for callers
// that do not export metrics.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}

// ObserveGeneration records one generation attempt.
func (m *Metrics) ObserveGeneration(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.GenerationRequests.WithLabelValues(provider, outcome).Inc()
	m.GenerationDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveSave records one collection save attempt.
func (m *Metrics) ObserveSave(outcome string) {
	if m == nil {
		return
	}
	m.CollectionSaves.WithLabelValues(outcome).Inc()
}

// ObserveRateLimited records one rejected generation request.
func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}
