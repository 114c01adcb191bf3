package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/flashcards-api/internal/platform/logger"
	"github.com/phrazzld/flashcards-api/internal/redact"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
)

// sessionAPI is the part of the Stripe checkout session client used here.
type sessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeCheckout implements Checkout with Stripe Checkout in subscription mode.
type StripeCheckout struct {
	sessions sessionAPI
	priceID  string
	logger   *slog.Logger
}

var _ Checkout = (*StripeCheckout)(nil)

// NewStripeCheckout creates a checkout for one recurring price.
func NewStripeCheckout(secretKey, priceID string, logger *slog.Logger) (*StripeCheckout, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key cannot be empty")
	}
	client := &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey}
	return newStripeCheckout(client, priceID, logger)
}

func newStripeCheckout(sessions sessionAPI, priceID string, logger *slog.Logger) (*StripeCheckout, error) {
	if priceID == "" {
		return nil, errors.New("stripe price id cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StripeCheckout{
		sessions: sessions,
		priceID:  priceID,
		logger:   logger.With(slog.String("component", "stripe_checkout")),
	}, nil
}

// CreateSession implements Checkout.
func (c *StripeCheckout) CreateSession(ctx context.Context, origin string) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	returnURL, err := ResultURL(origin)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(c.priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(returnURL),
		CancelURL:  stripe.String(returnURL),
	}
	params.Context = ctx

	s, err := c.sessions.New(params)
	if err != nil {
		log.Error("failed to create checkout session", slog.String("error", redact.Error(err)))
		return nil, mapStripeError(err)
	}

	log.Info("created checkout session", slog.String("session_id", s.ID))
	return toSession(s), nil
}

// GetSession implements Checkout.
func (c *StripeCheckout) GetSession(ctx context.Context, id string) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrSessionNotFound
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := c.sessions.Get(id, params)
	if err != nil {
		log.Warn("failed to retrieve checkout session",
			slog.String("session_id", id),
			slog.String("error", redact.Error(err)))
		return nil, mapStripeError(err)
	}
	return toSession(s), nil
}

func toSession(s *stripe.CheckoutSession) *Session {
	out := &Session{
		ID:            s.ID,
		URL:           s.URL,
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		CustomerEmail: s.CustomerEmail,
	}
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		out.CustomerEmail = s.CustomerDetails.Email
	}
	return out
}

func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
		return fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	return fmt.Errorf("%w: %w", ErrProcessor, err)
}
