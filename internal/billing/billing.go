// Package billing creates and looks up subscription checkout sessions with
// the payment processor. Payment state is never stored here; the processor
// is the source of truth.
package billing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrInvalidOrigin indicates the request origin cannot be used to build
	// redirect URLs.
	ErrInvalidOrigin = errors.New("invalid origin")

	// ErrSessionNotFound indicates the processor has no session with that id.
	ErrSessionNotFound = errors.New("checkout session not found")

	// ErrProcessor indicates the payment processor call failed.
	ErrProcessor = errors.New("payment processor error")
)

// Session is a checkout session as reported by the processor.
type Session struct {
	ID            string `json:"id"`
	URL           string `json:"url,omitempty"`
	Status        string `json:"status,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

// Checkout starts and inspects subscription checkouts.
type Checkout interface {
	// CreateSession starts a subscription checkout that redirects back to origin.
	CreateSession(ctx context.Context, origin string) (*Session, error)

	// GetSession returns the current state of a session.
	GetSession(ctx context.Context, id string) (*Session, error)
}

// ResultURL is the page the processor redirects to after checkout, with the
// processor's session id placeholder.
func ResultURL(origin string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrigin, origin)
	}
	return u.Scheme + "://" + u.Host + "/result?session_id={CHECKOUT_SESSION_ID}", nil
}
