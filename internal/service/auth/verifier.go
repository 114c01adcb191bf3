// Package auth verifies the bearer tokens that identify signed-in users.
// Identity itself is delegated: tokens are issued by an external provider
// and checked against its JWKS, or, for local development, signed with a
// shared HMAC secret.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashcards-api/internal/config"
)

// Identity is the verified caller.
type Identity struct {
	// UserID is the token subject. It keys the user's collection index.
	UserID string
}

// Verifier checks a raw bearer token and returns the identity it carries.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// NewVerifier builds the verifier selected by cfg.Mode.
func NewVerifier(cfg config.AuthConfig, logger *slog.Logger) (Verifier, error) {
	switch cfg.Mode {
	case config.AuthModeJWKS:
		return NewJWKSVerifier(cfg, logger)
	case config.AuthModeHMAC:
		return NewHMACVerifier(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}
