package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/phrazzld/flashcards-api/internal/config"
	"github.com/phrazzld/flashcards-api/internal/platform/logger"
)

// tokenValidator is the part of *validator.Validator used here.
type tokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (interface{}, error)
}

// JWKSVerifier verifies RS256 tokens from the identity provider against the
// provider's published signing keys, which are cached.
type JWKSVerifier struct {
	validator tokenValidator
	logger    *slog.Logger
}

var _ Verifier = (*JWKSVerifier)(nil)

// NewJWKSVerifier creates a verifier for cfg.IssuerURL and cfg.Audience.
// Keys are fetched lazily on the first verification.
func NewJWKSVerifier(cfg config.AuthConfig, logger *slog.Logger) (*JWKSVerifier, error) {
	issuerURL, err := url.Parse(cfg.IssuerURL)
	if err != nil || issuerURL.Scheme == "" || issuerURL.Host == "" {
		return nil, fmt.Errorf("invalid issuer url %q", cfg.IssuerURL)
	}

	ttl := time.Duration(cfg.JWKSCacheMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	provider := jwks.NewCachingProvider(issuerURL, ttl)

	return newJWKSVerifier(provider.KeyFunc, issuerURL.String(), cfg.Audience, logger)
}

func newJWKSVerifier(
	keyFunc func(context.Context) (interface{}, error),
	issuer, audience string,
	logger *slog.Logger,
) (*JWKSVerifier, error) {
	if audience == "" {
		return nil, errors.New("audience cannot be empty")
	}
	v, err := validator.New(
		keyFunc,
		validator.RS256,
		issuer,
		[]string{audience},
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up token validator: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JWKSVerifier{
		validator: v,
		logger:    logger.With(slog.String("component", "jwks_verifier")),
	}, nil
}

// Verify implements Verifier. Every validation failure, expiry included,
// is reported as ErrInvalidToken.
func (v *JWKSVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	log := logger.FromContextOrDefault(ctx, v.logger)
	if token == "" {
		return nil, ErrMissingToken
	}

	raw, err := v.validator.ValidateToken(ctx, token)
	if err != nil {
		log.Debug("token validation failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := raw.(*validator.ValidatedClaims)
	if !ok || claims.RegisteredClaims.Subject == "" {
		log.Debug("token validation failed: missing subject")
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: claims.RegisteredClaims.Subject}, nil
}
