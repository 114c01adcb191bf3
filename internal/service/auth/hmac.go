package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/flashcards-api/internal/config"
	"github.com/phrazzld/flashcards-api/internal/platform/logger"
)

// minSecretLength matches the config validation rule for auth.jwt_secret.
const minSecretLength = 32

// HMACVerifier verifies HS256 tokens signed with a shared secret and can
// issue them. It is meant for local development and tests.
type HMACVerifier struct {
	signingKey    []byte
	tokenLifetime time.Duration
	timeFunc      func() time.Time // Injectable for testing
	clockSkew     time.Duration
	logger        *slog.Logger
}

var _ Verifier = (*HMACVerifier)(nil)

// NewHMACVerifier creates a verifier from cfg.JWTSecret.
func NewHMACVerifier(cfg config.AuthConfig, logger *slog.Logger) (*HMACVerifier, error) {
	if len(cfg.JWTSecret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	}
	if logger == nil {
		logger = slog.Default()
	}
	lifetime := time.Duration(cfg.TokenLifetimeMinutes) * time.Minute
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	return &HMACVerifier{
		signingKey:    []byte(cfg.JWTSecret),
		tokenLifetime: lifetime,
		timeFunc:      time.Now,
		clockSkew:     2 * time.Minute,
		logger:        logger.With(slog.String("component", "hmac_verifier")),
	}, nil
}

// IssueToken creates a signed token whose subject is userID.
func (v *HMACVerifier) IssueToken(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id cannot be empty")
	}
	now := v.timeFunc()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(v.tokenLifetime)),
		ID:        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.signingKey)
	if err != nil {
		logger.FromContextOrDefault(ctx, v.logger).Error("failed to sign token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}
	return signed, nil
}

// Verify implements Verifier.
func (v *HMACVerifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	log := logger.FromContextOrDefault(ctx, v.logger)
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	now := v.timeFunc()
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(v.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired")
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("token validation failed: token not yet valid")
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("token validation failed",
				slog.String("error", err.Error()),
				slog.String("error_type", fmt.Sprintf("%T", err)))
			return nil, ErrInvalidToken
		}
	}

	if claims.Subject == "" {
		log.Debug("token validation failed: empty subject")
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: claims.Subject}, nil
}
