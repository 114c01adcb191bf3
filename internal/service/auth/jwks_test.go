package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/flashcards-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://flashcards.example.auth0.com/"
	testAudience = "https://api.flashcards.test"
)

func newTestJWKSVerifier(t *testing.T) (*JWKSVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keyFunc := func(context.Context) (interface{}, error) { return &key.PublicKey, nil }
	v, err := newJWKSVerifier(keyFunc, testIssuer, testAudience, nil)
	require.NoError(t, err)
	return v, key
}

func signRS256(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func providerClaims(subject string) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{testAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
}

func TestJWKSVerifier_ValidToken(t *testing.T) {
	v, key := newTestJWKSVerifier(t)

	identity, err := v.Verify(context.Background(), signRS256(t, key, providerClaims("auth0|abc123")))

	require.NoError(t, err)
	assert.Equal(t, "auth0|abc123", identity.UserID)
}

func TestJWKSVerifier_Rejects(t *testing.T) {
	v, key := newTestJWKSVerifier(t)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	expired := providerClaims("auth0|abc123")
	expired.IssuedAt = jwt.NewNumericDate(time.Now().Add(-3 * time.Hour))
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-2 * time.Hour))

	wrongAudience := providerClaims("auth0|abc123")
	wrongAudience.Audience = jwt.ClaimStrings{"https://someone-else.test"}

	wrongIssuer := providerClaims("auth0|abc123")
	wrongIssuer.Issuer = "https://evil.example.com/"

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"missing", "", ErrMissingToken},
		{"garbage", "garbage", ErrInvalidToken},
		{"other key", signRS256(t, otherKey, providerClaims("auth0|abc123")), ErrInvalidToken},
		{"expired", signRS256(t, key, expired), ErrInvalidToken},
		{"wrong audience", signRS256(t, key, wrongAudience), ErrInvalidToken},
		{"wrong issuer", signRS256(t, key, wrongIssuer), ErrInvalidToken},
		{"no subject", signRS256(t, key, providerClaims("")), ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := v.Verify(context.Background(), tt.token)

			assert.Nil(t, identity)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewJWKSVerifier_Config(t *testing.T) {
	_, err := NewJWKSVerifier(config.AuthConfig{IssuerURL: "not a url", Audience: testAudience}, nil)
	assert.Error(t, err)

	_, err = NewJWKSVerifier(config.AuthConfig{IssuerURL: testIssuer}, nil)
	assert.ErrorContains(t, err, "audience")

	v, err := NewJWKSVerifier(config.AuthConfig{IssuerURL: testIssuer, Audience: testAudience}, nil)
	require.NoError(t, err, "keys are not fetched at construction")
	assert.NotNil(t, v)
}
