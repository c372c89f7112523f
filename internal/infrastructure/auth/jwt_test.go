package auth

import (
	"context"
	"testing"
	"time"

	"github.com/eventi/backend/internal/infrastructure/cache"
	"github.com/eventi/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 12 * time.Hour,
		Issuer:                "eventi",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateToken(GenerateTokenInput{UserID: 42, Username: "mrossi", IsStaff: true})
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), token.ExpiresAt, time.Minute)

	claims, err := svc.ValidateToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "mrossi", claims.Username)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_ValidateToken_Errors(t *testing.T) {
	svc := newTestJWTService()

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret: "another-secret-key-of-32-characters", AccessTokenExpiration: time.Hour, Issuer: "eventi",
		})
		token, err := other.GenerateToken(GenerateTokenInput{UserID: 1, Username: "x"})
		require.NoError(t, err)
		_, err = svc.ValidateToken(token.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret: "test-secret-key-at-least-32-chars", AccessTokenExpiration: time.Hour, Issuer: "someone-else",
		})
		token, err := other.GenerateToken(GenerateTokenInput{UserID: 1, Username: "x"})
		require.NoError(t, err)
		_, err = svc.ValidateToken(token.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := newTestJWTService()
		past.now = func() time.Time { return time.Now().Add(-13 * time.Hour) }
		token, err := past.GenerateToken(GenerateTokenInput{UserID: 1, Username: "x"})
		require.NoError(t, err)
		_, err = svc.ValidateToken(token.Token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("missing user id", func(t *testing.T) {
		token, err := svc.GenerateToken(GenerateTokenInput{Username: "x"})
		require.NoError(t, err)
		_, err = svc.ValidateToken(token.Token)
		assert.ErrorIs(t, err, ErrMissingUserID)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "eventi", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
			UserID:           1,
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ValidateToken(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestJWTService_RemainingTTL(t *testing.T) {
	svc := newTestJWTService()
	token, err := svc.GenerateToken(GenerateTokenInput{UserID: 1, Username: "x"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token.Token)
	require.NoError(t, err)

	assert.InDelta(t, (12 * time.Hour).Seconds(), svc.RemainingTTL(claims).Seconds(), 60)
	assert.Zero(t, svc.RemainingTTL(&Claims{}))
}

func TestStoreTokenBlacklist(t *testing.T) {
	store := cache.NewInMemoryStore()
	defer store.Close()
	blacklist := NewStoreTokenBlacklist(store)
	ctx := context.Background()

	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Hour))
	revoked, err = blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, blacklist.Revoke(ctx, "jti-2", 0))
	revoked, err = blacklist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked, "expired tokens need no blacklist entry")
}
