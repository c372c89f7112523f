package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/eventi/backend/internal/infrastructure/cache"
)

// TokenBlacklist revokes session tokens before they expire, on logout
type TokenBlacklist interface {
	// Revoke blacklists a token ID for ttl, the token's remaining lifetime
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked checks if a token ID is blacklisted
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// StoreTokenBlacklist implements TokenBlacklist on a cache store,
// Redis when available and process memory otherwise
type StoreTokenBlacklist struct {
	store     cache.Store
	keyPrefix string
}

// NewStoreTokenBlacklist creates a blacklist over store
func NewStoreTokenBlacklist(store cache.Store) *StoreTokenBlacklist {
	return &StoreTokenBlacklist{store: store, keyPrefix: "token:blacklist:"}
}

// Revoke blacklists a token ID
func (b *StoreTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	if err := b.store.Set(ctx, b.keyPrefix+jti, []byte("1"), ttl); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// IsRevoked checks if a token ID is blacklisted
func (b *StoreTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, ok, err := b.store.Get(ctx, b.keyPrefix+jti)
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return ok, nil
}

// Ensure StoreTokenBlacklist implements TokenBlacklist
var _ TokenBlacklist = (*StoreTokenBlacklist)(nil)
