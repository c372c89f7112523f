// Package cache provides the TTL stores behind the form choice lists.
package cache

import (
	"context"
	"time"
)

// Store is a TTL key/value store for serialized values
type Store interface {
	// Get returns the value and true, or false when the key is missing or expired
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
