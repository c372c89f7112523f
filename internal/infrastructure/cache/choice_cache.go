package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eventi/backend/internal/domain/event"
	"go.uber.org/zap"
)

// Cache keys of the choice lists
const (
	CategoriaChoicesKey = "categoria_choices"
	SettoreChoicesKey   = "settore_choices"
)

// DefaultChoicesTTL is used when no TTL is configured
const DefaultChoicesTTL = time.Hour

// ChoiceCache serves the categoria and settore choice lists of the forms.
// Concurrent misses may each rebuild the list; the last write wins.
type ChoiceCache struct {
	store   Store
	settori event.SettoreRepository
	ttl     time.Duration
	logger  *zap.Logger
}

// NewChoiceCache creates a choice cache over store
func NewChoiceCache(store Store, settori event.SettoreRepository, ttl time.Duration, logger *zap.Logger) *ChoiceCache {
	if ttl <= 0 {
		ttl = DefaultChoicesTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChoiceCache{store: store, settori: settori, ttl: ttl, logger: logger}
}

// Categorie returns the category choices
func (c *ChoiceCache) Categorie(ctx context.Context) ([]event.Choice, error) {
	var choices []event.Choice
	if c.load(ctx, CategoriaChoicesKey, &choices) {
		return choices, nil
	}
	choices = event.CategoriaChoices()
	c.save(ctx, CategoriaChoicesKey, choices)
	return choices, nil
}

// Settori returns every sector ordered by name
func (c *ChoiceCache) Settori(ctx context.Context) ([]event.Settore, error) {
	var settori []event.Settore
	if c.load(ctx, SettoreChoicesKey, &settori) {
		return settori, nil
	}
	settori, err := c.settori.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	c.save(ctx, SettoreChoicesKey, settori)
	return settori, nil
}

// InvalidateSettori drops the cached sector list
func (c *ChoiceCache) InvalidateSettori(ctx context.Context) {
	if err := c.store.Delete(ctx, SettoreChoicesKey); err != nil {
		c.logger.Warn("Failed to invalidate cache key", zap.String("key", SettoreChoicesKey), zap.Error(err))
	}
}

// load reads a cached value. Store errors and corrupt entries count as misses.
func (c *ChoiceCache) load(ctx context.Context, key string, dest any) bool {
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("Discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *ChoiceCache) save(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
