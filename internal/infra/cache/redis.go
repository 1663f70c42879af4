// Package cache provides Redis-based caching for quick totals reads.
// The cache is a read accelerator for the resolver, never the source of
// truth: a miss always falls back to the live ledgers.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/davortega/CargoRutas/server/internal/domain/cargo"
	"github.com/davortega/CargoRutas/server/internal/platform/metrics"
)

// RedisClient is an interface for Redis operations.
// This allows for easy mocking in tests.
type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// TotalsCache provides fast access to per-entity category totals.
type TotalsCache struct {
	client     RedisClient
	expiration time.Duration
}

// NewTotalsCache creates a new totals cache instance.
func NewTotalsCache(client RedisClient) *TotalsCache {
	return &TotalsCache{
		client:     client,
		expiration: 2 * time.Second,
	}
}

func totalsKey(entityID string) string {
	return fmt.Sprintf("cargo:totals:%s", entityID)
}

// GetTotals returns the cached totals for an entity, if present and fresh.
func (c *TotalsCache) GetTotals(ctx context.Context, entityID string) (map[cargo.Category]int, bool) {
	raw, err := c.client.Get(ctx, totalsKey(entityID))
	if err != nil || raw == "" {
		return nil, false
	}

	var totals map[cargo.Category]int
	if err := json.Unmarshal([]byte(raw), &totals); err != nil {
		return nil, false
	}
	return totals, true
}

// SetTotals stores the totals for an entity with a short expiration; the
// presentation refresh cadence makes brief staleness acceptable.
func (c *TotalsCache) SetTotals(ctx context.Context, entityID string, totals map[cargo.Category]int) {
	raw, err := json.Marshal(totals)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, totalsKey(entityID), string(raw), c.expiration); err != nil {
		metrics.CacheErrors.Inc()
	}
}

// Invalidate drops the cached totals for an entity.
func (c *TotalsCache) Invalidate(ctx context.Context, entityID string) {
	if err := c.client.Del(ctx, totalsKey(entityID)); err != nil {
		metrics.CacheErrors.Inc()
	}
}
