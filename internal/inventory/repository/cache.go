package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pawcare/stock-ledger/internal/inventory/usecase/query"
	"github.com/pawcare/stock-ledger/pkg/logger"
)

const statsCacheKey = "inventory:stats"

// StatsCache keeps the aggregate stats snapshot in Redis for a short TTL.
// It is best-effort: any Redis failure is logged and treated as a miss, and
// every successful command invalidates the entry so reads between mutations
// stay identical.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a stats cache with the given TTL
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached stats, or nil on a miss
func (c *StatsCache) Get(ctx context.Context) *query.InventoryStats {
	if c == nil || c.client == nil {
		return nil
	}

	payload, err := c.client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx).Err(err).Msg("Stats cache read failed")
		}
		return nil
	}

	var stats query.InventoryStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		logger.Warn(ctx).Err(err).Msg("Stats cache entry corrupt, dropping")
		c.Invalidate(ctx)
		return nil
	}
	return &stats
}

// Set stores the stats snapshot
func (c *StatsCache) Set(ctx context.Context, stats *query.InventoryStats) {
	if c == nil || c.client == nil || stats == nil {
		return
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsCacheKey, payload, c.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("Stats cache write failed")
	}
}

// Invalidate drops the cached snapshot
func (c *StatsCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, statsCacheKey).Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("Stats cache invalidation failed")
	}
}
