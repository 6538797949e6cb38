package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pawcare/stock-ledger/internal/inventory/usecase/query"
)

func TestStatsCache_NilSafe(t *testing.T) {
	ctx := context.Background()

	var nilCache *StatsCache
	if got := nilCache.Get(ctx); got != nil {
		t.Errorf("nil cache Get should miss, got %+v", got)
	}
	nilCache.Set(ctx, &query.InventoryStats{})
	nilCache.Invalidate(ctx)

	// A cache without a Redis client behaves the same way
	disabled := NewStatsCache(nil, time.Second)
	if got := disabled.Get(ctx); got != nil {
		t.Errorf("disabled cache Get should miss, got %+v", got)
	}
	disabled.Set(ctx, &query.InventoryStats{TotalItems: 1})
	if got := disabled.Get(ctx); got != nil {
		t.Error("disabled cache must not retain values")
	}
}

func TestNewStatsCache_DefaultTTL(t *testing.T) {
	cache := NewStatsCache(nil, 0)
	if cache.ttl != 30*time.Second {
		t.Errorf("expected default TTL 30s, got %v", cache.ttl)
	}
}
