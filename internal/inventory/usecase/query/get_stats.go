package query

import (
	"context"
	"fmt"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
	"github.com/pawcare/stock-ledger/internal/inventory/notification"
)

// CategoryStats is the per-category breakdown of the inventory
type CategoryStats struct {
	Count int     `json:"count"`
	Stock int64   `json:"stock"`
	Value float64 `json:"value"`
}

// InventoryStats represents aggregate inventory statistics
type InventoryStats struct {
	TotalItems     int64                    `json:"total_items"`
	ActiveItems    int64                    `json:"active_items"`
	TotalStock     int64                    `json:"total_stock"`
	TotalValue     float64                  `json:"total_value"`
	LowStock       int64                    `json:"low_stock"`
	OutOfStock     int64                    `json:"out_of_stock"`
	ExpiringSoon   int64                    `json:"expiring_soon"`
	TotalMovements int64                    `json:"total_movements"`
	ByCategory     map[string]CategoryStats `json:"by_category"`
}

// GetStatsHandler handles aggregate statistics queries
type GetStatsHandler struct {
	items     domain.ItemRepository
	movements domain.MovementRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(items domain.ItemRepository, movements domain.MovementRepository) *GetStatsHandler {
	return &GetStatsHandler{items: items, movements: movements}
}

// Handle executes the stats query as one snapshot read
func (h *GetStatsHandler) Handle(ctx context.Context) (*InventoryStats, error) {
	items, err := h.items.FindAll(ctx, 10000, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	movementCount, err := h.movements.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count movements: %w", err)
	}

	stats := &InventoryStats{
		TotalItems:     int64(len(items)),
		TotalMovements: movementCount,
		ByCategory:     make(map[string]CategoryStats),
	}

	for i := range items {
		item := &items[i]
		if !item.IsActive {
			continue
		}
		stats.ActiveItems++
		stats.TotalStock += int64(item.Quantity)
		stats.TotalValue += item.TotalValue()

		if item.IsOutOfStock() {
			stats.OutOfStock++
		}
		if item.IsLowStock() {
			stats.LowStock++
		}
		if item.IsExpiringSoon(notification.DefaultExpiryWindowDays) {
			stats.ExpiringSoon++
		}

		cat := stats.ByCategory[item.Category]
		cat.Count++
		cat.Stock += int64(item.Quantity)
		cat.Value += item.TotalValue()
		stats.ByCategory[item.Category] = cat
	}

	return stats, nil
}
