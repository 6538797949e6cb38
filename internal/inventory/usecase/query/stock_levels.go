package query

import (
	"context"
	"fmt"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
)

// LowStockHandler returns active items at or below their minimum level
type LowStockHandler struct {
	repo domain.ItemRepository
}

// NewLowStockHandler creates a new low stock handler
func NewLowStockHandler(repo domain.ItemRepository) *LowStockHandler {
	return &LowStockHandler{repo: repo}
}

// Handle executes the low stock query
func (h *LowStockHandler) Handle(ctx context.Context) ([]domain.Item, error) {
	items, err := h.repo.LowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock items: %w", err)
	}
	return items, nil
}

// OutOfStockHandler returns active items with zero on-hand quantity
type OutOfStockHandler struct {
	repo domain.ItemRepository
}

// NewOutOfStockHandler creates a new out of stock handler
func NewOutOfStockHandler(repo domain.ItemRepository) *OutOfStockHandler {
	return &OutOfStockHandler{repo: repo}
}

// Handle executes the out of stock query
func (h *OutOfStockHandler) Handle(ctx context.Context) ([]domain.Item, error) {
	items, err := h.repo.OutOfStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query out of stock items: %w", err)
	}
	return items, nil
}
