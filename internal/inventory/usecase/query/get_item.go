package query

import (
	"context"
	"fmt"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
)

// GetItemQuery represents the query to get a single item by ID or SKU
type GetItemQuery struct {
	ID  uint
	SKU string
}

// GetItemHandler handles get item queries
type GetItemHandler struct {
	repo domain.ItemRepository
}

// NewGetItemHandler creates a new get item handler
func NewGetItemHandler(repo domain.ItemRepository) *GetItemHandler {
	return &GetItemHandler{repo: repo}
}

// Handle executes the get item query
func (h *GetItemHandler) Handle(ctx context.Context, q GetItemQuery) (*domain.Item, error) {
	switch {
	case q.ID != 0:
		return h.repo.FindByID(ctx, q.ID)
	case q.SKU != "":
		return h.repo.FindBySKU(ctx, q.SKU)
	default:
		return nil, fmt.Errorf("item id or sku is required")
	}
}
