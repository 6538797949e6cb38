package command

import (
	"context"
	"fmt"
	"time"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
)

// CreateItemCommand represents the command to provision a new inventory item
type CreateItemCommand struct {
	Name         string
	Description  string
	SKU          string
	Category     string
	Unit         string
	UnitPrice    float64
	Quantity     int
	MinimumStock int
	ReorderPoint int
	ExpiryDate   *time.Time
}

// CreateItemHandler handles create item commands
type CreateItemHandler struct {
	repo domain.ItemRepository
}

// NewCreateItemHandler creates a new create item handler
func NewCreateItemHandler(repo domain.ItemRepository) *CreateItemHandler {
	return &CreateItemHandler{repo: repo}
}

// Handle provisions the item through the factory, which fills category
// defaults and generates a SKU when none is given
func (h *CreateItemHandler) Handle(ctx context.Context, cmd CreateItemCommand) (*domain.Item, error) {
	item, err := domain.NewItem(domain.ItemSpec{
		Name:         cmd.Name,
		Description:  cmd.Description,
		SKU:          cmd.SKU,
		Category:     cmd.Category,
		Unit:         cmd.Unit,
		UnitPrice:    cmd.UnitPrice,
		Quantity:     cmd.Quantity,
		MinimumStock: cmd.MinimumStock,
		ReorderPoint: cmd.ReorderPoint,
		ExpiryDate:   cmd.ExpiryDate,
	})
	if err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return item, nil
}
