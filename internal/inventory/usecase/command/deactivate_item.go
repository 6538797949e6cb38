package command

import (
	"context"
	"fmt"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
)

// DeactivateItemCommand represents the command to soft-deactivate an item.
// Items are never hard-deleted so the ledger keeps its referential integrity.
type DeactivateItemCommand struct {
	ItemID uint
}

// DeactivateItemHandler handles deactivate item commands
type DeactivateItemHandler struct {
	repo domain.ItemRepository
}

// NewDeactivateItemHandler creates a new deactivate item handler
func NewDeactivateItemHandler(repo domain.ItemRepository) *DeactivateItemHandler {
	return &DeactivateItemHandler{repo: repo}
}

// Handle executes the deactivate item command
func (h *DeactivateItemHandler) Handle(ctx context.Context, cmd DeactivateItemCommand) error {
	if cmd.ItemID == 0 {
		return fmt.Errorf("item_id is required")
	}

	if err := h.repo.Deactivate(ctx, cmd.ItemID); err != nil {
		return fmt.Errorf("failed to deactivate item: %w", err)
	}
	return nil
}
