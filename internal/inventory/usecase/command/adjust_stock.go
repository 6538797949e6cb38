package command

import (
	"context"
	"fmt"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
	"github.com/pawcare/stock-ledger/internal/inventory/notification"
)

// AdjustStockCommand sets an item's stock to an absolute target quantity,
// recording the transition as a single ADJUSTMENT ledger entry whose delta
// is the magnitude of the change.
type AdjustStockCommand struct {
	stockCommand
}

// NewAdjustStockCommand creates an adjust stock command. The quantity is
// interpreted as the target on-hand level, not a delta.
func NewAdjustStockCommand(store domain.StockStore, notifier *notification.Center, itemID uint, targetQuantity int, reason, actor string) *AdjustStockCommand {
	return &AdjustStockCommand{
		stockCommand: newStockCommand(store, notifier, itemID, targetQuantity, reason, actor),
	}
}

// Execute sets the target quantity and appends an ADJUSTMENT ledger entry
func (c *AdjustStockCommand) Execute(ctx context.Context) error {
	if c.executed {
		return domain.ErrAlreadyExecuted
	}
	if c.quantity < 0 {
		return fmt.Errorf("%w: target %d", domain.ErrNegativeTarget, c.quantity)
	}

	item, mv, err := c.store.ApplyChange(ctx, c.itemID, func(item *domain.Item) (*domain.Movement, error) {
		if err := guardActive(item); err != nil {
			return nil, err
		}
		before := item.Quantity
		after, err := item.Adjust(c.quantity - before)
		if err != nil {
			return nil, err
		}

		c.previousQuantity = before
		c.hasPrevious = true

		return &domain.Movement{
			ItemID:         item.ID,
			Type:           domain.MovementAdjustment,
			Quantity:       abs(after - before),
			Reason:         c.reason,
			QuantityBefore: before,
			QuantityAfter:  after,
			CreatedBy:      c.actor,
		}, nil
	})
	if err != nil {
		return err
	}

	c.executed = true
	c.emit(item, mv)
	return nil
}

// Undo re-applies the recorded previous quantity as a fresh ADJUSTMENT
// entry. The earlier entry is left untouched; the ledger only grows.
func (c *AdjustStockCommand) Undo(ctx context.Context) error {
	if !c.CanUndo() {
		return domain.ErrNotExecuted
	}

	item, mv, err := c.store.ApplyChange(ctx, c.itemID, func(item *domain.Item) (*domain.Movement, error) {
		if err := guardActive(item); err != nil {
			return nil, err
		}
		before := item.Quantity
		after, err := item.Adjust(c.previousQuantity - before)
		if err != nil {
			return nil, err
		}
		return &domain.Movement{
			ItemID:         item.ID,
			Type:           domain.MovementAdjustment,
			Quantity:       abs(after - before),
			Reason:         c.reason,
			QuantityBefore: before,
			QuantityAfter:  after,
			CreatedBy:      c.actor,
			Notes:          UndoNotePrefix + c.Description(),
		}, nil
	})
	if err != nil {
		return err
	}

	c.executed = false
	c.emit(item, mv)
	return nil
}

// Description returns a human-readable summary of the command
func (c *AdjustStockCommand) Description() string {
	return fmt.Sprintf("Adjust to %d units (Reason: %s)", c.quantity, c.reason)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
