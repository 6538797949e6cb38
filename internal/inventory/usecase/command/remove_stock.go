package command

import (
	"context"
	"fmt"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
	"github.com/pawcare/stock-ledger/internal/inventory/notification"
)

// RemoveStockCommand removes a positive quantity from an item's stock.
// Removing more than is on hand fails before any mutation: the quantity is
// rejected, not clamped, and no ledger entry is written.
type RemoveStockCommand struct {
	stockCommand
}

// NewRemoveStockCommand creates a remove stock command
func NewRemoveStockCommand(store domain.StockStore, notifier *notification.Center, itemID uint, quantity int, reason, actor string) *RemoveStockCommand {
	return &RemoveStockCommand{
		stockCommand: newStockCommand(store, notifier, itemID, quantity, reason, actor),
	}
}

// Execute applies the removal and appends an OUT ledger entry
func (c *RemoveStockCommand) Execute(ctx context.Context) error {
	if c.executed {
		return domain.ErrAlreadyExecuted
	}
	if c.quantity <= 0 {
		return fmt.Errorf("%w: remove of %d", domain.ErrInvalidQuantity, c.quantity)
	}

	item, mv, err := c.store.ApplyChange(ctx, c.itemID, func(item *domain.Item) (*domain.Movement, error) {
		if err := guardActive(item); err != nil {
			return nil, err
		}
		before := item.Quantity
		after, err := item.Adjust(-c.quantity)
		if err != nil {
			return nil, err
		}

		c.previousQuantity = before
		c.hasPrevious = true

		return &domain.Movement{
			ItemID:         item.ID,
			Type:           domain.MovementOut,
			Quantity:       c.quantity,
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

// Undo restores the pre-execution quantity with a compensating entry,
// normally an IN putting back what was removed
func (c *RemoveStockCommand) Undo(ctx context.Context) error {
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
		kind, magnitude := restoringKind(before, after)
		return &domain.Movement{
			ItemID:         item.ID,
			Type:           kind,
			Quantity:       magnitude,
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
func (c *RemoveStockCommand) Description() string {
	return fmt.Sprintf("Remove %d units (Reason: %s)", c.quantity, c.reason)
}
