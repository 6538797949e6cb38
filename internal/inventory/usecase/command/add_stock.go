package command

import (
	"context"
	"fmt"
	"time"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
	"github.com/pawcare/stock-ledger/internal/inventory/notification"
)

// AddStockCommand adds a positive quantity to an item's stock
type AddStockCommand struct {
	stockCommand
}

// NewAddStockCommand creates an add stock command
func NewAddStockCommand(store domain.StockStore, notifier *notification.Center, itemID uint, quantity int, reason, actor string) *AddStockCommand {
	return &AddStockCommand{
		stockCommand: newStockCommand(store, notifier, itemID, quantity, reason, actor),
	}
}

// Execute applies the addition and appends an IN ledger entry
func (c *AddStockCommand) Execute(ctx context.Context) error {
	if c.executed {
		return domain.ErrAlreadyExecuted
	}
	if c.quantity <= 0 {
		return fmt.Errorf("%w: add of %d", domain.ErrInvalidQuantity, c.quantity)
	}

	item, mv, err := c.store.ApplyChange(ctx, c.itemID, func(item *domain.Item) (*domain.Movement, error) {
		if err := guardActive(item); err != nil {
			return nil, err
		}
		before := item.Quantity
		after, err := item.Adjust(c.quantity)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		item.LastRestocked = &now

		c.previousQuantity = before
		c.hasPrevious = true

		return &domain.Movement{
			ItemID:         item.ID,
			Type:           domain.MovementIn,
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
// normally an OUT removing what was added
func (c *AddStockCommand) Undo(ctx context.Context) error {
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
func (c *AddStockCommand) Description() string {
	return fmt.Sprintf("Add %d units (Reason: %s)", c.quantity, c.reason)
}
