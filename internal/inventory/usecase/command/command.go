package command

import (
	"context"
	"time"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
	"github.com/pawcare/stock-ledger/internal/inventory/notification"
)

// UndoNotePrefix tags compensating ledger entries written by an undo
const UndoNotePrefix = "UNDO: "

// StockCommand encapsulates one reversible stock mutation. A command moves
// between unexecuted and executed: Execute on an executed command and Undo
// on an unexecuted one are rejected without touching storage.
type StockCommand interface {
	Execute(ctx context.Context) error
	Undo(ctx context.Context) error
	Description() string
	CanUndo() bool
	Actor() string
	CreatedAt() time.Time
}

// stockCommand holds the state shared by all stock commands
type stockCommand struct {
	store    domain.StockStore
	notifier *notification.Center

	itemID    uint
	quantity  int
	reason    string
	actor     string
	createdAt time.Time

	executed         bool
	previousQuantity int
	hasPrevious      bool
}

func newStockCommand(store domain.StockStore, notifier *notification.Center, itemID uint, quantity int, reason, actor string) stockCommand {
	return stockCommand{
		store:     store,
		notifier:  notifier,
		itemID:    itemID,
		quantity:  quantity,
		reason:    reason,
		actor:     actor,
		createdAt: time.Now(),
	}
}

func (c *stockCommand) Actor() string        { return c.actor }
func (c *stockCommand) CreatedAt() time.Time { return c.createdAt }

// CanUndo reports whether the command has been executed and recorded the
// quantity needed to reverse itself
func (c *stockCommand) CanUndo() bool {
	return c.executed && c.hasPrevious
}

// restoringKind picks the direction and magnitude of a compensating entry.
// Another session may have moved the quantity past the recorded level between
// execute and undo, so the restoring delta can point either way.
func restoringKind(before, after int) (string, int) {
	if after >= before {
		return domain.MovementIn, after - before
	}
	return domain.MovementOut, before - after
}

// guard rejects mutations of deactivated items before anything changes
func guardActive(item *domain.Item) error {
	if !item.IsActive {
		return domain.ErrInactiveItem
	}
	return nil
}

// emit publishes the transition exactly once, after the change committed
func (c *stockCommand) emit(item *domain.Item, mv *domain.Movement) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(domain.StockTransition{
		ItemID:           item.ID,
		SKU:              item.SKU,
		ItemName:         item.Name,
		PreviousQuantity: mv.QuantityBefore,
		NewQuantity:      mv.QuantityAfter,
		MinimumStock:     item.MinimumStock,
		ExpiryDate:       item.ExpiryDate,
		Actor:            c.actor,
		Reason:           c.reason,
		Timestamp:        time.Now(),
	})
}
