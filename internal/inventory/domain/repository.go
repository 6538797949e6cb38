package domain

import "context"

// ItemRepository defines the contract for item data access
type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	FindByID(ctx context.Context, id uint) (*Item, error)
	FindBySKU(ctx context.Context, sku string) (*Item, error)
	FindAll(ctx context.Context, limit, offset int) ([]Item, error)
	Update(ctx context.Context, item *Item) error
	Deactivate(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)

	LowStock(ctx context.Context) ([]Item, error)
	OutOfStock(ctx context.Context) ([]Item, error)
	ExpiringSoon(ctx context.Context, days int) ([]Item, error)
	ByCategory(ctx context.Context, category string) ([]Item, error)
	Search(ctx context.Context, query string) ([]Item, error)
}

// MovementRepository defines the read contract for the stock ledger.
// There is deliberately no update or delete: the ledger is append-only and
// entries are written only through StockStore.ApplyChange.
type MovementRepository interface {
	FindByItem(ctx context.Context, itemID uint, limit, offset int) ([]Movement, error)
	FindAll(ctx context.Context, limit, offset int) ([]Movement, error)
	Count(ctx context.Context) (int64, error)
}

// ChangeFunc mutates an item and returns the ledger entry describing the
// change. Returning an error aborts the change with nothing persisted.
type ChangeFunc func(item *Item) (*Movement, error)

// StockStore is the single write path for stock levels. ApplyChange loads
// the item under a per-item lock, applies fn, and persists the updated item
// together with the returned movement in one transaction, so the on-hand
// quantity and the latest ledger entry can never diverge.
type StockStore interface {
	ApplyChange(ctx context.Context, itemID uint, fn ChangeFunc) (*Item, *Movement, error)
}
