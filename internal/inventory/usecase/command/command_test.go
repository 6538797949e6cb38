package command

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
	"github.com/pawcare/stock-ledger/internal/inventory/notification"
)

// Mock StockStore
type mockStore struct {
	mu     sync.Mutex
	items  map[uint]*domain.Item
	ledger []domain.Movement
}

func newMockStore(items ...*domain.Item) *mockStore {
	store := &mockStore{items: make(map[uint]*domain.Item)}
	for _, item := range items {
		store.items[item.ID] = item
	}
	return store
}

func (m *mockStore) ApplyChange(ctx context.Context, itemID uint, fn domain.ChangeFunc) (*domain.Item, *domain.Movement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.items[itemID]
	if !ok {
		return nil, nil, domain.ErrItemNotFound
	}

	working := *stored
	mv, err := fn(&working)
	if err != nil {
		return nil, nil, err
	}

	mv.ItemID = working.ID
	if mv.QuantityAfter != working.Quantity || !mv.Consistent() {
		return nil, nil, errors.New("ledger entry does not match item state")
	}

	*stored = working
	m.ledger = append(m.ledger, *mv)
	return &working, mv, nil
}

func (m *mockStore) entries() []domain.Movement {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Movement, len(m.ledger))
	copy(out, m.ledger)
	return out
}

func (m *mockStore) quantity(itemID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[itemID].Quantity
}

// setQuantity mutates the stored item directly, standing in for a change
// made through another session's commands
func (m *mockStore) setQuantity(itemID uint, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[itemID].Quantity = quantity
}

func testItem(quantity int) *domain.Item {
	return &domain.Item{
		ID:           1,
		SKU:          "MED-AMOX-AB12CD",
		Name:         "Amoxicillin",
		Category:     domain.CategoryMedicine,
		Quantity:     quantity,
		MinimumStock: 10,
		IsActive:     true,
	}
}

func TestAddStock_ExecuteAndUndo(t *testing.T) {
	store := newMockStore(testItem(10))
	cmd := NewAddStockCommand(store, nil, 1, 5, "Restock", "alex")

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got := store.quantity(1); got != 15 {
		t.Errorf("expected quantity 15 after add, got %d", got)
	}
	if !cmd.CanUndo() {
		t.Fatal("executed command should be undoable")
	}

	if err := cmd.Undo(context.Background()); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if got := store.quantity(1); got != 10 {
		t.Errorf("expected quantity 10 after undo, got %d", got)
	}

	entries := store.entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(entries))
	}
	if entries[0].Type != domain.MovementIn {
		t.Errorf("first entry should be IN, got %s", entries[0].Type)
	}
	if entries[1].Type != domain.MovementOut {
		t.Errorf("compensating entry should be OUT, got %s", entries[1].Type)
	}
	if !strings.HasPrefix(entries[1].Notes, UndoNotePrefix) {
		t.Errorf("compensating entry should carry the undo note, got %q", entries[1].Notes)
	}
}

func TestAddStock_SetsLastRestocked(t *testing.T) {
	store := newMockStore(testItem(0))
	cmd := NewAddStockCommand(store, nil, 1, 20, "Initial delivery", "alex")

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.items[1].LastRestocked == nil {
		t.Error("expected LastRestocked to be set after add")
	}
}

func TestAddStock_InvalidQuantity(t *testing.T) {
	store := newMockStore(testItem(10))

	for _, quantity := range []int{0, -5} {
		cmd := NewAddStockCommand(store, nil, 1, quantity, "Restock", "alex")
		if err := cmd.Execute(context.Background()); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Errorf("add of %d: expected ErrInvalidQuantity, got: %v", quantity, err)
		}
	}
	if len(store.entries()) != 0 {
		t.Error("rejected commands must not write ledger entries")
	}
}

func TestAddStock_DoubleExecute(t *testing.T) {
	store := newMockStore(testItem(10))
	cmd := NewAddStockCommand(store, nil, 1, 5, "Restock", "alex")

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if err := cmd.Execute(context.Background()); !errors.Is(err, domain.ErrAlreadyExecuted) {
		t.Errorf("expected ErrAlreadyExecuted, got: %v", err)
	}
	if got := store.quantity(1); got != 15 {
		t.Errorf("double execute changed quantity: %d", got)
	}
}

func TestAddStock_UndoBeforeExecute(t *testing.T) {
	store := newMockStore(testItem(10))
	cmd := NewAddStockCommand(store, nil, 1, 5, "Restock", "alex")

	if err := cmd.Undo(context.Background()); !errors.Is(err, domain.ErrNotExecuted) {
		t.Errorf("expected ErrNotExecuted, got: %v", err)
	}
}

func TestRemoveStock_ExactlyOnHand(t *testing.T) {
	store := newMockStore(testItem(10))
	cmd := NewRemoveStockCommand(store, nil, 1, 10, "Dispensed", "alex")

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("removing exactly the on-hand quantity should succeed: %v", err)
	}
	if got := store.quantity(1); got != 0 {
		t.Errorf("expected quantity 0, got %d", got)
	}
}

func TestRemoveStock_Insufficient(t *testing.T) {
	store := newMockStore(testItem(10))
	cmd := NewRemoveStockCommand(store, nil, 1, 11, "Dispensed", "alex")

	err := cmd.Execute(context.Background())
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}
	if got := store.quantity(1); got != 10 {
		t.Errorf("failed removal changed quantity: %d", got)
	}
	if len(store.entries()) != 0 {
		t.Error("failed removal must not write a ledger entry")
	}
	if cmd.CanUndo() {
		t.Error("failed command must not be undoable")
	}
}

func TestRemoveStock_InactiveItem(t *testing.T) {
	item := testItem(10)
	item.IsActive = false
	store := newMockStore(item)

	cmd := NewRemoveStockCommand(store, nil, 1, 5, "Dispensed", "alex")
	if err := cmd.Execute(context.Background()); !errors.Is(err, domain.ErrInactiveItem) {
		t.Errorf("expected ErrInactiveItem, got: %v", err)
	}
}

func TestRemoveStock_Undo(t *testing.T) {
	store := newMockStore(testItem(10))
	cmd := NewRemoveStockCommand(store, nil, 1, 4, "Dispensed", "alex")

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if err := cmd.Undo(context.Background()); err != nil {
		t.Fatalf("undo failed: %v", err)
	}

	if got := store.quantity(1); got != 10 {
		t.Errorf("expected quantity 10 after undo, got %d", got)
	}
	entries := store.entries()
	if len(entries) != 2 || entries[1].Type != domain.MovementIn {
		t.Fatalf("expected compensating IN entry, got %+v", entries)
	}
}

func TestAddStock_UndoAfterConcurrentRemoval(t *testing.T) {
	store := newMockStore(testItem(10))
	cmd := NewAddStockCommand(store, nil, 1, 5, "Restock", "alex")
	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	// Another session drains the stock below the recorded level.
	store.setQuantity(1, 7)

	if err := cmd.Undo(context.Background()); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if got := store.quantity(1); got != 10 {
		t.Errorf("expected quantity restored to 10, got %d", got)
	}

	entries := store.entries()
	last := entries[len(entries)-1]
	if last.Type != domain.MovementIn || last.Quantity != 3 {
		t.Errorf("expected restoring IN of 3, got %s of %d", last.Type, last.Quantity)
	}
	if !last.Consistent() {
		t.Errorf("restoring entry fails the arithmetic check: %+v", last)
	}
}

func TestRemoveStock_UndoAfterConcurrentAddition(t *testing.T) {
	store := newMockStore(testItem(10))
	cmd := NewRemoveStockCommand(store, nil, 1, 5, "Dispensed", "alex")
	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	// Another session restocks past the recorded level.
	store.setQuantity(1, 15)

	if err := cmd.Undo(context.Background()); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if got := store.quantity(1); got != 10 {
		t.Errorf("expected quantity restored to 10, got %d", got)
	}

	entries := store.entries()
	last := entries[len(entries)-1]
	if last.Type != domain.MovementOut || last.Quantity != 5 {
		t.Errorf("expected restoring OUT of 5, got %s of %d", last.Type, last.Quantity)
	}
	if !last.Consistent() {
		t.Errorf("restoring entry fails the arithmetic check: %+v", last)
	}
}

func TestAdjustStock_TargetQuantity(t *testing.T) {
	store := newMockStore(testItem(10))
	cmd := NewAdjustStockCommand(store, nil, 1, 3, "Annual count", "alex")

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got := store.quantity(1); got != 3 {
		t.Errorf("expected quantity 3, got %d", got)
	}

	entries := store.entries()
	if len(entries) != 1 {
		t.Fatalf("expected a single ledger entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Type != domain.MovementAdjustment {
		t.Errorf("expected ADJUSTMENT, got %s", entry.Type)
	}
	if entry.Quantity != 7 {
		t.Errorf("expected recorded magnitude 7, got %d", entry.Quantity)
	}
	if entry.QuantityBefore != 10 || entry.QuantityAfter != 3 {
		t.Errorf("bad before/after: %d/%d", entry.QuantityBefore, entry.QuantityAfter)
	}
}

func TestAdjustStock_NegativeTarget(t *testing.T) {
	store := newMockStore(testItem(10))
	cmd := NewAdjustStockCommand(store, nil, 1, -1, "Annual count", "alex")

	if err := cmd.Execute(context.Background()); !errors.Is(err, domain.ErrNegativeTarget) {
		t.Errorf("expected ErrNegativeTarget, got: %v", err)
	}
}

func TestAdjustStock_ZeroDelta(t *testing.T) {
	store := newMockStore(testItem(10))
	cmd := NewAdjustStockCommand(store, nil, 1, 10, "Annual count", "alex")

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("adjusting to the current quantity should succeed: %v", err)
	}

	entries := store.entries()
	if len(entries) != 1 || entries[0].Quantity != 0 {
		t.Fatalf("expected a zero-magnitude ADJUSTMENT entry, got %+v", entries)
	}
}

func TestAdjustStock_UndoWritesFreshEntry(t *testing.T) {
	store := newMockStore(testItem(10))
	cmd := NewAdjustStockCommand(store, nil, 1, 25, "Annual count", "alex")

	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if err := cmd.Undo(context.Background()); err != nil {
		t.Fatalf("undo failed: %v", err)
	}

	if got := store.quantity(1); got != 10 {
		t.Errorf("expected quantity 10 after undo, got %d", got)
	}

	entries := store.entries()
	if len(entries) != 2 {
		t.Fatalf("undo must append, never edit: got %d entries", len(entries))
	}
	undoEntry := entries[1]
	if undoEntry.Type != domain.MovementAdjustment {
		t.Errorf("expected ADJUSTMENT undo entry, got %s", undoEntry.Type)
	}
	if undoEntry.QuantityBefore != 25 || undoEntry.QuantityAfter != 10 {
		t.Errorf("bad undo before/after: %d/%d", undoEntry.QuantityBefore, undoEntry.QuantityAfter)
	}
	if !strings.HasPrefix(undoEntry.Notes, UndoNotePrefix) {
		t.Errorf("undo entry should carry the undo note, got %q", undoEntry.Notes)
	}
}

func TestCommand_EmitsTransition(t *testing.T) {
	store := newMockStore(testItem(10))
	center := notification.NewCenter()

	cmd := NewRemoveStockCommand(store, center, 1, 4, "Dispensed", "alex")
	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	recent := center.Recent(0)
	if len(recent) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(recent))
	}
	event := recent[0]
	if event.PreviousQuantity != 10 || event.NewQuantity != 6 {
		t.Errorf("bad transition quantities: %d -> %d", event.PreviousQuantity, event.NewQuantity)
	}
	if event.Actor != "alex" || event.Reason != "Dispensed" {
		t.Errorf("bad transition metadata: actor=%s reason=%s", event.Actor, event.Reason)
	}
}
