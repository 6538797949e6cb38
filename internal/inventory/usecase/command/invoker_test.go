package command

import (
	"context"
	"strings"
	"testing"
)

func TestInvoker_UndoRedoCycle(t *testing.T) {
	store := newMockStore(testItem(10))
	inv := NewInvoker(0)

	if err := inv.ExecuteCommand(context.Background(), NewAddStockCommand(store, nil, 1, 5, "Restock", "alex")); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if err := inv.ExecuteCommand(context.Background(), NewRemoveStockCommand(store, nil, 1, 3, "Dispensed", "alex")); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got := store.quantity(1); got != 12 {
		t.Fatalf("expected quantity 12, got %d", got)
	}

	if err := inv.UndoLast(context.Background()); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if got := store.quantity(1); got != 15 {
		t.Errorf("expected quantity 15 after undoing removal, got %d", got)
	}

	if !inv.CanRedo() {
		t.Fatal("expected redo to be available after undo")
	}
	if err := inv.Redo(context.Background()); err != nil {
		t.Fatalf("redo failed: %v", err)
	}
	if got := store.quantity(1); got != 12 {
		t.Errorf("expected quantity 12 after redo, got %d", got)
	}
	if inv.CanRedo() {
		t.Error("redo should be exhausted")
	}
}

func TestInvoker_NothingToUndoOrRedo(t *testing.T) {
	inv := NewInvoker(0)

	if err := inv.UndoLast(context.Background()); err == nil {
		t.Error("expected error undoing empty history")
	}
	if err := inv.Redo(context.Background()); err == nil {
		t.Error("expected error redoing empty history")
	}
	if inv.CanUndo() || inv.CanRedo() {
		t.Error("empty invoker should report nothing to undo or redo")
	}
}

func TestInvoker_NewCommandDiscardsRedoBranch(t *testing.T) {
	store := newMockStore(testItem(10))
	inv := NewInvoker(0)

	for _, quantity := range []int{1, 2, 3} {
		if err := inv.ExecuteCommand(context.Background(), NewAddStockCommand(store, nil, 1, quantity, "Restock", "alex")); err != nil {
			t.Fatalf("execute failed: %v", err)
		}
	}

	if err := inv.UndoLast(context.Background()); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if err := inv.UndoLast(context.Background()); err != nil {
		t.Fatalf("undo failed: %v", err)
	}

	// Executing a new command abandons the two undone entries
	if err := inv.ExecuteCommand(context.Background(), NewRemoveStockCommand(store, nil, 1, 5, "Dispensed", "alex")); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if inv.CanRedo() {
		t.Error("redo branch should be discarded by a new command")
	}
	if got := inv.Len(); got != 2 {
		t.Errorf("expected history of 2, got %d", got)
	}
	if got := store.quantity(1); got != 6 {
		t.Errorf("expected quantity 6, got %d", got)
	}
}

func TestInvoker_FailedCommandLeavesHistoryAlone(t *testing.T) {
	store := newMockStore(testItem(10))
	inv := NewInvoker(0)

	if err := inv.ExecuteCommand(context.Background(), NewAddStockCommand(store, nil, 1, 5, "Restock", "alex")); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if err := inv.ExecuteCommand(context.Background(), NewRemoveStockCommand(store, nil, 1, 100, "Dispensed", "alex")); err == nil {
		t.Fatal("expected oversized removal to fail")
	}

	if got := inv.Len(); got != 1 {
		t.Errorf("failed command must not enter history: len=%d", got)
	}
	if !inv.CanUndo() {
		t.Error("prior command should still be undoable")
	}
}

func TestInvoker_HistoryBound(t *testing.T) {
	store := newMockStore(testItem(0))
	inv := NewInvoker(3)

	for i := 0; i < 5; i++ {
		if err := inv.ExecuteCommand(context.Background(), NewAddStockCommand(store, nil, 1, 1, "Restock", "alex")); err != nil {
			t.Fatalf("execute failed: %v", err)
		}
	}

	if got := inv.Len(); got != 3 {
		t.Errorf("expected history capped at 3, got %d", got)
	}

	// Only the retained commands can be undone
	for i := 0; i < 3; i++ {
		if err := inv.UndoLast(context.Background()); err != nil {
			t.Fatalf("undo %d failed: %v", i, err)
		}
	}
	if err := inv.UndoLast(context.Background()); err == nil {
		t.Error("evicted commands must not be undoable")
	}
	if got := store.quantity(1); got != 2 {
		t.Errorf("expected quantity 2 after undoing retained commands, got %d", got)
	}
}

func TestInvoker_ExecuteBatchPartialFailure(t *testing.T) {
	store := newMockStore(testItem(10))
	inv := NewInvoker(0)

	result := inv.ExecuteBatch(context.Background(), []StockCommand{
		NewAddStockCommand(store, nil, 1, 5, "Restock", "alex"),
		NewRemoveStockCommand(store, nil, 1, 100, "Dispensed", "alex"),
		NewRemoveStockCommand(store, nil, 1, 3, "Dispensed", "alex"),
	})

	if result.Total != 3 || result.Succeeded != 2 || result.Failed != 1 {
		t.Fatalf("expected 3/2/1, got %d/%d/%d", result.Total, result.Succeeded, result.Failed)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Failed to execute") {
		t.Errorf("expected one failure message, got %v", result.Errors)
	}

	// Earlier successes stick
	if got := store.quantity(1); got != 12 {
		t.Errorf("expected quantity 12, got %d", got)
	}
	if got := inv.Len(); got != 2 {
		t.Errorf("expected 2 commands in history, got %d", got)
	}
}

func TestInvoker_History(t *testing.T) {
	store := newMockStore(testItem(10))
	inv := NewInvoker(0)

	for _, quantity := range []int{1, 2, 3} {
		if err := inv.ExecuteCommand(context.Background(), NewAddStockCommand(store, nil, 1, quantity, "Restock", "alex")); err != nil {
			t.Fatalf("execute failed: %v", err)
		}
	}

	entries := inv.History(2)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Description != "Add 3 units (Reason: Restock)" {
		t.Errorf("unexpected description: %s", entries[1].Description)
	}
	if entries[1].Actor != "alex" || !entries[1].CanUndo {
		t.Errorf("unexpected entry metadata: %+v", entries[1])
	}

	inv.ClearHistory()
	if inv.Len() != 0 || inv.CanUndo() {
		t.Error("cleared invoker should have no history")
	}
}

func TestSessions_Isolation(t *testing.T) {
	sessions := NewSessions(0)

	front := sessions.Get("front-desk")
	if sessions.Get("front-desk") != front {
		t.Error("same session id should return the same invoker")
	}
	if sessions.Get("pharmacy") == front {
		t.Error("different sessions must not share an invoker")
	}
	if sessions.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", sessions.Len())
	}

	sessions.Remove("pharmacy")
	if sessions.Len() != 1 {
		t.Errorf("expected 1 session after removal, got %d", sessions.Len())
	}
}
