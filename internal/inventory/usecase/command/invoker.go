package command

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pawcare/stock-ledger/pkg/logger"
)

// DefaultMaxHistory bounds an invoker's undo/redo history
const DefaultMaxHistory = 100

// Invoker executes stock commands and keeps a bounded, position-tracked
// history enabling linear undo/redo. One invoker belongs to one operator
// session; the item and ledger are the only clinic-wide shared state.
type Invoker struct {
	mu         sync.Mutex
	history    []StockCommand
	maxHistory int
	cursor     int
}

// NewInvoker creates an invoker with the given history bound
func NewInvoker(maxHistory int) *Invoker {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Invoker{
		maxHistory: maxHistory,
		cursor:     -1,
	}
}

// ExecuteCommand runs the command and, on success, records it in history.
// Any redo branch left by prior undos is discarded, and the oldest entry is
// evicted once the history exceeds its bound. Domain failures come back as
// the command's error; history is untouched on failure.
func (inv *Invoker) ExecuteCommand(ctx context.Context, cmd StockCommand) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if err := cmd.Execute(ctx); err != nil {
		return err
	}

	if inv.cursor < len(inv.history)-1 {
		inv.history = inv.history[:inv.cursor+1]
	}

	inv.history = append(inv.history, cmd)
	inv.cursor++

	if len(inv.history) > inv.maxHistory {
		inv.history = inv.history[1:]
		inv.cursor--
	}

	logger.Logger.Info().
		Str("command", cmd.Description()).
		Str("actor", cmd.Actor()).
		Msg("Executed command")
	return nil
}

// UndoLast undoes the command at the cursor. On failure the history and
// cursor are left unchanged.
func (inv *Invoker) UndoLast(ctx context.Context) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if inv.cursor < 0 {
		return fmt.Errorf("nothing to undo")
	}

	cmd := inv.history[inv.cursor]
	if err := cmd.Undo(ctx); err != nil {
		return err
	}

	inv.cursor--
	logger.Logger.Info().
		Str("command", cmd.Description()).
		Msg("Undid command")
	return nil
}

// Redo re-executes the next command in history. On execution failure the
// cursor stays where it was.
func (inv *Invoker) Redo(ctx context.Context) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if inv.cursor >= len(inv.history)-1 {
		return fmt.Errorf("nothing to redo")
	}

	cmd := inv.history[inv.cursor+1]
	if err := cmd.Execute(ctx); err != nil {
		return err
	}

	inv.cursor++
	logger.Logger.Info().
		Str("command", cmd.Description()).
		Msg("Redid command")
	return nil
}

// BatchResult reports partial-failure batch execution
type BatchResult struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// ExecuteBatch executes commands sequentially, continuing past individual
// failures. Earlier successes are not rolled back: partial-failure
// semantics are explicit, not transactional.
func (inv *Invoker) ExecuteBatch(ctx context.Context, commands []StockCommand) BatchResult {
	result := BatchResult{Total: len(commands)}

	for _, cmd := range commands {
		if err := inv.ExecuteCommand(ctx, cmd); err != nil {
			result.Failed++
			result.Errors = append(result.Errors,
				fmt.Sprintf("Failed to execute: %s: %v", cmd.Description(), err))
			continue
		}
		result.Succeeded++
	}
	return result
}

// CanUndo reports whether the cursor points at an applied command
func (inv *Invoker) CanUndo() bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.cursor >= 0
}

// CanRedo reports whether an undone command is available ahead of the cursor
func (inv *Invoker) CanRedo() bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.cursor < len(inv.history)-1
}

// HistoryEntry is a read-only view of one executed command
type HistoryEntry struct {
	Description string    `json:"description"`
	Actor       string    `json:"actor"`
	CreatedAt   time.Time `json:"created_at"`
	CanUndo     bool      `json:"can_undo"`
}

// History returns up to limit of the most recent history entries
func (inv *Invoker) History(limit int) []HistoryEntry {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	history := inv.history
	if limit > 0 && limit < len(history) {
		history = history[len(history)-limit:]
	}

	entries := make([]HistoryEntry, 0, len(history))
	for _, cmd := range history {
		entries = append(entries, HistoryEntry{
			Description: cmd.Description(),
			Actor:       cmd.Actor(),
			CreatedAt:   cmd.CreatedAt(),
			CanUndo:     cmd.CanUndo(),
		})
	}
	return entries
}

// ClearHistory drops all history and resets the cursor
func (inv *Invoker) ClearHistory() {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.history = nil
	inv.cursor = -1
}

// Len returns the current history length
func (inv *Invoker) Len() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.history)
}
