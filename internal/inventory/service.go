package inventory

import (
	"context"
	"fmt"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
	"github.com/pawcare/stock-ledger/internal/inventory/notification"
	"github.com/pawcare/stock-ledger/internal/inventory/repository"
	"github.com/pawcare/stock-ledger/internal/inventory/usecase/command"
	"github.com/pawcare/stock-ledger/internal/inventory/usecase/query"
)

// CommandKind selects which stock command a request builds
type CommandKind string

// Command kinds
const (
	KindAddStock    CommandKind = "add"
	KindRemoveStock CommandKind = "remove"
	KindAdjustStock CommandKind = "adjust"
)

// ApplyRequest describes one stock mutation from a caller. Either ItemID or
// SKU identifies the target. SessionID selects the operator's undo history.
type ApplyRequest struct {
	Kind      CommandKind `json:"kind"`
	ItemID    uint        `json:"item_id,omitempty"`
	SKU       string      `json:"sku,omitempty"`
	Quantity  int         `json:"quantity"`
	Reason    string      `json:"reason"`
	Actor     string      `json:"actor"`
	SessionID string      `json:"session_id"`
}

// Result is the uniform outcome channel for commands. Domain failures
// (insufficient stock, bad quantity) and storage failures both land here;
// callers decide whether to retry.
type Result struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	Cause   error        `json:"-"`
	Item    *domain.Item `json:"item,omitempty"`
	CanUndo bool         `json:"can_undo"`
	CanRedo bool         `json:"can_redo"`
}

// Service is the stock ledger facade consumed by the web layer. All
// mutations go through reversible commands; reads never mutate.
type Service struct {
	store      domain.StockStore
	items      domain.ItemRepository
	movements  domain.MovementRepository
	center     *notification.Center
	sessions   *command.Sessions
	statsCache *repository.StatsCache

	createItem     *command.CreateItemHandler
	deactivateItem *command.DeactivateItemHandler

	getItem       *query.GetItemHandler
	listItems     *query.ListItemsHandler
	lowStock      *query.LowStockHandler
	outOfStock    *query.OutOfStockHandler
	expiring      *query.ExpiringHandler
	search        *query.SearchHandler
	byCategory    *query.ByCategoryHandler
	listMovements *query.ListMovementsHandler
	getStats      *query.GetStatsHandler
}

// NewService creates the stock service. statsCache may be nil.
func NewService(
	store domain.StockStore,
	items domain.ItemRepository,
	movements domain.MovementRepository,
	center *notification.Center,
	sessions *command.Sessions,
	statsCache *repository.StatsCache,
) *Service {
	return &Service{
		store:      store,
		items:      items,
		movements:  movements,
		center:     center,
		sessions:   sessions,
		statsCache: statsCache,

		createItem:     command.NewCreateItemHandler(items),
		deactivateItem: command.NewDeactivateItemHandler(items),

		getItem:       query.NewGetItemHandler(items),
		listItems:     query.NewListItemsHandler(items),
		lowStock:      query.NewLowStockHandler(items),
		outOfStock:    query.NewOutOfStockHandler(items),
		expiring:      query.NewExpiringHandler(items),
		search:        query.NewSearchHandler(items),
		byCategory:    query.NewByCategoryHandler(items),
		listMovements: query.NewListMovementsHandler(movements),
		getStats:      query.NewGetStatsHandler(items, movements),
	}
}

// RegisterObserver attaches a notification rule; the excluded alerting and
// email layer hooks in here
func (s *Service) RegisterObserver(rule notification.Rule) {
	s.center.Register(rule)
}

// buildCommand turns a request into a stock command
func (s *Service) buildCommand(ctx context.Context, req ApplyRequest) (command.StockCommand, error) {
	itemID := req.ItemID
	if itemID == 0 {
		if req.SKU == "" {
			return nil, fmt.Errorf("item id or sku is required")
		}
		item, err := s.items.FindBySKU(ctx, req.SKU)
		if err != nil {
			return nil, err
		}
		itemID = item.ID
	}

	switch req.Kind {
	case KindAddStock:
		return command.NewAddStockCommand(s.store, s.center, itemID, req.Quantity, req.Reason, req.Actor), nil
	case KindRemoveStock:
		return command.NewRemoveStockCommand(s.store, s.center, itemID, req.Quantity, req.Reason, req.Actor), nil
	case KindAdjustStock:
		return command.NewAdjustStockCommand(s.store, s.center, itemID, req.Quantity, req.Reason, req.Actor), nil
	default:
		return nil, fmt.Errorf("unknown command kind %q", req.Kind)
	}
}

// ApplyCommand builds and executes one stock command through the session's
// invoker
func (s *Service) ApplyCommand(ctx context.Context, req ApplyRequest) Result {
	cmd, err := s.buildCommand(ctx, req)
	if err != nil {
		return s.failure(req.SessionID, err)
	}

	invoker := s.sessions.Get(req.SessionID)
	if err := invoker.ExecuteCommand(ctx, cmd); err != nil {
		return s.failure(req.SessionID, err)
	}

	s.statsCache.Invalidate(ctx)
	return s.success(ctx, req.SessionID, cmd.Description())
}

// Undo reverses the session's most recent applied command
func (s *Service) Undo(ctx context.Context, sessionID string) Result {
	invoker := s.sessions.Get(sessionID)
	if err := invoker.UndoLast(ctx); err != nil {
		return s.failure(sessionID, err)
	}

	s.statsCache.Invalidate(ctx)
	return s.success(ctx, sessionID, "undo applied")
}

// Redo re-executes the session's most recently undone command
func (s *Service) Redo(ctx context.Context, sessionID string) Result {
	invoker := s.sessions.Get(sessionID)
	if err := invoker.Redo(ctx); err != nil {
		return s.failure(sessionID, err)
	}

	s.statsCache.Invalidate(ctx)
	return s.success(ctx, sessionID, "redo applied")
}

// ApplyBatch executes commands sequentially with partial-failure semantics
func (s *Service) ApplyBatch(ctx context.Context, sessionID string, reqs []ApplyRequest) command.BatchResult {
	commands := make([]command.StockCommand, 0, len(reqs))
	result := command.BatchResult{Total: len(reqs)}

	for _, req := range reqs {
		cmd, err := s.buildCommand(ctx, req)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to build command: %v", err))
			continue
		}
		commands = append(commands, cmd)
	}

	invoker := s.sessions.Get(sessionID)
	executed := invoker.ExecuteBatch(ctx, commands)

	result.Succeeded = executed.Succeeded
	result.Failed += executed.Failed
	result.Errors = append(result.Errors, executed.Errors...)

	if executed.Succeeded > 0 {
		s.statsCache.Invalidate(ctx)
	}
	return result
}

// History returns the session's recent command history
func (s *Service) History(sessionID string, limit int) []command.HistoryEntry {
	return s.sessions.Get(sessionID).History(limit)
}

func (s *Service) success(ctx context.Context, sessionID, message string) Result {
	invoker := s.sessions.Get(sessionID)
	return Result{
		Success: true,
		Message: message,
		CanUndo: invoker.CanUndo(),
		CanRedo: invoker.CanRedo(),
	}
}

func (s *Service) failure(sessionID string, err error) Result {
	invoker := s.sessions.Get(sessionID)
	return Result{
		Error:   err.Error(),
		Cause:   err,
		CanUndo: invoker.CanUndo(),
		CanRedo: invoker.CanRedo(),
	}
}

// CreateItem provisions a new item through the category factory
func (s *Service) CreateItem(ctx context.Context, cmd command.CreateItemCommand) (*domain.Item, error) {
	return s.createItem.Handle(ctx, cmd)
}

// DeactivateItem soft-deactivates an item
func (s *Service) DeactivateItem(ctx context.Context, id uint) error {
	return s.deactivateItem.Handle(ctx, command.DeactivateItemCommand{ItemID: id})
}

// GetItem returns one item by id or SKU
func (s *Service) GetItem(ctx context.Context, q query.GetItemQuery) (*domain.Item, error) {
	return s.getItem.Handle(ctx, q)
}

// ListItems returns a page of items
func (s *Service) ListItems(ctx context.Context, q query.ListItemsQuery) ([]domain.Item, error) {
	return s.listItems.Handle(ctx, q)
}

// QueryLowStock returns active items at or below their minimum level
func (s *Service) QueryLowStock(ctx context.Context) ([]domain.Item, error) {
	return s.lowStock.Handle(ctx)
}

// QueryOutOfStock returns active items with no stock
func (s *Service) QueryOutOfStock(ctx context.Context) ([]domain.Item, error) {
	return s.outOfStock.Handle(ctx)
}

// QueryExpiring returns items whose expiry falls within the window
func (s *Service) QueryExpiring(ctx context.Context, windowDays int) ([]domain.Item, error) {
	return s.expiring.Handle(ctx, query.ExpiringQuery{WindowDays: windowDays})
}

// SearchItems searches by name, description or SKU
func (s *Service) SearchItems(ctx context.Context, text string) ([]domain.Item, error) {
	return s.search.Handle(ctx, query.SearchQuery{Text: text})
}

// ItemsByCategory returns active items of one category
func (s *Service) ItemsByCategory(ctx context.Context, category string) ([]domain.Item, error) {
	return s.byCategory.Handle(ctx, query.ByCategoryQuery{Category: category})
}

// ListMovements pages through the stock ledger
func (s *Service) ListMovements(ctx context.Context, q query.ListMovementsQuery) ([]domain.Movement, error) {
	return s.listMovements.Handle(ctx, q)
}

// QueryStats returns the aggregate inventory statistics, served from the
// cache when a fresh snapshot is available
func (s *Service) QueryStats(ctx context.Context) (*query.InventoryStats, error) {
	if cached := s.statsCache.Get(ctx); cached != nil {
		return cached, nil
	}

	stats, err := s.getStats.Handle(ctx)
	if err != nil {
		return nil, err
	}

	s.statsCache.Set(ctx, stats)
	return stats, nil
}

// RecentTransitions returns the notification center's recent event history
func (s *Service) RecentTransitions(limit int) []domain.StockTransition {
	return s.center.Recent(limit)
}
