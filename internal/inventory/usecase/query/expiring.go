package query

import (
	"context"
	"fmt"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
	"github.com/pawcare/stock-ledger/internal/inventory/notification"
)

// ExpiringQuery represents the query for items expiring within a window
type ExpiringQuery struct {
	WindowDays int
}

// ExpiringHandler handles expiring item queries
type ExpiringHandler struct {
	repo domain.ItemRepository
}

// NewExpiringHandler creates a new expiring handler
func NewExpiringHandler(repo domain.ItemRepository) *ExpiringHandler {
	return &ExpiringHandler{repo: repo}
}

// Handle executes the expiring query
func (h *ExpiringHandler) Handle(ctx context.Context, q ExpiringQuery) ([]domain.Item, error) {
	days := q.WindowDays
	if days <= 0 {
		days = notification.DefaultExpiryWindowDays
	}

	items, err := h.repo.ExpiringSoon(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query expiring items: %w", err)
	}
	return items, nil
}
