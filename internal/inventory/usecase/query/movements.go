package query

import (
	"context"
	"fmt"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
)

// ListMovementsQuery represents the query over the stock ledger. ItemID of
// zero means all items.
type ListMovementsQuery struct {
	ItemID uint
	Limit  int
	Offset int
}

// ListMovementsHandler handles ledger listing queries
type ListMovementsHandler struct {
	repo domain.MovementRepository
}

// NewListMovementsHandler creates a new list movements handler
func NewListMovementsHandler(repo domain.MovementRepository) *ListMovementsHandler {
	return &ListMovementsHandler{repo: repo}
}

// Handle executes the list movements query
func (h *ListMovementsHandler) Handle(ctx context.Context, q ListMovementsQuery) ([]domain.Movement, error) {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 200 {
		q.Limit = 200
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	var (
		movements []domain.Movement
		err       error
	)
	if q.ItemID != 0 {
		movements, err = h.repo.FindByItem(ctx, q.ItemID, q.Limit, q.Offset)
	} else {
		movements, err = h.repo.FindAll(ctx, q.Limit, q.Offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return movements, nil
}
