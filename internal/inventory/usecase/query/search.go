package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
)

// SearchQuery represents a free-text search over name, description and SKU
type SearchQuery struct {
	Text string
}

// SearchHandler handles item search queries
type SearchHandler struct {
	repo domain.ItemRepository
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(repo domain.ItemRepository) *SearchHandler {
	return &SearchHandler{repo: repo}
}

// Handle executes the search query
func (h *SearchHandler) Handle(ctx context.Context, q SearchQuery) ([]domain.Item, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, fmt.Errorf("search text is required")
	}

	items, err := h.repo.Search(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return items, nil
}

// ByCategoryQuery represents the query for items of one category
type ByCategoryQuery struct {
	Category string
}

// ByCategoryHandler handles by-category queries
type ByCategoryHandler struct {
	repo domain.ItemRepository
}

// NewByCategoryHandler creates a new by-category handler
func NewByCategoryHandler(repo domain.ItemRepository) *ByCategoryHandler {
	return &ByCategoryHandler{repo: repo}
}

// Handle executes the by-category query
func (h *ByCategoryHandler) Handle(ctx context.Context, q ByCategoryQuery) ([]domain.Item, error) {
	if _, err := domain.DefaultsFor(q.Category); err != nil {
		return nil, err
	}

	items, err := h.repo.ByCategory(ctx, q.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to query items by category: %w", err)
	}
	return items, nil
}
