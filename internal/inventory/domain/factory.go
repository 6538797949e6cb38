package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CategoryDefaults carries the provisioning defaults for one item category
type CategoryDefaults struct {
	MinimumStock int
	ReorderPoint int
	SKUPrefix    string
	HasExpiry    bool
	Storage      string
}

var categoryDefaults = map[string]CategoryDefaults{
	CategoryMedicine:   {MinimumStock: 5, ReorderPoint: 10, SKUPrefix: "MED", HasExpiry: true, Storage: "Temperature controlled"},
	CategorySupply:     {MinimumStock: 20, ReorderPoint: 50, SKUPrefix: "SUP", HasExpiry: false, Storage: "Standard storage"},
	CategoryEquipment:  {MinimumStock: 1, ReorderPoint: 2, SKUPrefix: "EQP", HasExpiry: false, Storage: "Secure storage"},
	CategoryFood:       {MinimumStock: 10, ReorderPoint: 25, SKUPrefix: "FOOD", HasExpiry: true, Storage: "Dry storage"},
	CategorySupplement: {MinimumStock: 5, ReorderPoint: 15, SKUPrefix: "SUPP", HasExpiry: true, Storage: "Temperature controlled"},
	CategoryOther:      {MinimumStock: 10, ReorderPoint: 20, SKUPrefix: "OTH", HasExpiry: false, Storage: "Standard storage"},
}

// DefaultsFor returns the provisioning defaults for a category
func DefaultsFor(category string) (CategoryDefaults, error) {
	defaults, ok := categoryDefaults[category]
	if !ok {
		return CategoryDefaults{}, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	return defaults, nil
}

// ItemSpec is the caller-supplied part of a new item. Zero-valued threshold
// fields are filled from the category defaults.
type ItemSpec struct {
	Name         string
	Description  string
	SKU          string
	Category     string
	Unit         string
	UnitPrice    float64
	Quantity     int
	MinimumStock int
	ReorderPoint int
	ExpiryDate   *time.Time
}

// NewItem builds an Item from a spec, applying category defaults and
// generating a SKU when none is supplied. There is a single Item type:
// category-specific behavior lives entirely in these defaults.
func NewItem(spec ItemSpec) (*Item, error) {
	defaults, err := DefaultsFor(spec.Category)
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		return nil, fmt.Errorf("item name is required")
	}
	if spec.Quantity < 0 {
		return nil, fmt.Errorf("%w: initial quantity %d", ErrInvalidQuantity, spec.Quantity)
	}

	item := &Item{
		SKU:          spec.SKU,
		Name:         spec.Name,
		Description:  spec.Description,
		Category:     spec.Category,
		Unit:         spec.Unit,
		UnitPrice:    spec.UnitPrice,
		Quantity:     spec.Quantity,
		MinimumStock: spec.MinimumStock,
		ReorderPoint: spec.ReorderPoint,
		ExpiryDate:   spec.ExpiryDate,
		IsActive:     true,
	}

	if item.Unit == "" {
		item.Unit = UnitPieces
	}
	if item.MinimumStock == 0 {
		item.MinimumStock = defaults.MinimumStock
	}
	if item.ReorderPoint == 0 {
		item.ReorderPoint = defaults.ReorderPoint
	}
	if item.SKU == "" {
		item.SKU = generateSKU(defaults.SKUPrefix, spec.Name)
	}

	return item, nil
}

// generateSKU builds a SKU like MED-AMOX-1A2B3C from the category prefix,
// the cleaned item name, and a random suffix for uniqueness.
func generateSKU(prefix, name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= 4 {
			break
		}
	}
	clean := b.String()
	for len(clean) < 2 {
		clean += "X"
	}

	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, clean, suffix)
}
