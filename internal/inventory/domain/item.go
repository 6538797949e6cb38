package domain

import (
	"fmt"
	"time"
)

// Item categories
const (
	CategoryMedicine   = "MEDICINE"
	CategorySupply     = "SUPPLY"
	CategoryEquipment  = "EQUIPMENT"
	CategoryFood       = "FOOD"
	CategorySupplement = "SUPPLEMENT"
	CategoryOther      = "OTHER"
)

// Item units
const (
	UnitPieces    = "PIECES"
	UnitBoxes     = "BOXES"
	UnitBottles   = "BOTTLES"
	UnitKilograms = "KILOGRAMS"
	UnitLiters    = "LITERS"
	UnitPacks     = "PACKS"
)

// Item represents one stock keeping unit in the clinic inventory
type Item struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	SKU           string     `json:"sku" gorm:"uniqueIndex;size:50;not null"`
	Name          string     `json:"name" gorm:"size:200;not null;index"`
	Description   string     `json:"description"`
	Category      string     `json:"category" gorm:"size:20;not null;index"`
	Unit          string     `json:"unit" gorm:"size:20;not null;default:'PIECES'"`
	UnitPrice     float64    `json:"unit_price" gorm:"not null;default:0"`
	Quantity      int        `json:"quantity" gorm:"not null;default:0;index"`
	MinimumStock  int        `json:"minimum_stock" gorm:"not null;default:10"`
	ReorderPoint  int        `json:"reorder_point" gorm:"not null;default:20"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	LastRestocked *time.Time `json:"last_restocked,omitempty"`
	IsActive      bool       `json:"is_active" gorm:"not null;default:true"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (Item) TableName() string {
	return "inventory_items"
}

// Adjust applies a signed delta to the on-hand quantity. A delta that would
// drive the quantity below zero is rejected, never clamped.
func (i *Item) Adjust(delta int) (int, error) {
	next := i.Quantity + delta
	if next < 0 {
		return i.Quantity, fmt.Errorf("%w: item %q has %d, requested change %d",
			ErrInsufficientStock, i.SKU, i.Quantity, delta)
	}
	i.Quantity = next
	return next, nil
}

// IsLowStock reports whether the quantity is at or below the minimum level
func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.MinimumStock
}

// IsOutOfStock reports whether the item has no stock left
func (i *Item) IsOutOfStock() bool {
	return i.Quantity == 0
}

// IsExpiringSoon reports whether the expiry date falls within windowDays of now.
// Already-expired items count; items with no expiry date never expire.
func (i *Item) IsExpiringSoon(windowDays int) bool {
	if i.ExpiryDate == nil {
		return false
	}
	cutoff := time.Now().AddDate(0, 0, windowDays)
	return !i.ExpiryDate.After(cutoff)
}

// TotalValue returns quantity times unit price
func (i *Item) TotalValue() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
