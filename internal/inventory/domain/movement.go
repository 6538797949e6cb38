package domain

import "time"

// Movement kinds
const (
	MovementIn         = "IN"
	MovementOut        = "OUT"
	MovementAdjustment = "ADJUSTMENT"
	MovementExpired    = "EXPIRED"
	MovementDamaged    = "DAMAGED"
)

// Movement is one immutable entry in the stock ledger. Entries are only ever
// appended; a reversal is a new compensating entry, never an edit.
type Movement struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ItemID         uint      `json:"item_id" gorm:"not null;index"`
	Type           string    `json:"type" gorm:"size:20;not null;index"`
	Quantity       int       `json:"quantity" gorm:"not null"`
	Reason         string    `json:"reason" gorm:"size:200"`
	QuantityBefore int       `json:"quantity_before" gorm:"not null"`
	QuantityAfter  int       `json:"quantity_after" gorm:"not null"`
	CreatedBy      string    `json:"created_by" gorm:"size:100"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Movement) TableName() string {
	return "stock_movements"
}

// Consistent reports whether the before/after quantities agree with the
// recorded delta magnitude for this movement kind.
func (m *Movement) Consistent() bool {
	if m.Quantity < 0 {
		return false
	}
	switch m.Type {
	case MovementIn:
		return m.QuantityAfter == m.QuantityBefore+m.Quantity
	case MovementOut, MovementExpired, MovementDamaged:
		return m.QuantityAfter == m.QuantityBefore-m.Quantity
	case MovementAdjustment:
		diff := m.QuantityAfter - m.QuantityBefore
		if diff < 0 {
			diff = -diff
		}
		return m.Quantity == diff
	default:
		return false
	}
}
