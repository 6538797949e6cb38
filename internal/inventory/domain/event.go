package domain

import "time"

// StockTransition describes one before/after quantity change on an item.
// It is emitted exactly once per successful command execute or undo and
// carries everything notification rules need, so rules never touch storage.
type StockTransition struct {
	ItemID           uint       `json:"item_id"`
	SKU              string     `json:"sku"`
	ItemName         string     `json:"item_name"`
	PreviousQuantity int        `json:"previous_quantity"`
	NewQuantity      int        `json:"new_quantity"`
	MinimumStock     int        `json:"minimum_stock"`
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
	Actor            string     `json:"actor"`
	Reason           string     `json:"reason"`
	Timestamp        time.Time  `json:"timestamp"`
}

// Delta returns the signed quantity change
func (t StockTransition) Delta() int {
	return t.NewQuantity - t.PreviousQuantity
}
