package notification

import (
	"time"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
	"github.com/pawcare/stock-ledger/pkg/logger"
)

// Alert kinds
const (
	AlertLowStock      = "low_stock"
	AlertStockRestored = "stock_restored"
	AlertExpiringSoon  = "expiring_soon"
)

// DefaultExpiryWindowDays is the look-ahead used when none is configured
const DefaultExpiryWindowDays = 30

// Alert is what a rule emits when it decides a transition matters
type Alert struct {
	Kind       string     `json:"kind"`
	ItemID     uint       `json:"item_id"`
	SKU        string     `json:"sku"`
	ItemName   string     `json:"item_name"`
	Quantity   int        `json:"quantity"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	Message    string     `json:"message"`
	Timestamp  time.Time  `json:"timestamp"`
}

// AlertFunc receives emitted alerts. The excluded email/SMS layer attaches
// here; the default sink just logs.
type AlertFunc func(Alert)

func logAlert(alert Alert) {
	logger.Logger.Warn().
		Str("kind", alert.Kind).
		Str("sku", alert.SKU).
		Str("item", alert.ItemName).
		Int("quantity", alert.Quantity).
		Msg(alert.Message)
}

// LowStockRule fires a low-stock alert when a transition crosses from above
// the item's minimum level to at-or-below it, and a restored alert on the
// reverse crossing. Edge-triggered: staying flat below the threshold does
// not re-alert.
type LowStockRule struct {
	alert AlertFunc
}

// NewLowStockRule creates a low stock rule with the given sink (nil logs)
func NewLowStockRule(alert AlertFunc) *LowStockRule {
	if alert == nil {
		alert = logAlert
	}
	return &LowStockRule{alert: alert}
}

func (r *LowStockRule) Name() string { return "low-stock" }

func (r *LowStockRule) OnTransition(event domain.StockTransition) error {
	wasLow := event.PreviousQuantity <= event.MinimumStock
	isLow := event.NewQuantity <= event.MinimumStock

	switch {
	case isLow && !wasLow:
		r.alert(Alert{
			Kind:      AlertLowStock,
			ItemID:    event.ItemID,
			SKU:       event.SKU,
			ItemName:  event.ItemName,
			Quantity:  event.NewQuantity,
			Message:   "Low stock: " + event.ItemName,
			Timestamp: event.Timestamp,
		})
	case !isLow && wasLow:
		r.alert(Alert{
			Kind:      AlertStockRestored,
			ItemID:    event.ItemID,
			SKU:       event.SKU,
			ItemName:  event.ItemName,
			Quantity:  event.NewQuantity,
			Message:   "Stock restored: " + event.ItemName,
			Timestamp: event.Timestamp,
		})
	}
	return nil
}

// ExpiryRule fires when the item's expiry date falls inside the look-ahead
// window at the moment of a transition. It is re-evaluated per event, not
// scheduled independently.
type ExpiryRule struct {
	WindowDays int
	alert      AlertFunc
}

// NewExpiryRule creates an expiry rule with the given window and sink
func NewExpiryRule(windowDays int, alert AlertFunc) *ExpiryRule {
	if windowDays <= 0 {
		windowDays = DefaultExpiryWindowDays
	}
	if alert == nil {
		alert = logAlert
	}
	return &ExpiryRule{WindowDays: windowDays, alert: alert}
}

func (r *ExpiryRule) Name() string { return "expiry" }

func (r *ExpiryRule) OnTransition(event domain.StockTransition) error {
	if event.ExpiryDate == nil {
		return nil
	}

	days := int(time.Until(*event.ExpiryDate).Hours() / 24)
	if days < 0 || days > r.WindowDays {
		return nil
	}

	r.alert(Alert{
		Kind:       AlertExpiringSoon,
		ItemID:     event.ItemID,
		SKU:        event.SKU,
		ItemName:   event.ItemName,
		Quantity:   event.NewQuantity,
		ExpiryDate: event.ExpiryDate,
		Message:    "Expiring soon: " + event.ItemName,
		Timestamp:  event.Timestamp,
	})
	return nil
}

// AuditRule unconditionally logs every transition for traceability
type AuditRule struct{}

// NewAuditRule creates an audit rule
func NewAuditRule() *AuditRule {
	return &AuditRule{}
}

func (r *AuditRule) Name() string { return "audit" }

func (r *AuditRule) OnTransition(event domain.StockTransition) error {
	logger.Logger.Info().
		Str("sku", event.SKU).
		Str("item", event.ItemName).
		Str("actor", event.Actor).
		Str("reason", event.Reason).
		Int("from", event.PreviousQuantity).
		Int("to", event.NewQuantity).
		Int("delta", event.Delta()).
		Msg("Stock transition")
	return nil
}
