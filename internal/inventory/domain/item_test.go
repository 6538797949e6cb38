package domain

import (
	"errors"
	"testing"
	"time"
)

func TestAdjust_Positive(t *testing.T) {
	item := &Item{SKU: "MED-TEST-000001", Quantity: 10}

	after, err := item.Adjust(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after != 15 || item.Quantity != 15 {
		t.Errorf("expected quantity 15, got after=%d item=%d", after, item.Quantity)
	}
}

func TestAdjust_NegativeWithinStock(t *testing.T) {
	item := &Item{SKU: "MED-TEST-000001", Quantity: 10}

	after, err := item.Adjust(-10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after != 0 {
		t.Errorf("expected quantity 0, got %d", after)
	}
}

func TestAdjust_InsufficientStock(t *testing.T) {
	item := &Item{SKU: "MED-TEST-000001", Quantity: 10}

	_, err := item.Adjust(-11)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}
	if item.Quantity != 10 {
		t.Errorf("quantity changed on rejected adjust: %d", item.Quantity)
	}
}

func TestIsLowStock_Boundary(t *testing.T) {
	cases := []struct {
		quantity int
		minimum  int
		want     bool
	}{
		{11, 10, false},
		{10, 10, true},
		{9, 10, true},
		{0, 10, true},
	}

	for _, tc := range cases {
		item := &Item{Quantity: tc.quantity, MinimumStock: tc.minimum}
		if got := item.IsLowStock(); got != tc.want {
			t.Errorf("IsLowStock with quantity=%d minimum=%d: got %v, want %v",
				tc.quantity, tc.minimum, got, tc.want)
		}
	}
}

func TestIsOutOfStock(t *testing.T) {
	item := &Item{Quantity: 0}
	if !item.IsOutOfStock() {
		t.Error("expected out of stock at quantity 0")
	}
	item.Quantity = 1
	if item.IsOutOfStock() {
		t.Error("did not expect out of stock at quantity 1")
	}
}

func TestIsExpiringSoon(t *testing.T) {
	noExpiry := &Item{}
	if noExpiry.IsExpiringSoon(30) {
		t.Error("item without expiry date should never expire")
	}

	soon := time.Now().AddDate(0, 0, 7)
	inside := &Item{ExpiryDate: &soon}
	if !inside.IsExpiringSoon(30) {
		t.Error("expected item expiring in 7 days to be inside a 30-day window")
	}

	far := time.Now().AddDate(0, 0, 90)
	outside := &Item{ExpiryDate: &far}
	if outside.IsExpiringSoon(30) {
		t.Error("did not expect item expiring in 90 days inside a 30-day window")
	}

	past := time.Now().AddDate(0, 0, -3)
	expired := &Item{ExpiryDate: &past}
	if !expired.IsExpiringSoon(30) {
		t.Error("expected an already-expired item to count as expiring")
	}
}

func TestTotalValue(t *testing.T) {
	item := &Item{Quantity: 4, UnitPrice: 2.5}
	if got := item.TotalValue(); got != 10.0 {
		t.Errorf("expected total value 10.0, got %f", got)
	}
}

func TestMovementConsistent(t *testing.T) {
	cases := []struct {
		name string
		mv   Movement
		want bool
	}{
		{"in ok", Movement{Type: MovementIn, Quantity: 5, QuantityBefore: 10, QuantityAfter: 15}, true},
		{"in bad", Movement{Type: MovementIn, Quantity: 5, QuantityBefore: 10, QuantityAfter: 14}, false},
		{"out ok", Movement{Type: MovementOut, Quantity: 5, QuantityBefore: 10, QuantityAfter: 5}, true},
		{"out bad", Movement{Type: MovementOut, Quantity: 5, QuantityBefore: 10, QuantityAfter: 6}, false},
		{"expired ok", Movement{Type: MovementExpired, Quantity: 3, QuantityBefore: 3, QuantityAfter: 0}, true},
		{"damaged ok", Movement{Type: MovementDamaged, Quantity: 1, QuantityBefore: 2, QuantityAfter: 1}, true},
		{"adjustment up", Movement{Type: MovementAdjustment, Quantity: 7, QuantityBefore: 3, QuantityAfter: 10}, true},
		{"adjustment down", Movement{Type: MovementAdjustment, Quantity: 7, QuantityBefore: 10, QuantityAfter: 3}, true},
		{"adjustment zero", Movement{Type: MovementAdjustment, Quantity: 0, QuantityBefore: 10, QuantityAfter: 10}, true},
		{"adjustment bad", Movement{Type: MovementAdjustment, Quantity: 6, QuantityBefore: 10, QuantityAfter: 3}, false},
		{"negative quantity", Movement{Type: MovementIn, Quantity: -5, QuantityBefore: 10, QuantityAfter: 5}, false},
		{"unknown kind", Movement{Type: "TRANSFER", Quantity: 1, QuantityBefore: 1, QuantityAfter: 2}, false},
	}

	for _, tc := range cases {
		if got := tc.mv.Consistent(); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
