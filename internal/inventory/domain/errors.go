package domain

import "errors"

var (
	// ErrInsufficientStock is returned when a removal would drive the
	// on-hand quantity below zero
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity is returned for zero or negative command quantities
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrNegativeTarget is returned when an adjustment targets a negative quantity
	ErrNegativeTarget = errors.New("target quantity cannot be negative")

	// ErrItemNotFound is returned when no item exists for the given identifier
	ErrItemNotFound = errors.New("inventory item not found")

	// ErrInactiveItem is returned when a command targets a deactivated item
	ErrInactiveItem = errors.New("inventory item is deactivated")

	// ErrNotExecuted is returned when undo is requested on a command that
	// has not been executed
	ErrNotExecuted = errors.New("command has not been executed")

	// ErrAlreadyExecuted is returned when execute is requested twice without
	// an intervening undo
	ErrAlreadyExecuted = errors.New("command has already been executed")

	// ErrUnknownCategory is returned for categories outside the known set
	ErrUnknownCategory = errors.New("unknown item category")
)
