package models

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a day advance is requested while another run is
// already in flight. Concurrent runs are rejected, never queued.
var ErrBusy = errors.New("day advance already in flight")

// ErrNotFound is returned by lookups for dates or items with no record.
var ErrNotFound = errors.New("not found")

// ErrDayAlreadyProcessed is returned when a day advance targets a date that
// already has a financial record. The run aborts before mutating anything.
var ErrDayAlreadyProcessed = errors.New("date already has a financial record")

// UnknownItemError marks a reference to an item absent from the inventory.
type UnknownItemError struct {
	Item string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown item %q", e.Item)
}

// InvalidOrderError marks a supplier order below the minimum order quantity.
type InvalidOrderError struct {
	Qty    int
	MinQty int
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("order qty %d below supplier minimum %d", e.Qty, e.MinQty)
}

// InsufficientStockError marks a debit exceeding an item's current stock.
// The sales generator clamps demand instead of surfacing this to callers.
type InsufficientStockError struct {
	Item      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.Item, e.Requested, e.Available)
}

// CorruptStateError marks a persisted document that could not be decoded.
// Callers decide whether to reset or abort.
type CorruptStateError struct {
	Document string
	Err      error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt state document %s: %v", e.Document, e.Err)
}

func (e *CorruptStateError) Unwrap() error { return e.Err }

// ValidationError marks a rejected config or price input. State is never
// mutated when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
