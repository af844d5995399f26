package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PendingOrder is a supplier order waiting for its delivery date.
type PendingOrder struct {
	Qty       int  `json:"qty"`
	OrderDate Date `json:"order_date"`
	ETADate   Date `json:"eta_date"`
}

// Item is a single inventory position. PendingOrders stays sorted by ETA
// ascending; stock never goes below zero.
type Item struct {
	Stock         int             `json:"stock"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellPrice     decimal.Decimal `json:"sell_price"`
	PendingOrders []PendingOrder  `json:"pending_orders"`
}

// NearestETA returns the earliest pending delivery date, or nil when no
// order is outstanding.
func (it *Item) NearestETA() *Date {
	if len(it.PendingOrders) == 0 {
		return nil
	}
	eta := it.PendingOrders[0].ETADate
	return &eta
}

// Inventory is the full stock ledger, keyed by item name.
type Inventory map[string]*Item

// RestockApplication reports one matured order folded into stock.
type RestockApplication struct {
	Item    string `json:"item"`
	Qty     int    `json:"qty"`
	ETADate Date   `json:"eta_date"`
}

// Names returns item names in sorted order for deterministic iteration.
func (inv Inventory) Names() []string {
	names := make([]string, 0, len(inv))
	for name := range inv {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlaceOrder appends a supplier order for the item and returns its ETA.
// Orders below the supplier minimum are rejected without mutation.
func (inv Inventory) PlaceOrder(item string, qty int, today Date, terms SupplierTerms) (Date, error) {
	it, ok := inv[item]
	if !ok {
		return Date{}, &UnknownItemError{Item: item}
	}
	if qty < terms.MinOrderQty {
		return Date{}, &InvalidOrderError{Qty: qty, MinQty: terms.MinOrderQty}
	}

	eta := today.AddDays(terms.LeadTimeDays)
	it.PendingOrders = append(it.PendingOrders, PendingOrder{Qty: qty, OrderDate: today, ETADate: eta})
	sort.SliceStable(it.PendingOrders, func(i, j int) bool {
		return it.PendingOrders[i].ETADate.Before(it.PendingOrders[j].ETADate)
	})
	return eta, nil
}

// ApplyRestocks folds every pending order with eta_date <= today into stock
// and removes it, processing orders in (eta, item name) order so same-day
// maturities apply deterministically. Calling it again at the same date with
// no new eligible orders is a no-op.
func (inv Inventory) ApplyRestocks(today Date) []RestockApplication {
	var applied []RestockApplication
	for _, name := range inv.Names() {
		it := inv[name]
		remaining := it.PendingOrders[:0]
		for _, order := range it.PendingOrders {
			if order.ETADate.After(today) {
				remaining = append(remaining, order)
				continue
			}
			it.Stock += order.Qty
			applied = append(applied, RestockApplication{Item: name, Qty: order.Qty, ETADate: order.ETADate})
		}
		it.PendingOrders = remaining
	}
	sort.SliceStable(applied, func(i, j int) bool {
		if !applied[i].ETADate.Equal(applied[j].ETADate) {
			return applied[i].ETADate.Before(applied[j].ETADate)
		}
		return applied[i].Item < applied[j].Item
	})
	return applied
}

// Debit removes qty units of the item's stock.
func (inv Inventory) Debit(item string, qty int) error {
	it, ok := inv[item]
	if !ok {
		return &UnknownItemError{Item: item}
	}
	if qty > it.Stock {
		return &InsufficientStockError{Item: item, Requested: qty, Available: it.Stock}
	}
	it.Stock -= qty
	return nil
}

// Clone returns a deep copy safe to mutate during a day run.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for name, it := range inv {
		copied := *it
		copied.PendingOrders = append([]PendingOrder(nil), it.PendingOrders...)
		out[name] = &copied
	}
	return out
}
