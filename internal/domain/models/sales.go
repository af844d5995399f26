package models

import "github.com/shopspring/decimal"

// SaleRecord is one sold lot, immutable once appended to the sales log.
// Price and unit cost are captured at generation time so later repricing
// never rewrites history.
type SaleRecord struct {
	Date     Date            `json:"date"`
	Item     string          `json:"item"`
	Qty      int             `json:"qty"`
	Price    decimal.Decimal `json:"price"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// Revenue is the record's contribution to daily revenue.
func (r SaleRecord) Revenue() decimal.Decimal {
	return r.Price.Mul(decimal.NewFromInt(int64(r.Qty)))
}

// COGS is the record's contribution to daily cost of goods sold.
func (r SaleRecord) COGS() decimal.Decimal {
	return r.UnitCost.Mul(decimal.NewFromInt(int64(r.Qty)))
}

// SalesFor filters a sales log to records for one date.
func SalesFor(log []SaleRecord, date Date) []SaleRecord {
	var out []SaleRecord
	for _, record := range log {
		if record.Date.Equal(date) {
			out = append(out, record)
		}
	}
	return out
}
