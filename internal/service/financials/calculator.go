package financials

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/vendsim/internal/domain/models"
)

// ComputeDaily turns one day's sales and the configured operating expenses
// into a financial record. All arithmetic is decimal-exact, so
// profit == revenue - cogs - expenses holds to the digit.
func ComputeDaily(sales []models.SaleRecord, expensesCfg map[string]decimal.Decimal) models.FinancialRecord {
	revenue := decimal.Zero
	cogs := decimal.Zero
	for _, sale := range sales {
		revenue = revenue.Add(sale.Revenue())
		cogs = cogs.Add(sale.COGS())
	}

	expenses := decimal.Zero
	for _, amount := range expensesCfg {
		expenses = expenses.Add(amount)
	}

	return models.FinancialRecord{
		Revenue:  revenue,
		COGS:     cogs,
		Expenses: expenses,
		Profit:   revenue.Sub(cogs).Sub(expenses),
	}
}

// DailyEntry pairs a date with its record for sorted summary output.
type DailyEntry struct {
	Date   string                 `json:"date"`
	Record models.FinancialRecord `json:"record"`
}

// ProductTotals aggregates the sales history for one product.
type ProductTotals struct {
	Units   int             `json:"units"`
	Revenue decimal.Decimal `json:"revenue"`
	COGS    decimal.Decimal `json:"cogs"`
}

// Summary aggregates the full financial history.
type Summary struct {
	Total      models.FinancialRecord   `json:"total"`
	PerDay     []DailyEntry             `json:"per_day"`
	PerProduct map[string]ProductTotals `json:"per_product"`
}

// Summarize totals the financial log (dates ascending for reproducible
// output) and breaks the sales history down per product.
func Summarize(log models.FinancialLog, salesLog []models.SaleRecord) Summary {
	summary := Summary{
		Total: models.FinancialRecord{
			Revenue:  decimal.Zero,
			COGS:     decimal.Zero,
			Expenses: decimal.Zero,
			Profit:   decimal.Zero,
		},
		PerProduct: map[string]ProductTotals{},
	}

	for _, date := range log.Dates() {
		record := log[date]
		summary.PerDay = append(summary.PerDay, DailyEntry{Date: date, Record: record})
		summary.Total.Revenue = summary.Total.Revenue.Add(record.Revenue)
		summary.Total.COGS = summary.Total.COGS.Add(record.COGS)
		summary.Total.Expenses = summary.Total.Expenses.Add(record.Expenses)
		summary.Total.Profit = summary.Total.Profit.Add(record.Profit)
	}

	for _, sale := range salesLog {
		totals, ok := summary.PerProduct[sale.Item]
		if !ok {
			totals = ProductTotals{Revenue: decimal.Zero, COGS: decimal.Zero}
		}
		totals.Units += sale.Qty
		totals.Revenue = totals.Revenue.Add(sale.Revenue())
		totals.COGS = totals.COGS.Add(sale.COGS())
		summary.PerProduct[sale.Item] = totals
	}

	return summary
}

// COGSByProduct returns each product's cumulative cost of goods sold.
func COGSByProduct(salesLog []models.SaleRecord) map[string]decimal.Decimal {
	out := map[string]decimal.Decimal{}
	for _, sale := range salesLog {
		current, ok := out[sale.Item]
		if !ok {
			current = decimal.Zero
		}
		out[sale.Item] = current.Add(sale.COGS())
	}
	return out
}
