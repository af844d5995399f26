package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// FinancialRecord is one day's balance. Profit is always exactly
// revenue - cogs - expenses.
type FinancialRecord struct {
	Revenue  decimal.Decimal `json:"revenue"`
	COGS     decimal.Decimal `json:"cogs"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// FinancialLog maps ISO dates to their records. An entry is written once
// per processed day and never mutated in place.
type FinancialLog map[string]FinancialRecord

// Dates returns the recorded dates sorted ascending. ISO date strings sort
// lexicographically in chronological order.
func (l FinancialLog) Dates() []string {
	dates := make([]string, 0, len(l))
	for date := range l {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// LatestDay returns the most recent recorded date, or false when the log
// is empty.
func (l FinancialLog) LatestDay() (string, bool) {
	dates := l.Dates()
	if len(dates) == 0 {
		return "", false
	}
	return dates[len(dates)-1], true
}

// Clone returns a copy safe to mutate during a day run.
func (l FinancialLog) Clone() FinancialLog {
	out := make(FinancialLog, len(l))
	for date, record := range l {
		out[date] = record
	}
	return out
}

// DayResult summarizes one committed day advance.
type DayResult struct {
	Date            Date                 `json:"date"`
	SalesCount      int                  `json:"sales_count"`
	DroppedDemand   int                  `json:"dropped_demand"`
	Revenue         decimal.Decimal      `json:"revenue"`
	COGS            decimal.Decimal      `json:"cogs"`
	Expenses        decimal.Decimal      `json:"expenses"`
	Profit          decimal.Decimal      `json:"profit"`
	RestocksApplied []RestockApplication `json:"restocks_applied"`
}
