package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SimConfig is the persisted simulation configuration document. It is
// distinct from the process-level configuration loaded from the environment.
type SimConfig struct {
	Simulation        SimulationState            `json:"simulation"`
	TickSeconds       int                        `json:"tick_seconds"`
	Supplier          SupplierTerms              `json:"supplier"`
	OperatingExpenses map[string]decimal.Decimal `json:"operating_expenses"`
	SalesSimulation   DemandParams               `json:"sales_simulation"`
}

// SimulationState tracks the simulated clock.
type SimulationState struct {
	Running           bool  `json:"running"`
	CurrentDate       Date  `json:"current_date"`
	LastSimulatedDate *Date `json:"last_simulated_date"`
}

// SupplierTerms describe restock ordering constraints.
type SupplierTerms struct {
	LeadTimeDays int `json:"lead_time_days"`
	MinOrderQty  int `json:"min_order_qty"`
}

// DemandParams parameterize the synthetic sales generator.
type DemandParams struct {
	MinSalesPerDay     int                `json:"min_sales_per_day"`
	MaxSalesPerDay     int                `json:"max_sales_per_day"`
	DowMultipliers     map[string]float64 `json:"dow_multipliers"`
	MaxAffordablePrice decimal.Decimal    `json:"max_affordable_price"`
	PriceElasticity    float64            `json:"price_elasticity"`
	Popularity         map[string]float64 `json:"popularity"`
}

// Multiplier returns the day-of-week demand multiplier for the given date,
// defaulting to 1.0 when the weekday has no configured entry.
func (p DemandParams) Multiplier(d Date) float64 {
	if mult, ok := p.DowMultipliers[fmt.Sprintf("%d", d.Weekday())]; ok {
		return mult
	}
	return 1.0
}

// Weight returns the popularity weight for an item, defaulting to 1.0.
func (p DemandParams) Weight(item string) float64 {
	if w, ok := p.Popularity[item]; ok {
		return w
	}
	return 1.0
}

// Validate checks every field invariant. Config updates are applied only
// when the merged document validates.
func (c *SimConfig) Validate() error {
	if c.Simulation.CurrentDate.IsZero() {
		return &ValidationError{Field: "simulation.current_date", Reason: "must be a valid date"}
	}
	if c.TickSeconds <= 0 {
		return &ValidationError{Field: "tick_seconds", Reason: "must be positive"}
	}
	if c.Supplier.LeadTimeDays < 0 {
		return &ValidationError{Field: "supplier.lead_time_days", Reason: "must not be negative"}
	}
	if c.Supplier.MinOrderQty < 1 {
		return &ValidationError{Field: "supplier.min_order_qty", Reason: "must be at least 1"}
	}
	for name, amount := range c.OperatingExpenses {
		if amount.IsNegative() {
			return &ValidationError{Field: "operating_expenses." + name, Reason: "must not be negative"}
		}
	}
	s := c.SalesSimulation
	if s.MinSalesPerDay < 0 {
		return &ValidationError{Field: "sales_simulation.min_sales_per_day", Reason: "must not be negative"}
	}
	if s.MaxSalesPerDay < s.MinSalesPerDay {
		return &ValidationError{Field: "sales_simulation.max_sales_per_day", Reason: "must be >= min_sales_per_day"}
	}
	for dow, mult := range s.DowMultipliers {
		if dow < "0" || dow > "6" || len(dow) != 1 {
			return &ValidationError{Field: "sales_simulation.dow_multipliers", Reason: fmt.Sprintf("unknown weekday key %q", dow)}
		}
		if mult < 0 {
			return &ValidationError{Field: "sales_simulation.dow_multipliers." + dow, Reason: "must not be negative"}
		}
	}
	if s.MaxAffordablePrice.IsNegative() {
		return &ValidationError{Field: "sales_simulation.max_affordable_price", Reason: "must not be negative"}
	}
	if s.PriceElasticity < 0 {
		return &ValidationError{Field: "sales_simulation.price_elasticity", Reason: "must not be negative"}
	}
	for item, weight := range s.Popularity {
		if weight < 0 {
			return &ValidationError{Field: "sales_simulation.popularity." + item, Reason: "must not be negative"}
		}
	}
	return nil
}

// Clone returns a deep copy safe to mutate during a day run.
func (c *SimConfig) Clone() *SimConfig {
	out := *c
	if c.Simulation.LastSimulatedDate != nil {
		last := *c.Simulation.LastSimulatedDate
		out.Simulation.LastSimulatedDate = &last
	}
	out.OperatingExpenses = make(map[string]decimal.Decimal, len(c.OperatingExpenses))
	for k, v := range c.OperatingExpenses {
		out.OperatingExpenses[k] = v
	}
	out.SalesSimulation.DowMultipliers = make(map[string]float64, len(c.SalesSimulation.DowMultipliers))
	for k, v := range c.SalesSimulation.DowMultipliers {
		out.SalesSimulation.DowMultipliers[k] = v
	}
	out.SalesSimulation.Popularity = make(map[string]float64, len(c.SalesSimulation.Popularity))
	for k, v := range c.SalesSimulation.Popularity {
		out.SalesSimulation.Popularity[k] = v
	}
	return &out
}
