package file

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/vendsim/internal/domain/models"
)

// DefaultInventory returns the seed stock ledger for a fresh simulation.
func DefaultInventory() models.Inventory {
	return models.Inventory{
		"Coke":  {Stock: 20, CostPrice: decimal.RequireFromString("0.50"), SellPrice: decimal.RequireFromString("1.25")},
		"Chips": {Stock: 15, CostPrice: decimal.RequireFromString("0.30"), SellPrice: decimal.RequireFromString("1.00")},
		"Water": {Stock: 25, CostPrice: decimal.RequireFromString("0.20"), SellPrice: decimal.RequireFromString("1.00")},
		"Candy": {Stock: 18, CostPrice: decimal.RequireFromString("0.15"), SellPrice: decimal.RequireFromString("0.85")},
	}
}

// DefaultConfig returns the seed simulation configuration. The simulated
// clock starts at the wall-clock date of first launch.
func DefaultConfig() *models.SimConfig {
	return &models.SimConfig{
		Simulation: models.SimulationState{
			Running:     true,
			CurrentDate: models.Today(),
		},
		TickSeconds: 60,
		Supplier: models.SupplierTerms{
			LeadTimeDays: 2,
			MinOrderQty:  10,
		},
		OperatingExpenses: map[string]decimal.Decimal{
			"electricity": decimal.RequireFromString("1.0"),
			"maintenance": decimal.RequireFromString("1.0"),
		},
		SalesSimulation: models.DemandParams{
			MinSalesPerDay: 5,
			MaxSalesPerDay: 20,
			DowMultipliers: map[string]float64{
				"0": 1.0, "1": 1.0, "2": 1.05, "3": 1.05, "4": 1.1, "5": 0.9, "6": 0.85,
			},
			MaxAffordablePrice: decimal.RequireFromString("2.0"),
			PriceElasticity:    0,
			Popularity:         map[string]float64{},
		},
	}
}

// DefaultSales is the empty sales log.
func DefaultSales() []models.SaleRecord {
	return []models.SaleRecord{}
}

// DefaultFinancials is the empty financial log.
func DefaultFinancials() models.FinancialLog {
	return models.FinancialLog{}
}
