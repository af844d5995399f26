package sales

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/vendsim/internal/domain/models"
)

func testParams() models.DemandParams {
	return models.DemandParams{
		MinSalesPerDay:     5,
		MaxSalesPerDay:     20,
		DowMultipliers:     map[string]float64{"0": 1.0, "1": 1.0, "2": 1.05, "3": 1.05, "4": 1.1, "5": 0.9, "6": 0.85},
		MaxAffordablePrice: decimal.RequireFromString("2.0"),
	}
}

func testInventory() models.Inventory {
	return models.Inventory{
		"Coke":  {Stock: 20, CostPrice: decimal.RequireFromString("0.50"), SellPrice: decimal.RequireFromString("1.25")},
		"Chips": {Stock: 15, CostPrice: decimal.RequireFromString("0.30"), SellPrice: decimal.RequireFromString("1.00")},
		"Water": {Stock: 25, CostPrice: decimal.RequireFromString("0.20"), SellPrice: decimal.RequireFromString("1.00")},
	}
}

func mustDate(t *testing.T, value string) models.Date {
	t.Helper()
	d, err := models.ParseDate(value)
	require.NoError(t, err)
	return d
}

func TestGenerateDeterministicUnderFixedSeed(t *testing.T) {
	date := mustDate(t, "2024-01-01")
	params := testParams()

	first := Generate(date, testInventory(), params, rand.New(rand.NewSource(42)))
	second := Generate(date, testInventory(), params, rand.New(rand.NewSource(42)))

	assert.Equal(t, first.Dropped, second.Dropped)
	require.Equal(t, len(first.Records), len(second.Records))
	for i := range first.Records {
		assert.Equal(t, first.Records[i].Item, second.Records[i].Item)
		assert.True(t, first.Records[i].Price.Equal(second.Records[i].Price))
	}
}

func TestGenerateNeverOversellsStock(t *testing.T) {
	date := mustDate(t, "2024-01-05")
	params := testParams()
	params.MinSalesPerDay = 100
	params.MaxSalesPerDay = 100

	inv := testInventory()
	preStock := map[string]int{}
	for name, it := range inv {
		preStock[name] = it.Stock
	}

	result := Generate(date, inv, params, rand.New(rand.NewSource(7)))

	sold := map[string]int{}
	for _, record := range result.Records {
		assert.Equal(t, date.String(), record.Date.String())
		sold[record.Item] += record.Qty
	}
	for name, qty := range sold {
		assert.LessOrEqual(t, qty, preStock[name])
		assert.GreaterOrEqual(t, inv[name].Stock, 0)
		assert.Equal(t, preStock[name]-qty, inv[name].Stock)
	}
}

func TestGenerateReportsDroppedDemand(t *testing.T) {
	date := mustDate(t, "2024-01-01")
	params := testParams()
	params.MinSalesPerDay = 50
	params.MaxSalesPerDay = 50

	inv := models.Inventory{
		"Coke": {Stock: 3, CostPrice: decimal.RequireFromString("0.50"), SellPrice: decimal.RequireFromString("1.25")},
	}

	result := Generate(date, inv, params, rand.New(rand.NewSource(1)))

	assert.Len(t, result.Records, 3)
	assert.Equal(t, 47, result.Dropped)
	assert.Equal(t, 0, inv["Coke"].Stock)
}

func TestGenerateRespectsAffordabilityCap(t *testing.T) {
	date := mustDate(t, "2024-01-01")
	params := testParams()

	inv := testInventory()
	inv["Caviar"] = &models.Item{
		Stock:     50,
		CostPrice: decimal.RequireFromString("40.00"),
		SellPrice: decimal.RequireFromString("99.00"),
	}

	result := Generate(date, inv, params, rand.New(rand.NewSource(3)))
	for _, record := range result.Records {
		assert.NotEqual(t, "Caviar", record.Item)
	}
	assert.Equal(t, 50, inv["Caviar"].Stock)
}

func TestGenerateSkipsZeroPopularityItems(t *testing.T) {
	date := mustDate(t, "2024-01-01")
	params := testParams()
	params.Popularity = map[string]float64{"Chips": 0}

	inv := testInventory()
	result := Generate(date, inv, params, rand.New(rand.NewSource(11)))

	for _, record := range result.Records {
		assert.NotEqual(t, "Chips", record.Item)
	}
	assert.Equal(t, 15, inv["Chips"].Stock)
}

func TestGenerateVolumeScalesWithDowMultiplier(t *testing.T) {
	params := testParams()
	params.MinSalesPerDay = 10
	params.MaxSalesPerDay = 10
	params.DowMultipliers = map[string]float64{"5": 0.5}

	// 2024-01-06 is a Saturday (weekday 5).
	saturday := Generate(mustDate(t, "2024-01-06"), testInventory(), params, rand.New(rand.NewSource(5)))
	assert.Equal(t, 5, len(saturday.Records)+saturday.Dropped)

	// Monday has no configured multiplier and defaults to 1.0.
	monday := Generate(mustDate(t, "2024-01-01"), testInventory(), params, rand.New(rand.NewSource(5)))
	assert.Equal(t, 10, len(monday.Records)+monday.Dropped)
}

func TestGenerateRecordsCapturePriceAndCost(t *testing.T) {
	date := mustDate(t, "2024-01-01")
	inv := models.Inventory{
		"Coke": {Stock: 10, CostPrice: decimal.RequireFromString("0.50"), SellPrice: decimal.RequireFromString("1.50")},
	}
	params := testParams()
	params.MinSalesPerDay = 2
	params.MaxSalesPerDay = 2

	result := Generate(date, inv, params, rand.New(rand.NewSource(9)))
	require.NotEmpty(t, result.Records)
	for _, record := range result.Records {
		assert.Equal(t, 1, record.Qty)
		assert.True(t, record.Price.Equal(decimal.RequireFromString("1.50")))
		assert.True(t, record.UnitCost.Equal(decimal.RequireFromString("0.50")))
	}
}
