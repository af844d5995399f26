package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/vendsim/internal/domain/models"
	"github.com/mamadbah2/vendsim/internal/repository/file"
)

func newTestService(t *testing.T) (*Service, *file.Store) {
	t.Helper()
	store, err := file.NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, store.EnsureDefaults())
	return NewService(store, nil), store
}

func setCurrentDate(t *testing.T, store *file.Store, value string) {
	t.Helper()
	cfg, err := store.LoadConfig()
	require.NoError(t, err)
	date, err := models.ParseDate(value)
	require.NoError(t, err)
	cfg.Simulation.CurrentDate = date
	require.NoError(t, store.SaveConfig(cfg))
}

func TestPlaceOrderPersistsAndReturnsETA(t *testing.T) {
	svc, store := newTestService(t)
	setCurrentDate(t, store, "2024-01-01")

	// Default supplier terms: lead time 2 days, minimum 10.
	eta, err := svc.PlaceOrder("Coke", 15)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", eta.String())

	inv, err := store.LoadInventory()
	require.NoError(t, err)
	require.Len(t, inv["Coke"].PendingOrders, 1)
	assert.Equal(t, 15, inv["Coke"].PendingOrders[0].Qty)
}

func TestPlaceOrderRejectionsDoNotPersist(t *testing.T) {
	svc, store := newTestService(t)
	setCurrentDate(t, store, "2024-01-01")

	_, err := svc.PlaceOrder("Coke", 5)
	var orderErr *models.InvalidOrderError
	require.ErrorAs(t, err, &orderErr)

	_, err = svc.PlaceOrder("Gum", 15)
	var unknownErr *models.UnknownItemError
	require.ErrorAs(t, err, &unknownErr)

	inv, err := store.LoadInventory()
	require.NoError(t, err)
	for name, it := range inv {
		assert.Empty(t, it.PendingOrders, "item %s", name)
	}
}

func TestApplyRestocksAgainstSimulatedDate(t *testing.T) {
	svc, store := newTestService(t)
	setCurrentDate(t, store, "2024-01-01")

	_, err := svc.PlaceOrder("Chips", 10)
	require.NoError(t, err)

	// ETA is 2024-01-03; nothing matures yet.
	applied, err := svc.ApplyRestocks()
	require.NoError(t, err)
	assert.Empty(t, applied)

	setCurrentDate(t, store, "2024-01-03")
	applied, err = svc.ApplyRestocks()
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, "Chips", applied[0].Item)

	inv, err := store.LoadInventory()
	require.NoError(t, err)
	assert.Equal(t, 25, inv["Chips"].Stock)
	assert.Empty(t, inv["Chips"].PendingOrders)
}

func TestGetInventoryExposesNearestETA(t *testing.T) {
	svc, store := newTestService(t)
	setCurrentDate(t, store, "2024-01-01")

	_, err := svc.PlaceOrder("Water", 12)
	require.NoError(t, err)

	view, err := svc.GetInventory()
	require.NoError(t, err)

	water := view["Water"]
	require.NotNil(t, water.NearestETA)
	assert.Equal(t, "2024-01-03", water.NearestETA.String())
	assert.Nil(t, view["Coke"].NearestETA)
	assert.NotNil(t, view["Coke"].PendingOrders)
}

func TestSetPrice(t *testing.T) {
	svc, store := newTestService(t)

	require.NoError(t, svc.SetPrice("Coke", decimal.RequireFromString("1.50")))

	inv, err := store.LoadInventory()
	require.NoError(t, err)
	assert.True(t, inv["Coke"].SellPrice.Equal(decimal.RequireFromString("1.50")))

	err = svc.SetPrice("Coke", decimal.RequireFromString("-0.10"))
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)

	err = svc.SetPrice("Gum", decimal.RequireFromString("1.00"))
	var unknownErr *models.UnknownItemError
	require.ErrorAs(t, err, &unknownErr)
}

func TestAdjustPricesSkipsUnknownItems(t *testing.T) {
	svc, store := newTestService(t)

	err := svc.AdjustPrices(map[string]decimal.Decimal{
		"Coke": decimal.RequireFromString("2.00"),
		"Gum":  decimal.RequireFromString("0.50"),
	})
	require.NoError(t, err)

	inv, err := store.LoadInventory()
	require.NoError(t, err)
	assert.True(t, inv["Coke"].SellPrice.Equal(decimal.RequireFromString("2.00")))
	_, exists := inv["Gum"]
	assert.False(t, exists)
}
