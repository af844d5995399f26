package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/vendsim/internal/domain/models"
)

// Store is the persistence surface the inventory operations need.
type Store interface {
	LoadConfig() (*models.SimConfig, error)
	LoadInventory() (models.Inventory, error)
	SaveInventory(models.Inventory) error
}

// ItemView is the external read shape of one inventory position.
type ItemView struct {
	Stock         int                   `json:"stock"`
	SellPrice     decimal.Decimal       `json:"sell_price"`
	CostPrice     decimal.Decimal       `json:"cost_price"`
	PendingOrders []models.PendingOrder `json:"pending_orders"`
	NearestETA    *models.Date          `json:"nearest_eta"`
}

// Service exposes store-backed inventory operations to the request layer.
// Debits during a day run bypass this service and work on the day
// advancer's in-memory snapshot.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService wires a new inventory service instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// GetInventory returns every item with its pending orders and nearest ETA.
func (s *Service) GetInventory() (map[string]ItemView, error) {
	inv, err := s.store.LoadInventory()
	if err != nil {
		return nil, err
	}

	out := make(map[string]ItemView, len(inv))
	for name, it := range inv {
		pending := it.PendingOrders
		if pending == nil {
			pending = []models.PendingOrder{}
		}
		out[name] = ItemView{
			Stock:         it.Stock,
			SellPrice:     it.SellPrice,
			CostPrice:     it.CostPrice,
			PendingOrders: pending,
			NearestETA:    it.NearestETA(),
		}
	}
	return out, nil
}

// PlaceOrder records a supplier order against the simulated current date
// and returns the delivery ETA.
func (s *Service) PlaceOrder(item string, qty int) (models.Date, error) {
	cfg, err := s.store.LoadConfig()
	if err != nil {
		return models.Date{}, err
	}
	inv, err := s.store.LoadInventory()
	if err != nil {
		return models.Date{}, err
	}

	eta, err := inv.PlaceOrder(item, qty, cfg.Simulation.CurrentDate, cfg.Supplier)
	if err != nil {
		return models.Date{}, err
	}
	if err := s.store.SaveInventory(inv); err != nil {
		return models.Date{}, fmt.Errorf("persist order: %w", err)
	}

	s.logger.Info("supplier order placed",
		zap.String("item", item),
		zap.Int("qty", qty),
		zap.String("eta", eta.String()))
	return eta, nil
}

// ApplyRestocks folds all matured orders into stock as of the simulated
// current date and returns what was applied.
func (s *Service) ApplyRestocks() ([]models.RestockApplication, error) {
	cfg, err := s.store.LoadConfig()
	if err != nil {
		return nil, err
	}
	inv, err := s.store.LoadInventory()
	if err != nil {
		return nil, err
	}

	applied := inv.ApplyRestocks(cfg.Simulation.CurrentDate)
	if len(applied) == 0 {
		return []models.RestockApplication{}, nil
	}
	if err := s.store.SaveInventory(inv); err != nil {
		return nil, fmt.Errorf("persist restock: %w", err)
	}

	s.logger.Info("restocks applied",
		zap.String("as_of", cfg.Simulation.CurrentDate.String()),
		zap.Int("orders", len(applied)))
	return applied, nil
}

// GetPrices returns the current sell price per item.
func (s *Service) GetPrices() (map[string]decimal.Decimal, error) {
	inv, err := s.store.LoadInventory()
	if err != nil {
		return nil, err
	}
	prices := make(map[string]decimal.Decimal, len(inv))
	for name, it := range inv {
		prices[name] = it.SellPrice
	}
	return prices, nil
}

// SetPrice updates one item's sell price. Takes effect from the next
// simulated day; recorded sales keep their historical prices.
func (s *Service) SetPrice(item string, price decimal.Decimal) error {
	if price.IsNegative() {
		return &models.ValidationError{Field: "sell_price", Reason: "must not be negative"}
	}

	inv, err := s.store.LoadInventory()
	if err != nil {
		return err
	}
	it, ok := inv[item]
	if !ok {
		return &models.UnknownItemError{Item: item}
	}
	it.SellPrice = price

	if err := s.store.SaveInventory(inv); err != nil {
		return fmt.Errorf("persist price: %w", err)
	}
	s.logger.Info("price updated", zap.String("item", item), zap.String("sell_price", price.String()))
	return nil
}

// AdjustPrices bulk-updates sell prices, skipping unknown items.
func (s *Service) AdjustPrices(prices map[string]decimal.Decimal) error {
	for item, price := range prices {
		if price.IsNegative() {
			return &models.ValidationError{Field: "prices." + item, Reason: "must not be negative"}
		}
	}

	inv, err := s.store.LoadInventory()
	if err != nil {
		return err
	}
	var changed int
	for item, price := range prices {
		if it, ok := inv[item]; ok {
			it.SellPrice = price
			changed++
		}
	}
	if changed == 0 {
		return nil
	}
	if err := s.store.SaveInventory(inv); err != nil {
		return fmt.Errorf("persist prices: %w", err)
	}
	s.logger.Info("prices adjusted", zap.Int("items", changed))
	return nil
}
