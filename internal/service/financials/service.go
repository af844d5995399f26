package financials

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/vendsim/internal/domain/models"
)

// Store is the read surface the financial queries need.
type Store interface {
	LoadConfig() (*models.SimConfig, error)
	LoadSales() ([]models.SaleRecord, error)
	LoadFinancials() (models.FinancialLog, error)
}

// Service answers financial and sales-history queries from persisted state.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService wires a new financial query service instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Daily returns the financial record for the given ISO date, or for the
// latest recorded day when date is empty. ErrNotFound when absent.
func (s *Service) Daily(date string) (string, models.FinancialRecord, error) {
	log, err := s.store.LoadFinancials()
	if err != nil {
		return "", models.FinancialRecord{}, err
	}

	if date == "" {
		latest, ok := log.LatestDay()
		if !ok {
			return "", models.FinancialRecord{}, fmt.Errorf("no financial records yet: %w", models.ErrNotFound)
		}
		date = latest
	} else if _, err := models.ParseDate(date); err != nil {
		return "", models.FinancialRecord{}, &models.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	record, ok := log[date]
	if !ok {
		return "", models.FinancialRecord{}, fmt.Errorf("no financial record for %s: %w", date, models.ErrNotFound)
	}
	return date, record, nil
}

// Summary aggregates the full history.
func (s *Service) Summary() (Summary, error) {
	log, err := s.store.LoadFinancials()
	if err != nil {
		return Summary{}, err
	}
	salesLog, err := s.store.LoadSales()
	if err != nil {
		return Summary{}, err
	}
	return Summarize(log, salesLog), nil
}

// COGS returns the cumulative cost of goods sold per product.
func (s *Service) COGS() (map[string]decimal.Decimal, error) {
	salesLog, err := s.store.LoadSales()
	if err != nil {
		return nil, err
	}
	return COGSByProduct(salesLog), nil
}

// SalesFor returns the sale records for the given ISO date. An empty date
// means the last fully simulated day; an empty result is not an error.
func (s *Service) SalesFor(date string) (string, []models.SaleRecord, error) {
	if date == "" {
		cfg, err := s.store.LoadConfig()
		if err != nil {
			return "", nil, err
		}
		if cfg.Simulation.LastSimulatedDate != nil {
			date = cfg.Simulation.LastSimulatedDate.String()
		} else {
			log, err := s.store.LoadFinancials()
			if err != nil {
				return "", nil, err
			}
			latest, ok := log.LatestDay()
			if !ok {
				return "", []models.SaleRecord{}, nil
			}
			date = latest
		}
	}

	parsed, err := models.ParseDate(date)
	if err != nil {
		return "", nil, &models.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	salesLog, err := s.store.LoadSales()
	if err != nil {
		return "", nil, err
	}
	records := models.SalesFor(salesLog, parsed)
	if records == nil {
		records = []models.SaleRecord{}
	}
	return date, records, nil
}

// History returns the full sales log, ordered as generated.
func (s *Service) History() ([]models.SaleRecord, error) {
	salesLog, err := s.store.LoadSales()
	if err != nil {
		return nil, err
	}
	return salesLog, nil
}
