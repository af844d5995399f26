package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/vendsim/internal/domain/models"
	"github.com/mamadbah2/vendsim/internal/service/financials"
	"github.com/mamadbah2/vendsim/internal/service/sales"
)

// Store is the full persistence surface the day advancer needs.
type Store interface {
	LoadConfig() (*models.SimConfig, error)
	SaveConfig(*models.SimConfig) error
	LoadInventory() (models.Inventory, error)
	SaveInventory(models.Inventory) error
	LoadSales() ([]models.SaleRecord, error)
	SaveSales([]models.SaleRecord) error
	LoadFinancials() (models.FinancialLog, error)
	SaveFinancials(models.FinancialLog) error
	Reset(resetConfig bool) error
}

// Archiver archives committed day results (MongoDB when configured).
type Archiver interface {
	SaveDayResult(ctx context.Context, result models.DayResult) error
}

// Exporter exports daily financial records (Google Sheets when configured).
type Exporter interface {
	AppendDailyRecord(ctx context.Context, date models.Date, record models.FinancialRecord) error
}

// Notifier pushes committed day summaries to an external consumer.
type Notifier interface {
	NotifyDaySummary(ctx context.Context, result models.DayResult) error
}

// Integrations groups the optional post-commit consumers. Any of them may
// be nil; a committed day never depends on their success.
type Integrations struct {
	Archiver Archiver
	Exporter Exporter
	Notifier Notifier
}

// Option customizes a Service.
type Option func(*Service)

// WithRandFactory overrides the randomness source used for sale generation.
// Tests pass a fixed-seed factory for deterministic output.
func WithRandFactory(factory func() *rand.Rand) Option {
	return func(s *Service) { s.newRand = factory }
}

// Service is the day advancer. SimulateDay is single-flight: at most one
// run is in progress at any time, and a concurrent trigger is rejected
// with ErrBusy rather than queued.
type Service struct {
	store        Store
	integrations Integrations
	newRand      func() *rand.Rand
	logger       *zap.Logger

	// mu guards the whole run (and config updates/resets, which must not
	// interleave with one).
	mu sync.Mutex
}

// NewService wires a new day advancer instance.
func NewService(store Store, integrations Integrations, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:        store,
		integrations: integrations,
		newRand:      sales.NewRand,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SimulateDay advances the simulation by exactly one day: applies due
// restocks, generates the day's sales against the inventory snapshot,
// computes the financial record and persists all four documents. On any
// failure the pre-run state is restored and the error surfaced; no
// partially applied day is ever left behind.
func (s *Service) SimulateDay(ctx context.Context) (models.DayResult, error) {
	if !s.mu.TryLock() {
		return models.DayResult{}, models.ErrBusy
	}
	defer s.mu.Unlock()

	cfg, err := s.store.LoadConfig()
	if err != nil {
		return models.DayResult{}, fmt.Errorf("load config: %w", err)
	}
	invBefore, err := s.store.LoadInventory()
	if err != nil {
		return models.DayResult{}, fmt.Errorf("load inventory: %w", err)
	}
	salesBefore, err := s.store.LoadSales()
	if err != nil {
		return models.DayResult{}, fmt.Errorf("load sales: %w", err)
	}
	finBefore, err := s.store.LoadFinancials()
	if err != nil {
		return models.DayResult{}, fmt.Errorf("load financials: %w", err)
	}

	today := cfg.Simulation.CurrentDate
	if _, exists := finBefore[today.String()]; exists {
		return models.DayResult{}, fmt.Errorf("%s: %w", today, models.ErrDayAlreadyProcessed)
	}

	// All mutation happens on copies; the loaded documents stay pristine
	// for rollback.
	inv := invBefore.Clone()
	finLog := finBefore.Clone()
	cfgAfter := cfg.Clone()

	restocks := inv.ApplyRestocks(today)
	generated := sales.Generate(today, inv, cfg.SalesSimulation, s.newRand())
	record := financials.ComputeDaily(generated.Records, cfg.OperatingExpenses)

	salesAfter := append(append([]models.SaleRecord{}, salesBefore...), generated.Records...)
	finLog[today.String()] = record
	last := today
	cfgAfter.Simulation.LastSimulatedDate = &last
	cfgAfter.Simulation.CurrentDate = today.AddDays(1)

	if err := s.commit(cfgAfter, invBefore, inv, salesBefore, salesAfter, finBefore, finLog); err != nil {
		s.logger.Error("day advance aborted", zap.String("date", today.String()), zap.Error(err))
		return models.DayResult{}, err
	}

	result := models.DayResult{
		Date:            today,
		SalesCount:      countUnits(generated.Records),
		DroppedDemand:   generated.Dropped,
		Revenue:         record.Revenue,
		COGS:            record.COGS,
		Expenses:        record.Expenses,
		Profit:          record.Profit,
		RestocksApplied: restocks,
	}

	s.logger.Info("day committed",
		zap.String("date", today.String()),
		zap.Int("sales", result.SalesCount),
		zap.Int("dropped_demand", result.DroppedDemand),
		zap.String("profit", result.Profit.String()))

	s.fanOut(ctx, result, record)
	return result, nil
}

// commit persists the four documents, config last so a torn run can never
// advance the date without durable sales and financials. A failed write
// restores whatever was already written from the pre-run snapshot.
func (s *Service) commit(
	cfgAfter *models.SimConfig,
	invBefore, invAfter models.Inventory,
	salesBefore, salesAfter []models.SaleRecord,
	finBefore, finAfter models.FinancialLog,
) error {
	if err := s.store.SaveInventory(invAfter); err != nil {
		return fmt.Errorf("persist inventory: %w", err)
	}
	if err := s.store.SaveSales(salesAfter); err != nil {
		s.restore(func() error { return s.store.SaveInventory(invBefore) }, "inventory")
		return fmt.Errorf("persist sales: %w", err)
	}
	if err := s.store.SaveFinancials(finAfter); err != nil {
		s.restore(func() error { return s.store.SaveInventory(invBefore) }, "inventory")
		s.restore(func() error { return s.store.SaveSales(salesBefore) }, "sales")
		return fmt.Errorf("persist financials: %w", err)
	}
	if err := s.store.SaveConfig(cfgAfter); err != nil {
		s.restore(func() error { return s.store.SaveInventory(invBefore) }, "inventory")
		s.restore(func() error { return s.store.SaveSales(salesBefore) }, "sales")
		s.restore(func() error { return s.store.SaveFinancials(finBefore) }, "financials")
		return fmt.Errorf("persist config: %w", err)
	}
	return nil
}

func (s *Service) restore(save func() error, document string) {
	if err := save(); err != nil {
		s.logger.Error("rollback write failed, state may need manual reset",
			zap.String("document", document), zap.Error(err))
	}
}

// fanOut delivers the committed result to the optional integrations.
// Failures are logged, never surfaced: the day is already durable.
func (s *Service) fanOut(ctx context.Context, result models.DayResult, record models.FinancialRecord) {
	deadline, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if s.integrations.Archiver != nil {
		if err := s.integrations.Archiver.SaveDayResult(deadline, result); err != nil {
			s.logger.Error("failed to archive day result", zap.Error(err))
		}
	}
	if s.integrations.Exporter != nil {
		if err := s.integrations.Exporter.AppendDailyRecord(deadline, result.Date, record); err != nil {
			s.logger.Error("failed to export daily record", zap.Error(err))
		}
	}
	if s.integrations.Notifier != nil {
		if err := s.integrations.Notifier.NotifyDaySummary(deadline, result); err != nil {
			s.logger.Error("failed to send day summary", zap.Error(err))
		}
	}
}

// CurrentConfig returns the persisted simulation config.
func (s *Service) CurrentConfig() (*models.SimConfig, error) {
	return s.store.LoadConfig()
}

// allowed top-level keys of a partial config update, matching the document.
var configSections = map[string]bool{
	"simulation":         true,
	"tick_seconds":       true,
	"supplier":           true,
	"operating_expenses": true,
	"sales_simulation":   true,
}

// UpdateConfig applies a partial update of top-level config sections.
// Unknown fields are rejected; the merged document must validate before
// anything is persisted. Returns the updated config.
func (s *Service) UpdateConfig(partial map[string]json.RawMessage) (*models.SimConfig, error) {
	for key := range partial {
		if !configSections[key] {
			return nil, &models.ValidationError{Field: key, Reason: "unknown config field"}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.store.LoadConfig()
	if err != nil {
		return nil, err
	}

	for key, raw := range partial {
		var dst any
		switch key {
		case "simulation":
			dst = &cfg.Simulation
		case "tick_seconds":
			dst = &cfg.TickSeconds
		case "supplier":
			dst = &cfg.Supplier
		case "operating_expenses":
			dst = &cfg.OperatingExpenses
		case "sales_simulation":
			dst = &cfg.SalesSimulation
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, &models.ValidationError{Field: key, Reason: err.Error()}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.SaveConfig(cfg); err != nil {
		return nil, fmt.Errorf("persist config: %w", err)
	}

	s.logger.Info("config updated", zap.Int("sections", len(partial)))
	return cfg, nil
}

// Reset restores inventory, sales and financials to defaults, optionally
// the config too. Serialized against day runs.
func (s *Service) Reset(resetConfig bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Reset(resetConfig)
}

func countUnits(records []models.SaleRecord) int {
	var total int
	for _, record := range records {
		total += record.Qty
	}
	return total
}
