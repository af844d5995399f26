package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/vendsim/internal/domain/models"
)

// Document filenames. Each is independently loadable and saveable; the only
// cross-document transaction is the day advancer's logical commit.
const (
	configDoc     = "config.json"
	inventoryDoc  = "inventory.json"
	salesDoc      = "sales.json"
	financialsDoc = "financials.json"
)

// Store persists the four simulation documents as JSON files in a data
// directory. Writes go through a temp file and rename so a crash never
// leaves a partially written document.
type Store struct {
	dir    string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewStore creates the data directory if needed and returns a store.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// EnsureDefaults writes default documents for any that do not exist yet.
func (s *Store) EnsureDefaults() error {
	defaults := map[string]any{
		configDoc:     DefaultConfig(),
		inventoryDoc:  DefaultInventory(),
		salesDoc:      DefaultSales(),
		financialsDoc: DefaultFinancials(),
	}
	for _, doc := range []string{configDoc, inventoryDoc, salesDoc, financialsDoc} {
		path := filepath.Join(s.dir, doc)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", doc, err)
		}
		if err := s.write(doc, defaults[doc]); err != nil {
			return err
		}
		s.logger.Info("seeded default document", zap.String("document", doc))
	}
	return nil
}

// Reset restores inventory, sales and financials to their defaults,
// optionally resetting the simulation config as well.
func (s *Store) Reset(resetConfig bool) error {
	if err := s.write(inventoryDoc, DefaultInventory()); err != nil {
		return err
	}
	if err := s.write(salesDoc, DefaultSales()); err != nil {
		return err
	}
	if err := s.write(financialsDoc, DefaultFinancials()); err != nil {
		return err
	}
	if resetConfig {
		if err := s.write(configDoc, DefaultConfig()); err != nil {
			return err
		}
	}
	s.logger.Info("state reset", zap.Bool("reset_config", resetConfig))
	return nil
}

// LoadConfig reads the simulation config document.
func (s *Store) LoadConfig() (*models.SimConfig, error) {
	cfg := &models.SimConfig{}
	found, err := s.read(configDoc, cfg)
	if err != nil {
		return nil, err
	}
	if !found {
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// SaveConfig durably replaces the simulation config document.
func (s *Store) SaveConfig(cfg *models.SimConfig) error {
	return s.write(configDoc, cfg)
}

// LoadInventory reads the inventory document.
func (s *Store) LoadInventory() (models.Inventory, error) {
	inv := models.Inventory{}
	found, err := s.read(inventoryDoc, &inv)
	if err != nil {
		return nil, err
	}
	if !found {
		return DefaultInventory(), nil
	}
	return inv, nil
}

// SaveInventory durably replaces the inventory document.
func (s *Store) SaveInventory(inv models.Inventory) error {
	return s.write(inventoryDoc, inv)
}

// LoadSales reads the append-only sales log.
func (s *Store) LoadSales() ([]models.SaleRecord, error) {
	var sales []models.SaleRecord
	found, err := s.read(salesDoc, &sales)
	if err != nil {
		return nil, err
	}
	if !found {
		return DefaultSales(), nil
	}
	return sales, nil
}

// SaveSales durably replaces the sales log.
func (s *Store) SaveSales(sales []models.SaleRecord) error {
	return s.write(salesDoc, sales)
}

// LoadFinancials reads the per-date financial log.
func (s *Store) LoadFinancials() (models.FinancialLog, error) {
	log := models.FinancialLog{}
	found, err := s.read(financialsDoc, &log)
	if err != nil {
		return nil, err
	}
	if !found {
		return DefaultFinancials(), nil
	}
	return log, nil
}

// SaveFinancials durably replaces the financial log.
func (s *Store) SaveFinancials(log models.FinancialLog) error {
	return s.write(financialsDoc, log)
}

// read decodes a document into out. Returns false when the file does not
// exist so callers can fall back to defaults; unparseable content surfaces
// as a CorruptStateError.
func (s *Store) read(doc string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, doc))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", doc, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, &models.CorruptStateError{Document: doc, Err: err}
	}
	return true, nil
}

// write atomically replaces a document via temp file + rename.
func (s *Store) write(doc string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", doc, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp_*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", doc, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file for %s: %w", doc, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file for %s: %w", doc, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, doc)); err != nil {
		return fmt.Errorf("replace %s: %w", doc, err)
	}
	return nil
}
