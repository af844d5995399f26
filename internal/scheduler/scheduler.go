package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/vendsim/internal/domain/models"
)

// DayRunner advances the simulation by one day.
type DayRunner interface {
	SimulateDay(ctx context.Context) (models.DayResult, error)
}

// Status reports the scheduler's externally visible state.
type Status struct {
	Running         bool       `json:"running"`
	IntervalSeconds int        `json:"interval_seconds"`
	NextRunTime     *time.Time `json:"next_run_time"`
}

// Scheduler drives the day advancer on a wall-clock interval. A tick that
// lands while a run is still in flight is dropped, not queued.
type Scheduler struct {
	cron   *cron.Cron
	runner DayRunner
	logger *zap.Logger

	mu       sync.Mutex
	entryID  cron.EntryID
	interval int
	running  bool
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(runner DayRunner, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		logger: logger,
	}
}

// Start begins ticking every tickSeconds. With running=false the cron loop
// still starts but no tick entry is registered, so Reconfigure can enable
// it later.
func (s *Scheduler) Start(tickSeconds int, running bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if running {
		if err := s.schedule(tickSeconds); err != nil {
			return err
		}
	}
	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.Int("tick_seconds", tickSeconds),
		zap.Bool("running", running))
	return nil
}

// Stop halts the tick loop. An in-flight run finishes on its own.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("stopping scheduler")
	s.cron.Stop()
	s.running = false
}

// Reconfigure swaps the tick interval or pauses/resumes the loop. Takes
// effect from the next scheduled tick, never retroactively.
func (s *Scheduler) Reconfigure(tickSeconds int, running bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.cron.Remove(s.entryID)
		s.running = false
	}
	if !running {
		s.logger.Info("scheduler paused")
		return nil
	}
	if err := s.schedule(tickSeconds); err != nil {
		return err
	}
	s.logger.Info("scheduler reconfigured", zap.Int("tick_seconds", tickSeconds))
	return nil
}

// Status reports whether the tick loop is active and when it fires next.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{Running: s.running, IntervalSeconds: s.interval}
	if s.running {
		next := s.cron.Entry(s.entryID).Next
		if !next.IsZero() {
			status.NextRunTime = &next
		}
	}
	return status
}

// schedule registers the tick entry; callers hold s.mu.
func (s *Scheduler) schedule(tickSeconds int) error {
	if tickSeconds <= 0 {
		return fmt.Errorf("tick interval must be positive, got %d", tickSeconds)
	}

	id, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", tickSeconds), s.tick)
	if err != nil {
		return fmt.Errorf("schedule day tick: %w", err)
	}
	s.entryID = id
	s.interval = tickSeconds
	s.running = true
	return nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := s.runner.SimulateDay(ctx)
	switch {
	case errors.Is(err, models.ErrBusy):
		// Previous run still in flight; drop this tick rather than queue.
		s.logger.Warn("tick dropped, day advance already running")
	case err != nil:
		s.logger.Error("scheduled day advance failed", zap.Error(err))
	default:
		s.logger.Info("scheduled day advanced",
			zap.String("date", result.Date.String()),
			zap.Int("sales", result.SalesCount))
	}
}
