// Package scheduler advances every owner's rolling materialization window on
// a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/castlemilk/agenda/backend/internal/service"
	"github.com/robfig/cron/v3"
)

// DefaultSpec runs the pass daily at 03:00 server time.
const DefaultSpec = "0 3 * * *"

// runTimeout bounds one pass over all owners.
const runTimeout = 30 * time.Minute

// Runner advances all owners. *service.SchedulingService satisfies it.
type Runner interface {
	AdvanceAll(ctx context.Context) (service.RunReport, error)
}

// Scheduler manages the cron-based window advance
type Scheduler struct {
	runner  Runner
	spec    string
	cron    *cron.Cron
	logger  *slog.Logger
	mu      sync.Mutex
	running bool
}

// New creates a scheduler for runner; an empty spec means DefaultSpec.
func New(runner Runner, spec string, logger *slog.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	if logger == nil {
		logger = slog.Default()
	}
	adapter := cronLogger{logger: logger}
	return &Scheduler{
		runner: runner,
		spec:   spec,
		cron:   cron.New(cron.WithLogger(adapter), cron.WithChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter))),
		logger: logger,
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if _, err := s.cron.AddFunc(s.spec, func() {
		s.logger.Info("Starting scheduled window advance", "component", "scheduler")
		s.RunOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("adding schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("Scheduler started", "component", "scheduler", "spec", s.spec)
	return nil
}

// Stop waits for a running pass to finish and stops the loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info("Scheduler stopped", "component", "scheduler")
}

// RunOnce performs one pass immediately.
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	report, err := s.runner.AdvanceAll(ctx)
	if err != nil {
		s.logger.Error("Window advance failed", "component", "scheduler", "err", err)
		return
	}
	s.logger.Info("Window advance completed",
		"component", "scheduler",
		"owners", len(report.Owners),
		"failed", report.Failed)
}

// cronLogger routes cron's own logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, append([]interface{}{"component", "cron"}, keysAndValues...)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]interface{}{"component", "cron", "err", err}, keysAndValues...)...)
}
