package health

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the prober on a cron schedule so the routing layer always
// sees a reasonably fresh snapshot.
type Scheduler struct {
	prober   *Prober
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a probe scheduler. The schedule uses standard cron
// syntax, e.g. "*/1 * * * *" for every minute. An empty schedule disables
// periodic probing.
func NewScheduler(prober *Prober, schedule string) *Scheduler {
	return &Scheduler{
		prober:   prober,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "health.scheduler"),
	}
}

// Start validates the schedule, runs one immediate probe, and begins
// periodic probing. Stops automatically when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("probe schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid probe schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.prober.Probe(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule probing: %w", err)
	}

	// Seed the snapshot before the first cron tick fires.
	go s.prober.Probe(ctx)

	s.cron.Start()
	s.running = true

	s.logger.Info("health probe scheduler started",
		"schedule", s.schedule,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for any running probe to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("health probe scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled probe time, or nil when idle.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
