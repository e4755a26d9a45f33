package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// PrunerConfig controls retention of run records.
type PrunerConfig struct {
	// RetentionDays is how long runs are kept. Zero disables age pruning.
	RetentionDays int

	// MaxRecords caps the table size. Zero disables count pruning.
	MaxRecords int64

	// Schedule is a cron expression; empty disables scheduled pruning.
	Schedule string
}

// Pruner deletes old run records on a schedule.
type Pruner struct {
	store   Store
	config  PrunerConfig
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewPruner creates a retention pruner over the store.
func NewPruner(store Store, config PrunerConfig) *Pruner {
	return &Pruner{
		store:  store,
		config: config,
		cron:   cron.New(),
		logger: slog.Default().With("component", "history.pruner"),
	}
}

// Prune runs one retention pass immediately.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	cutoff := time.Time{}
	if p.config.RetentionDays > 0 {
		cutoff = time.Now().AddDate(0, 0, -p.config.RetentionDays)
	}
	return p.store.Prune(ctx, cutoff, p.config.MaxRecords)
}

// Start begins scheduled pruning; it stops when ctx is cancelled.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.config.Schedule == "" {
		p.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(p.config.Schedule); err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", p.config.Schedule, err)
	}

	if _, err := p.cron.AddFunc(p.config.Schedule, func() {
		deleted, err := p.Prune(ctx)
		if err != nil {
			p.logger.Error("scheduled pruning failed", "error", err)
			return
		}
		if deleted > 0 {
			p.logger.Info("scheduled pruning completed", "deleted", deleted)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	p.cron.Start()
	p.running = true

	p.logger.Info("history pruner started",
		"schedule", p.config.Schedule,
		"retention_days", p.config.RetentionDays,
		"max_records", p.config.MaxRecords,
	)

	go func() {
		<-ctx.Done()
		p.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running pass to finish.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		<-p.cron.Stop().Done()
		p.running = false
		p.logger.Info("history pruner stopped")
	}
}
