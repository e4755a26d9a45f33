package health

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/helios-ai/arbiter/pkg/providers"
)

// DefaultProbeTimeout bounds a single provider probe. It is deliberately
// smaller than, and independent of, the request-serving race deadline.
const DefaultProbeTimeout = 5 * time.Second

// Prober runs health checks across a registry and publishes snapshots.
// It is the single writer of the snapshot; any number of readers may call
// Snapshot concurrently.
type Prober struct {
	registry *providers.Registry
	timeout  time.Duration
	logger   *slog.Logger

	current atomic.Pointer[Snapshot]
}

// NewProber creates a prober over the given registry. A zero timeout
// falls back to DefaultProbeTimeout.
func NewProber(registry *providers.Registry, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	p := &Prober{
		registry: registry,
		timeout:  timeout,
		logger:   slog.Default().With("component", "health-prober"),
	}

	initial := InitialSnapshot(registry.Identities())
	p.current.Store(&initial)
	return p
}

// Snapshot returns the latest published snapshot.
func (p *Prober) Snapshot() Snapshot {
	return *p.current.Load()
}

// Probe checks every registered adapter in parallel and publishes a new
// snapshot. One provider's failure never blocks or fails another's probe;
// each probe runs under its own timeout derived from ctx.
func (p *Prober) Probe(ctx context.Context) Snapshot {
	names := p.registry.Names()
	records := make(map[string]providers.HealthRecord, len(names))

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, name := range names {
		adapter, ok := p.registry.Get(name)
		if !ok {
			continue
		}

		wg.Add(1)
		go func(name string, adapter providers.Adapter) {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()

			rec := adapter.HealthCheck(probeCtx)

			mu.Lock()
			records[name] = rec
			mu.Unlock()

			if rec.Status != providers.StatusHealthy {
				p.logger.Warn("provider probe failed",
					"provider", name,
					"status", rec.Status,
					"error", rec.LastError,
				)
			} else {
				p.logger.Debug("provider probe succeeded",
					"provider", name,
					"latency", rec.Latency,
				)
			}
		}(name, adapter)
	}

	wg.Wait()

	snap := Snapshot{Records: records, TakenAt: time.Now()}
	p.current.Store(&snap)
	return snap
}
