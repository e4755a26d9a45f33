// Package orchestrator is the single public entry point combining
// candidate selection, race execution, and health probing. External
// callers (HTTP API, CLI) talk only to this facade.
package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/helios-ai/arbiter/pkg/health"
	"github.com/helios-ai/arbiter/pkg/providers"
	"github.com/helios-ai/arbiter/pkg/race"
	"github.com/helios-ai/arbiter/pkg/routing"
	"github.com/helios-ai/arbiter/pkg/telemetry/metrics"
)

// RunSink receives finished race outcomes for persistence. Implemented
// by the history recorder; a nil sink disables recording.
type RunSink interface {
	RecordOutcome(id string, req routing.TaskRequest, outcome race.Outcome)
}

// Options configures an Orchestrator.
type Options struct {
	// Deadline is the shared race budget applied to every Ask call.
	Deadline time.Duration

	// TieWindow is passed through to the race executor.
	TieWindow time.Duration

	// Rules overrides the built-in affinity table when non-nil.
	Rules routing.Rules

	// Metrics receives race and provider instrumentation when non-nil.
	Metrics *metrics.Metrics

	// Sink receives finished outcomes when non-nil.
	Sink RunSink
}

// Orchestrator owns each request for its entire lifetime: validation,
// selection, the race, and instrumentation all happen inside Ask.
type Orchestrator struct {
	registry *providers.Registry
	executor *race.Executor
	prober   *health.Prober
	deadline time.Duration
	metrics  *metrics.Metrics
	sink     RunSink
	logger   *slog.Logger

	mu     sync.RWMutex
	router *routing.Router
}

// New creates an orchestrator over the registry and prober.
func New(registry *providers.Registry, prober *health.Prober, opts Options) *Orchestrator {
	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = 45 * time.Second
	}

	return &Orchestrator{
		registry: registry,
		executor: race.NewExecutor(registry, opts.TieWindow),
		prober:   prober,
		deadline: deadline,
		metrics:  opts.Metrics,
		sink:     opts.Sink,
		logger:   slog.Default().With("component", "orchestrator"),
		router:   routing.NewRouter(registry, opts.Rules),
	}
}

// Ask validates the request, selects candidates against the current
// health snapshot, and races them under the configured deadline. The
// outcome passes through unmodified; validation failures are returned as
// an error before any adapter is invoked.
func (o *Orchestrator) Ask(ctx context.Context, req routing.TaskRequest) (race.Outcome, error) {
	if err := validate(req); err != nil {
		return race.Outcome{}, err
	}

	decision, err := o.currentRouter().Select(req, o.prober.Snapshot())
	if err != nil {
		return race.Outcome{}, err
	}

	id := uuid.NewString()
	o.logger.Info("request accepted",
		"request_id", id,
		"task_kind", req.TaskKind,
		"candidates", len(decision.Candidates),
		"reason", decision.Reason,
	)

	raceCtx, cancel := context.WithTimeout(ctx, o.deadline)
	defer cancel()

	outcome := o.executor.Run(raceCtx, decision.Candidates, req.Prompt, providers.InvokeParams{}, decision.Reason)

	o.observe(id, req, outcome)
	return outcome, nil
}

// Health returns the latest health snapshot; when refresh is true it
// probes every provider first.
func (o *Orchestrator) Health(ctx context.Context, refresh bool) health.Snapshot {
	if refresh {
		snap := o.prober.Probe(ctx)
		o.publishHealth(snap)
		return snap
	}
	return o.prober.Snapshot()
}

// RoutingRules returns the task-to-primary-provider table for
// observability.
func (o *Orchestrator) RoutingRules() map[string]string {
	return o.currentRouter().Rules().Table()
}

// Providers returns the registered provider identities in rank order.
func (o *Orchestrator) Providers() []providers.Identity {
	return o.registry.Identities()
}

// ReloadRules swaps the affinity table. Invalid tables (naming
// unregistered providers) are rejected and the previous table stays in
// effect.
func (o *Orchestrator) ReloadRules(rules routing.Rules) error {
	if err := rules.Validate(o.registry.Has); err != nil {
		return err
	}

	o.mu.Lock()
	o.router = routing.NewRouter(o.registry, rules)
	o.mu.Unlock()

	o.logger.Info("routing rules reloaded", "rules", len(rules))
	return nil
}

func (o *Orchestrator) currentRouter() *routing.Router {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.router
}

// observe records metrics and forwards the outcome to the sink.
func (o *Orchestrator) observe(id string, req routing.TaskRequest, outcome race.Outcome) {
	if outcome.Succeeded() {
		o.logger.Info("request served",
			"request_id", id,
			"provider", outcome.Result.Provider.Name,
			"duration", outcome.Duration,
		)
	} else {
		o.logger.Warn("request failed",
			"request_id", id,
			"attempts", len(outcome.Errors),
			"duration", outcome.Duration,
		)
	}

	if o.metrics != nil {
		o.metrics.RecordRace(outcome.RoutingReason, outcome.Succeeded(), outcome.Duration)
		if outcome.Succeeded() {
			o.metrics.RecordWin(outcome.Result.Provider.Name, outcome.Result.Provider.Model, outcome.Result.Latency)
		}
		for _, rec := range outcome.Errors {
			o.metrics.RecordProviderError(rec.Provider, string(rec.Kind))
		}
	}

	if o.sink != nil {
		o.sink.RecordOutcome(id, req, outcome)
	}
}

// publishHealth reflects a fresh snapshot on the health gauges.
func (o *Orchestrator) publishHealth(snap health.Snapshot) {
	if o.metrics == nil {
		return
	}
	for name, rec := range snap.Records {
		o.metrics.UpdateHealth(name, string(rec.Status))
	}
}

// validate checks request shape before any routing happens.
func validate(req routing.TaskRequest) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return &providers.ValidationError{
			Field:   "prompt",
			Message: providers.ErrEmptyPrompt.Error(),
		}
	}
	return nil
}
