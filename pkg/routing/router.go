// Package routing selects which providers should serve a task.
//
// Selection is a pure function of the request, the registry, and the
// health snapshot passed in. Explicit overrides are absolute; affinity
// rules pick a single best-fit provider for known task kinds; unspecified
// tasks race all registered providers by priority rank.
package routing

import (
	"log/slog"

	"github.com/helios-ai/arbiter/pkg/health"
	"github.com/helios-ai/arbiter/pkg/providers"
)

// Router maps task requests to ordered candidate lists.
type Router struct {
	registry *providers.Registry
	rules    Rules
	logger   *slog.Logger
}

// NewRouter creates a router over the registry with the given affinity
// rules. Nil rules fall back to DefaultRules.
func NewRouter(registry *providers.Registry, rules Rules) *Router {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Router{
		registry: registry,
		rules:    rules,
		logger:   slog.Default().With("component", "router"),
	}
}

// Rules returns the affinity table for observability queries.
func (r *Router) Rules() Rules {
	return r.rules
}

// Select returns the ordered candidate list for a request. The output is
// deterministic for identical request, registry, and snapshot inputs.
//
// An unknown explicit override returns *UnknownProviderError without any
// adapter being consulted.
func (r *Router) Select(req TaskRequest, snap health.Snapshot) (Decision, error) {
	if r.registry.Len() == 0 {
		return Decision{}, ErrNoProviders
	}

	// Explicit override is absolute: one candidate, no fallback, no race.
	if req.Preferred != "" && req.Preferred != AutoProvider {
		adapter, ok := r.registry.Get(req.Preferred)
		if !ok {
			return Decision{}, &UnknownProviderError{Name: req.Preferred}
		}
		return Decision{
			Candidates: []providers.Identity{adapter.Identity()},
			Reason:     ReasonExplicitOverride,
		}, nil
	}

	kind := req.TaskKind
	if req.Online {
		// Live-information requests follow the research rule.
		kind = TaskResearch
	}

	rule := r.rules.For(kind)
	if len(rule) == 0 {
		// No applicable rule: full race across the registry by rank.
		return Decision{
			Candidates: r.registry.Identities(),
			Reason:     ReasonAutoRace,
		}, nil
	}

	candidates := r.resolve(rule)
	if len(candidates) == 0 {
		r.logger.Warn("affinity rule matched no registered providers, racing all",
			"task_kind", kind,
		)
		return Decision{
			Candidates: r.registry.Identities(),
			Reason:     ReasonAutoRace,
		}, nil
	}

	// A healthy best-fit provider serves the request alone.
	if snap.Healthy(candidates[0].Name) {
		return Decision{
			Candidates: candidates[:1],
			Reason:     string(kind) + "_default",
		}, nil
	}

	// The best-fit provider is unhealthy: deprioritize it beneath the
	// healthy alternatives, never exclude it, and race the list.
	return Decision{
		Candidates: healthyFirst(candidates, snap),
		Reason:     ReasonAutoRace,
	}, nil
}

// resolve maps a rule's provider names onto registered identities,
// preserving rule order and skipping unregistered names.
func (r *Router) resolve(rule []string) []providers.Identity {
	out := make([]providers.Identity, 0, len(rule))
	for _, name := range rule {
		if adapter, ok := r.registry.Get(name); ok {
			out = append(out, adapter.Identity())
		}
	}
	return out
}

// healthyFirst stably partitions candidates so healthy (or unknown)
// providers precede unhealthy ones. Relative order within each partition
// is preserved, keeping the output deterministic.
func healthyFirst(candidates []providers.Identity, snap health.Snapshot) []providers.Identity {
	out := make([]providers.Identity, 0, len(candidates))
	for _, id := range candidates {
		if snap.Healthy(id.Name) {
			out = append(out, id)
		}
	}
	for _, id := range candidates {
		if !snap.Healthy(id.Name) {
			out = append(out, id)
		}
	}
	return out
}
