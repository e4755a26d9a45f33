// Package race invokes candidate providers under a shared deadline and
// determines a deterministic winner.
//
// Single-candidate lists are invoked once. Multi-candidate lists race
// concurrently: the first successful completion wins, simultaneous
// successes observed within the tie window are broken by priority rank,
// and every losing call is cancelled. When all candidates fail, or the
// deadline elapses first, the outcome aggregates one ErrorRecord per
// candidate.
package race

import (
	"context"
	"log/slog"
	"time"

	"github.com/helios-ai/arbiter/pkg/providers"
)

// DefaultTieWindow is how long the executor keeps collecting completions
// after the first success before declaring a winner. Successes landing in
// this window are tied and the lowest priority rank wins. It is a policy
// knob, not a latency floor: single-candidate runs never wait on it.
const DefaultTieWindow = 10 * time.Millisecond

// Executor runs races over a provider registry.
type Executor struct {
	registry  *providers.Registry
	tieWindow time.Duration
	logger    *slog.Logger
}

// NewExecutor creates an executor. A zero tieWindow falls back to
// DefaultTieWindow.
func NewExecutor(registry *providers.Registry, tieWindow time.Duration) *Executor {
	if tieWindow <= 0 {
		tieWindow = DefaultTieWindow
	}
	return &Executor{
		registry:  registry,
		tieWindow: tieWindow,
		logger:    slog.Default().With("component", "race-executor"),
	}
}

// attempt is one candidate's report through the aggregation channel.
type attempt struct {
	identity providers.Identity
	result   *providers.Result
	err      error
}

// Run races the candidates against the deadline carried by ctx and
// returns the outcome. The reason string is attached to the outcome
// unmodified. Run owns every call it spawns: by the time it returns, all
// losing calls have been cancelled, and a late completion can never
// overwrite the decided outcome.
func (e *Executor) Run(ctx context.Context, candidates []providers.Identity, prompt string, params providers.InvokeParams, reason string) Outcome {
	start := time.Now()

	if len(candidates) == 0 {
		return Outcome{
			RoutingReason: reason,
			Duration:      time.Since(start),
			Errors: []ErrorRecord{{
				Kind:    providers.KindValidation,
				Message: "no candidates to run",
			}},
		}
	}

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so abandoned goroutines can always report and exit.
	results := make(chan attempt, len(candidates))
	launched := 0

	errs := make(map[string]ErrorRecord, len(candidates))

	for _, id := range candidates {
		adapter, ok := e.registry.Get(id.Name)
		if !ok {
			errs[id.Name] = ErrorRecord{
				Provider: id.Name,
				Kind:     providers.KindUnknown,
				Message:  "provider not registered",
			}
			continue
		}

		launched++
		go func(id providers.Identity, adapter providers.Adapter) {
			result, err := adapter.Invoke(raceCtx, prompt, params)
			results <- attempt{identity: id, result: result, err: err}
		}(id, adapter)
	}

	e.logger.Debug("race started",
		"candidates", len(candidates),
		"launched", launched,
		"reason", reason,
	)

	pending := launched
	for pending > 0 {
		select {
		case a := <-results:
			pending--
			if a.err != nil {
				errs[a.identity.Name] = ErrorRecord{
					Provider: a.identity.Name,
					Kind:     providers.KindOf(a.err),
					Message:  a.err.Error(),
				}
				continue
			}

			winner := e.resolveTies(raceCtx, a, results, pending)
			cancel()

			e.logger.Info("race won",
				"provider", winner.identity.Name,
				"latency", winner.result.Latency,
				"duration", time.Since(start),
			)

			return Outcome{
				Result:        winner.result,
				RoutingReason: reason,
				Duration:      time.Since(start),
			}

		case <-ctx.Done():
			// Hard deadline wall: candidates still in flight are
			// recorded as timed out, whatever they were about to do.
			cancel()
			return Outcome{
				RoutingReason: reason,
				Duration:      time.Since(start),
				Errors:        e.recordsFor(candidates, errs, true),
			}
		}
	}

	// Every candidate completed and none succeeded.
	return Outcome{
		RoutingReason: reason,
		Duration:      time.Since(start),
		Errors:        e.recordsFor(candidates, errs, false),
	}
}

// resolveTies collects further completions for one tie window after the
// first success and returns the success with the lowest priority rank.
// The window makes the winner independent of scheduling jitter between
// near-simultaneous completions.
func (e *Executor) resolveTies(ctx context.Context, first attempt, results <-chan attempt, pending int) attempt {
	winner := first
	if pending == 0 {
		return winner
	}

	timer := time.NewTimer(e.tieWindow)
	defer timer.Stop()

	for pending > 0 {
		select {
		case a := <-results:
			pending--
			if a.err == nil && a.identity.PriorityRank < winner.identity.PriorityRank {
				winner = a
			}
		case <-timer.C:
			return winner
		case <-ctx.Done():
			return winner
		}
	}
	return winner
}

// recordsFor builds the aggregate failure list, one record per candidate
// in candidate order. Candidates without a completed report are recorded
// as timeouts when the deadline elapsed.
func (e *Executor) recordsFor(candidates []providers.Identity, errs map[string]ErrorRecord, deadlineHit bool) []ErrorRecord {
	out := make([]ErrorRecord, 0, len(candidates))
	for _, id := range candidates {
		if rec, ok := errs[id.Name]; ok {
			out = append(out, rec)
			continue
		}
		msg := "provider did not complete"
		if deadlineHit {
			msg = "race deadline elapsed before completion"
		}
		out = append(out, ErrorRecord{
			Provider: id.Name,
			Kind:     providers.KindTimeout,
			Message:  msg,
		})
	}
	return out
}
