package providertest

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/helios-ai/arbiter/pkg/providers"
)

// StubAdapter is a scriptable in-memory adapter for race and routing tests.
// It records invocation count and whether its context was cancelled before
// the scripted delay elapsed.
type StubAdapter struct {
	Name   string
	Model  string
	Rank   int
	Delay  time.Duration
	Result *providers.Result
	Err    error
	Health providers.HealthRecord

	invocations atomic.Int64
	cancelled   atomic.Bool
}

// NewStubAdapter creates a stub that succeeds after delay with content.
func NewStubAdapter(name string, rank int, delay time.Duration, content string) *StubAdapter {
	return &StubAdapter{
		Name:  name,
		Model: name + "-model",
		Rank:  rank,
		Delay: delay,
		Result: &providers.Result{
			Content:      content,
			TokensIn:     10,
			TokensOut:    20,
			FinishReason: providers.FinishReasonStop,
		},
		Health: providers.HealthRecord{Status: providers.StatusHealthy},
	}
}

// NewFailingStub creates a stub that fails after delay with the given kind.
func NewFailingStub(name string, rank int, delay time.Duration, kind providers.ErrorKind, msg string) *StubAdapter {
	return &StubAdapter{
		Name:  name,
		Model: name + "-model",
		Rank:  rank,
		Delay: delay,
		Err: &providers.AdapterError{
			Provider: name,
			Kind:     kind,
			Message:  msg,
		},
		Health: providers.HealthRecord{Status: providers.StatusUnhealthy, LastError: msg},
	}
}

// Identity implements providers.Adapter.
func (s *StubAdapter) Identity() providers.Identity {
	return providers.Identity{Name: s.Name, Model: s.Model, PriorityRank: s.Rank}
}

// Invoke implements providers.Adapter. It waits for the scripted delay or
// context cancellation, whichever comes first.
func (s *StubAdapter) Invoke(ctx context.Context, prompt string, params providers.InvokeParams) (*providers.Result, error) {
	s.invocations.Add(1)

	timer := time.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		s.cancelled.Store(true)
		return nil, &providers.AdapterError{
			Provider: s.Name,
			Kind:     providers.KindTimeout,
			Message:  ctx.Err().Error(),
			Cause:    ctx.Err(),
		}
	case <-timer.C:
	}

	if s.Err != nil {
		return nil, s.Err
	}

	result := *s.Result
	result.Provider = s.Identity()
	result.Latency = s.Delay
	return &result, nil
}

// HealthCheck implements providers.Adapter.
func (s *StubAdapter) HealthCheck(ctx context.Context) providers.HealthRecord {
	rec := s.Health
	rec.CheckedAt = time.Now()
	rec.Model = s.Model
	return rec
}

// Close implements providers.Adapter.
func (s *StubAdapter) Close() error { return nil }

// Invocations returns how many times Invoke was called.
func (s *StubAdapter) Invocations() int {
	return int(s.invocations.Load())
}

// WasCancelled reports whether an invocation observed context cancellation.
func (s *StubAdapter) WasCancelled() bool {
	return s.cancelled.Load()
}
