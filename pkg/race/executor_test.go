package race

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/helios-ai/arbiter/internal/providertest"
	"github.com/helios-ai/arbiter/pkg/providers"
)

func buildRegistry(t *testing.T, adapters ...providers.Adapter) *providers.Registry {
	t.Helper()

	registry, err := providers.NewRegistry(adapters...)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	return registry
}

func identities(adapters ...providers.Adapter) []providers.Identity {
	ids := make([]providers.Identity, len(adapters))
	for i, a := range adapters {
		ids[i] = a.Identity()
	}
	return ids
}

func TestExecutor_SingleCandidateSuccess(t *testing.T) {
	stub := providertest.NewStubAdapter("anthropic", 2, 5*time.Millisecond, "drafted")
	executor := NewExecutor(buildRegistry(t, stub), 0)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	outcome := executor.Run(ctx, identities(stub), "write it", providers.InvokeParams{}, "write_default")
	if !outcome.Succeeded() {
		t.Fatalf("expected success, got errors %v", outcome.Errors)
	}
	if outcome.Result.Content != "drafted" {
		t.Errorf("expected content drafted, got %q", outcome.Result.Content)
	}
	if outcome.RoutingReason != "write_default" {
		t.Errorf("expected reason write_default, got %q", outcome.RoutingReason)
	}
	if stub.Invocations() != 1 {
		t.Errorf("expected 1 invocation, got %d", stub.Invocations())
	}
}

func TestExecutor_SingleCandidateFailure(t *testing.T) {
	stub := providertest.NewFailingStub("openai", 1, time.Millisecond, providers.KindAuth, "invalid key")
	executor := NewExecutor(buildRegistry(t, stub), 0)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	outcome := executor.Run(ctx, identities(stub), "hello", providers.InvokeParams{}, "explicit_override")
	if outcome.Succeeded() {
		t.Fatal("expected failure, got success")
	}
	if len(outcome.Errors) != 1 {
		t.Fatalf("expected 1 error record, got %d", len(outcome.Errors))
	}
	rec := outcome.Errors[0]
	if rec.Provider != "openai" || rec.Kind != providers.KindAuth {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestExecutor_FirstSuccessWins(t *testing.T) {
	slow := providertest.NewStubAdapter("openai", 1, 80*time.Millisecond, "slow answer")
	fast := providertest.NewStubAdapter("anthropic", 2, 10*time.Millisecond, "fast answer")
	stuck := providertest.NewStubAdapter("perplexity", 3, 10*time.Second, "never")

	executor := NewExecutor(buildRegistry(t, slow, fast, stuck), 0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	outcome := executor.Run(ctx, identities(slow, fast, stuck), "hello", providers.InvokeParams{}, "auto_race")
	if !outcome.Succeeded() {
		t.Fatalf("expected success, got errors %v", outcome.Errors)
	}
	if outcome.Result.Provider.Name != "anthropic" {
		t.Errorf("expected winner anthropic, got %s", outcome.Result.Provider.Name)
	}

	// Losers must observe cancellation rather than run to completion.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if slow.WasCancelled() && stuck.WasCancelled() {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !slow.WasCancelled() {
		t.Error("expected slow adapter to observe cancellation")
	}
	if !stuck.WasCancelled() {
		t.Error("expected stuck adapter to observe cancellation")
	}
}

func TestExecutor_DeterministicTieBreak(t *testing.T) {
	// Same scripted latency, different rank. The lower rank must win on
	// every run regardless of goroutine scheduling.
	for i := 0; i < 20; i++ {
		high := providertest.NewStubAdapter("anthropic", 2, 20*time.Millisecond, "rank two")
		low := providertest.NewStubAdapter("openai", 1, 20*time.Millisecond, "rank one")

		executor := NewExecutor(buildRegistry(t, high, low), 50*time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		outcome := executor.Run(ctx, identities(high, low), "hello", providers.InvokeParams{}, "auto_race")
		cancel()

		if !outcome.Succeeded() {
			t.Fatalf("run %d: expected success, got errors %v", i, outcome.Errors)
		}
		if outcome.Result.Provider.Name != "openai" {
			t.Fatalf("run %d: expected openai to win tie, got %s", i, outcome.Result.Provider.Name)
		}
	}
}

func TestExecutor_AllFailAggregation(t *testing.T) {
	a := providertest.NewFailingStub("openai", 1, time.Millisecond, providers.KindAuth, "bad key")
	b := providertest.NewFailingStub("anthropic", 2, time.Millisecond, providers.KindAuth, "bad key")
	c := providertest.NewFailingStub("perplexity", 3, time.Millisecond, providers.KindAuth, "bad key")

	executor := NewExecutor(buildRegistry(t, a, b, c), 0)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	outcome := executor.Run(ctx, identities(a, b, c), "hello", providers.InvokeParams{}, "auto_race")
	if outcome.Succeeded() {
		t.Fatal("expected failure, got success")
	}
	if len(outcome.Errors) != 3 {
		t.Fatalf("expected 3 error records, got %d", len(outcome.Errors))
	}

	seen := make(map[string]bool)
	for _, rec := range outcome.Errors {
		if rec.Kind != providers.KindAuth {
			t.Errorf("provider %s: expected kind %q, got %q", rec.Provider, providers.KindAuth, rec.Kind)
		}
		seen[rec.Provider] = true
	}
	for _, name := range []string{"openai", "anthropic", "perplexity"} {
		if !seen[name] {
			t.Errorf("missing error record for %s", name)
		}
	}
}

func TestExecutor_DeadlineEnforced(t *testing.T) {
	a := providertest.NewStubAdapter("openai", 1, 500*time.Millisecond, "late")
	b := providertest.NewStubAdapter("anthropic", 2, 500*time.Millisecond, "late")
	c := providertest.NewStubAdapter("perplexity", 3, 500*time.Millisecond, "late")

	executor := NewExecutor(buildRegistry(t, a, b, c), 0)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	outcome := executor.Run(ctx, identities(a, b, c), "hello", providers.InvokeParams{}, "auto_race")
	elapsed := time.Since(start)

	if outcome.Succeeded() {
		t.Fatal("expected failure, got success")
	}
	if elapsed > 300*time.Millisecond {
		t.Errorf("deadline not enforced: race took %s", elapsed)
	}
	if len(outcome.Errors) != 3 {
		t.Fatalf("expected 3 error records, got %d", len(outcome.Errors))
	}
	for _, rec := range outcome.Errors {
		if rec.Kind != providers.KindTimeout {
			t.Errorf("provider %s: expected kind %q, got %q", rec.Provider, providers.KindTimeout, rec.Kind)
		}
	}
}

func TestExecutor_PartialFailureStillWins(t *testing.T) {
	failing := providertest.NewFailingStub("openai", 1, time.Millisecond, providers.KindRateLimit, "throttled")
	working := providertest.NewStubAdapter("anthropic", 2, 20*time.Millisecond, "recovered")

	executor := NewExecutor(buildRegistry(t, failing, working), 0)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	outcome := executor.Run(ctx, identities(failing, working), "hello", providers.InvokeParams{}, "auto_race")
	if !outcome.Succeeded() {
		t.Fatalf("expected success from surviving candidate, got errors %v", outcome.Errors)
	}
	if outcome.Result.Provider.Name != "anthropic" {
		t.Errorf("expected anthropic to win, got %s", outcome.Result.Provider.Name)
	}
}

func TestExecutor_NoSecretInRecords(t *testing.T) {
	const secret = "sk-super-secret"

	stub := providertest.NewFailingStub("openai", 1, time.Millisecond, providers.KindAuth, "credentials rejected")
	executor := NewExecutor(buildRegistry(t, stub), 0)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	outcome := executor.Run(ctx, identities(stub), "hello", providers.InvokeParams{}, "explicit_override")
	for _, rec := range outcome.Errors {
		if strings.Contains(rec.Message, secret) {
			t.Errorf("secret leaked into error record: %q", rec.Message)
		}
	}
}

func TestExecutor_NoCandidates(t *testing.T) {
	stub := providertest.NewStubAdapter("openai", 1, time.Millisecond, "unused")
	executor := NewExecutor(buildRegistry(t, stub), 0)

	outcome := executor.Run(context.Background(), nil, "hello", providers.InvokeParams{}, "auto_race")
	if outcome.Succeeded() {
		t.Fatal("expected failure for empty candidate list")
	}
	if len(outcome.Errors) != 1 || outcome.Errors[0].Kind != providers.KindValidation {
		t.Errorf("unexpected errors: %v", outcome.Errors)
	}
	if stub.Invocations() != 0 {
		t.Errorf("expected no invocations, got %d", stub.Invocations())
	}
}
