package routing

import (
	"errors"
	"testing"
	"time"

	"github.com/helios-ai/arbiter/internal/providertest"
	"github.com/helios-ai/arbiter/pkg/health"
	"github.com/helios-ai/arbiter/pkg/providers"
)

func testRegistry(t *testing.T) *providers.Registry {
	t.Helper()

	registry, err := providers.NewRegistry(
		providertest.NewStubAdapter("openai", 1, time.Millisecond, "a"),
		providertest.NewStubAdapter("anthropic", 2, time.Millisecond, "b"),
		providertest.NewStubAdapter("perplexity", 3, time.Millisecond, "c"),
	)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	return registry
}

func snapshotWith(statuses map[string]providers.HealthStatus) health.Snapshot {
	records := make(map[string]providers.HealthRecord, len(statuses))
	for name, status := range statuses {
		records[name] = providers.HealthRecord{Status: status, CheckedAt: time.Now()}
	}
	return health.Snapshot{Records: records, TakenAt: time.Now()}
}

func allHealthy() health.Snapshot {
	return snapshotWith(map[string]providers.HealthStatus{
		"openai":     providers.StatusHealthy,
		"anthropic":  providers.StatusHealthy,
		"perplexity": providers.StatusHealthy,
	})
}

func candidateNames(d Decision) []string {
	names := make([]string, len(d.Candidates))
	for i, c := range d.Candidates {
		names[i] = c.Name
	}
	return names
}

func TestRouter_ExplicitOverride(t *testing.T) {
	router := NewRouter(testRegistry(t), nil)

	// Override wins even when the named provider is unhealthy.
	snap := snapshotWith(map[string]providers.HealthStatus{
		"anthropic": providers.StatusUnhealthy,
	})

	decision, err := router.Select(TaskRequest{
		TaskKind:  TaskWrite,
		Prompt:    "hello",
		Preferred: "anthropic",
	}, snap)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if len(decision.Candidates) != 1 || decision.Candidates[0].Name != "anthropic" {
		t.Errorf("expected [anthropic], got %v", candidateNames(decision))
	}
	if decision.Reason != ReasonExplicitOverride {
		t.Errorf("expected reason %q, got %q", ReasonExplicitOverride, decision.Reason)
	}
}

func TestRouter_UnknownOverride(t *testing.T) {
	router := NewRouter(testRegistry(t), nil)

	_, err := router.Select(TaskRequest{
		Prompt:    "hello",
		Preferred: "mystery-llm",
	}, allHealthy())
	if err == nil {
		t.Fatal("expected error for unknown provider, got nil")
	}

	var unknownErr *UnknownProviderError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownProviderError, got %T: %v", err, err)
	}
	if unknownErr.Name != "mystery-llm" {
		t.Errorf("expected name mystery-llm, got %s", unknownErr.Name)
	}
}

func TestRouter_AffinityHealthyHead(t *testing.T) {
	router := NewRouter(testRegistry(t), nil)

	tests := []struct {
		kind       TaskKind
		wantHead   string
		wantReason string
	}{
		{TaskResearch, "perplexity", "research_default"},
		{TaskAnalysis, "openai", "analysis_default"},
		{TaskWrite, "anthropic", "write_default"},
		{TaskReview, "anthropic", "review_default"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			decision, err := router.Select(TaskRequest{
				TaskKind: tt.kind,
				Prompt:   "hello",
			}, allHealthy())
			if err != nil {
				t.Fatalf("Select failed: %v", err)
			}

			if len(decision.Candidates) != 1 || decision.Candidates[0].Name != tt.wantHead {
				t.Errorf("expected single candidate %s, got %v", tt.wantHead, candidateNames(decision))
			}
			if decision.Reason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, decision.Reason)
			}
		})
	}
}

func TestRouter_OnlineHintUsesResearchRule(t *testing.T) {
	router := NewRouter(testRegistry(t), nil)

	decision, err := router.Select(TaskRequest{
		TaskKind: TaskWrite,
		Prompt:   "what happened today",
		Online:   true,
	}, allHealthy())
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if len(decision.Candidates) != 1 || decision.Candidates[0].Name != "perplexity" {
		t.Errorf("expected [perplexity], got %v", candidateNames(decision))
	}
	if decision.Reason != "research_default" {
		t.Errorf("expected reason research_default, got %q", decision.Reason)
	}
}

func TestRouter_UnhealthyHeadDeprioritizedNotExcluded(t *testing.T) {
	router := NewRouter(testRegistry(t), nil)

	snap := snapshotWith(map[string]providers.HealthStatus{
		"anthropic":  providers.StatusUnhealthy,
		"openai":     providers.StatusHealthy,
		"perplexity": providers.StatusHealthy,
	})

	decision, err := router.Select(TaskRequest{
		TaskKind: TaskWrite,
		Prompt:   "hello",
	}, snap)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	want := []string{"openai", "perplexity", "anthropic"}
	got := candidateNames(decision)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if decision.Reason != ReasonAutoRace {
		t.Errorf("expected reason %q, got %q", ReasonAutoRace, decision.Reason)
	}
}

func TestRouter_UnspecifiedRacesAllByRank(t *testing.T) {
	router := NewRouter(testRegistry(t), nil)

	decision, err := router.Select(TaskRequest{
		TaskKind: TaskUnspecified,
		Prompt:   "hello",
	}, allHealthy())
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	want := []string{"openai", "anthropic", "perplexity"}
	got := candidateNames(decision)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if decision.Reason != ReasonAutoRace {
		t.Errorf("expected reason %q, got %q", ReasonAutoRace, decision.Reason)
	}
}

func TestRouter_UnknownHealthCountsAsHealthy(t *testing.T) {
	router := NewRouter(testRegistry(t), nil)

	// Empty snapshot: nothing probed yet. The best-fit provider still
	// serves alone rather than being deprioritized.
	decision, err := router.Select(TaskRequest{
		TaskKind: TaskAnalysis,
		Prompt:   "hello",
	}, health.Snapshot{})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if len(decision.Candidates) != 1 || decision.Candidates[0].Name != "openai" {
		t.Errorf("expected [openai], got %v", candidateNames(decision))
	}
}

func TestRouter_Deterministic(t *testing.T) {
	router := NewRouter(testRegistry(t), nil)

	snap := snapshotWith(map[string]providers.HealthStatus{
		"anthropic": providers.StatusUnhealthy,
	})
	req := TaskRequest{TaskKind: TaskReview, Prompt: "hello"}

	first, err := router.Select(req, snap)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	for i := 0; i < 20; i++ {
		next, err := router.Select(req, snap)
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		a, b := candidateNames(first), candidateNames(next)
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("selection not deterministic: %v vs %v", a, b)
			}
		}
	}
}

func TestParseTaskKind(t *testing.T) {
	tests := []struct {
		in   string
		want TaskKind
	}{
		{"research", TaskResearch},
		{"analysis", TaskAnalysis},
		{"write", TaskWrite},
		{"review", TaskReview},
		{"", TaskUnspecified},
		{"poetry", TaskUnspecified},
	}

	for _, tt := range tests {
		if got := ParseTaskKind(tt.in); got != tt.want {
			t.Errorf("ParseTaskKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
