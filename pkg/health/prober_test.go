package health

import (
	"context"
	"testing"
	"time"

	"github.com/helios-ai/arbiter/internal/providertest"
	"github.com/helios-ai/arbiter/pkg/providers"
)

func TestProber_InitialSnapshotUnknown(t *testing.T) {
	registry, err := providers.NewRegistry(
		providertest.NewStubAdapter("openai", 1, time.Millisecond, "ok"),
		providertest.NewStubAdapter("anthropic", 2, time.Millisecond, "ok"),
	)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	prober := NewProber(registry, 0)

	snap := prober.Snapshot()
	if len(snap.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(snap.Records))
	}
	for name, rec := range snap.Records {
		if rec.Status != providers.StatusUnknown {
			t.Errorf("provider %s: expected unknown before first probe, got %s", name, rec.Status)
		}
	}
}

func TestProber_MixedResults(t *testing.T) {
	healthy := providertest.NewStubAdapter("openai", 1, time.Millisecond, "ok")
	broken := providertest.NewFailingStub("anthropic", 2, time.Millisecond, providers.KindAuth, "bad key")

	registry, err := providers.NewRegistry(healthy, broken)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	prober := NewProber(registry, time.Second)
	snap := prober.Probe(context.Background())

	if snap.StatusOf("openai") != providers.StatusHealthy {
		t.Errorf("expected openai healthy, got %s", snap.StatusOf("openai"))
	}
	if snap.StatusOf("anthropic") != providers.StatusUnhealthy {
		t.Errorf("expected anthropic unhealthy, got %s", snap.StatusOf("anthropic"))
	}
	if snap.Records["anthropic"].LastError == "" {
		t.Error("expected last error for unhealthy provider")
	}

	// The published snapshot matches the returned one.
	if got := prober.Snapshot(); got.StatusOf("openai") != providers.StatusHealthy {
		t.Errorf("published snapshot not updated")
	}
}

func TestSnapshot_UnknownProviderStatus(t *testing.T) {
	var snap Snapshot
	if snap.StatusOf("nobody") != providers.StatusUnknown {
		t.Errorf("expected unknown for unprobed provider")
	}
	if !snap.Healthy("nobody") {
		t.Error("unknown status must not count as unhealthy")
	}
}
