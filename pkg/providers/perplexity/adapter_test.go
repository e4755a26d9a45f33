package perplexity

import (
	"context"
	"testing"
	"time"

	"github.com/helios-ai/arbiter/internal/providertest"
	"github.com/helios-ai/arbiter/pkg/providers"
)

func TestPerplexityAdapter_Defaults(t *testing.T) {
	adapter, err := NewAdapter(providers.Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}
	defer adapter.Close()

	id := adapter.Identity()
	if id.Name != "perplexity" {
		t.Errorf("expected name perplexity, got %s", id.Name)
	}
	if id.Model != DefaultModel {
		t.Errorf("expected model %s, got %s", DefaultModel, id.Model)
	}
}

func TestPerplexityAdapter_Invoke(t *testing.T) {
	mock := providertest.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/chat/completions", providertest.MockResponse{
		StatusCode: 200,
		Body:       providertest.ChatCompletionBody("Search-grounded answer", "sonar"),
	})

	adapter, err := NewAdapter(providers.Config{
		BaseURL: mock.URL(),
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}
	defer adapter.Close()

	result, err := adapter.Invoke(context.Background(), "What happened today?", providers.InvokeParams{})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if result.Content != "Search-grounded answer" {
		t.Errorf("expected content %q, got %q", "Search-grounded answer", result.Content)
	}
	if result.Provider.Name != "perplexity" {
		t.Errorf("expected provider perplexity, got %s", result.Provider.Name)
	}
}

func TestPerplexityAdapter_RequiresAPIKey(t *testing.T) {
	if _, err := NewAdapter(providers.Config{}); err == nil {
		t.Fatal("expected error for missing API key, got nil")
	}
}
