package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/helios-ai/arbiter/internal/providertest"
	"github.com/helios-ai/arbiter/pkg/config"
	"github.com/helios-ai/arbiter/pkg/health"
	"github.com/helios-ai/arbiter/pkg/orchestrator"
	"github.com/helios-ai/arbiter/pkg/providers"
)

func newTestServer(t *testing.T, adapters ...providers.Adapter) *Server {
	t.Helper()

	registry, err := providers.NewRegistry(adapters...)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	prober := health.NewProber(registry, time.Second)
	prober.Probe(context.Background())

	orch := orchestrator.New(registry, prober, orchestrator.Options{Deadline: time.Second})
	return New(config.ServerConfig{ListenAddress: ":0"}, orch, Options{})
}

func defaultTestServer(t *testing.T) *Server {
	return newTestServer(t,
		providertest.NewStubAdapter("openai", 1, 5*time.Millisecond, "from openai"),
		providertest.NewStubAdapter("anthropic", 2, 5*time.Millisecond, "from anthropic"),
		providertest.NewStubAdapter("perplexity", 3, 5*time.Millisecond, "from perplexity"),
	)
}

func TestServer_Ask(t *testing.T) {
	srv := defaultTestServer(t)

	body := `{"task_kind":"write","prompt":"Summarize X"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp askResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Provider != "anthropic" {
		t.Errorf("expected provider anthropic, got %s", resp.Provider)
	}
	if resp.RoutingReason != "write_default" {
		t.Errorf("expected routing reason write_default, got %s", resp.RoutingReason)
	}
	if resp.Content != "from anthropic" {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected request ID header")
	}
}

func TestServer_AskValidation(t *testing.T) {
	srv := defaultTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty prompt", `{"task_kind":"write","prompt":"  "}`},
		{"unknown override", `{"prompt":"hi","preferred_provider":"mystery"}`},
		{"malformed json", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Kind != "validation" {
				t.Errorf("expected validation kind, got %q", resp.Kind)
			}
		})
	}
}

func TestServer_AskAllFail(t *testing.T) {
	srv := newTestServer(t,
		providertest.NewFailingStub("openai", 1, time.Millisecond, providers.KindAuth, "bad key"),
		providertest.NewFailingStub("anthropic", 2, time.Millisecond, providers.KindRateLimit, "throttled"),
	)

	body := `{"prompt":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(resp.Attempts))
	}

	kinds := map[string]providers.ErrorKind{}
	for _, a := range resp.Attempts {
		kinds[a.Provider] = a.Kind
	}
	if kinds["openai"] != providers.KindAuth {
		t.Errorf("expected openai auth, got %s", kinds["openai"])
	}
	if kinds["anthropic"] != providers.KindRateLimit {
		t.Errorf("expected anthropic rate_limit, got %s", kinds["anthropic"])
	}
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t,
		providertest.NewStubAdapter("openai", 1, time.Millisecond, "ok"),
		providertest.NewFailingStub("anthropic", 2, time.Millisecond, providers.KindAuth, "bad key"),
	)

	req := httptest.NewRequest(http.MethodGet, "/v1/health?refresh=true", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Providers map[string]healthEntry `json:"providers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Providers["openai"].Status != "healthy" {
		t.Errorf("expected openai healthy, got %s", resp.Providers["openai"].Status)
	}
	if resp.Providers["anthropic"].Status != "unhealthy" {
		t.Errorf("expected anthropic unhealthy, got %s", resp.Providers["anthropic"].Status)
	}
}

func TestServer_RoutingRules(t *testing.T) {
	srv := defaultTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/routing-rules", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Rules map[string]string `json:"rules"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Rules["research"] != "perplexity" {
		t.Errorf("expected research -> perplexity, got %s", resp.Rules["research"])
	}
}

func TestServer_RunsDisabled(t *testing.T) {
	srv := defaultTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when history disabled, got %d", rec.Code)
	}
}
