package openai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/helios-ai/arbiter/pkg/providers"
)

// DefaultBaseURL is the OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o"

// Adapter is the OpenAI provider adapter.
// It implements providers.Adapter for the Chat Completions API.
type Adapter struct {
	*providers.HTTPAdapter
}

// NewAdapter creates a new OpenAI adapter instance.
func NewAdapter(config providers.Config) (*Adapter, error) {
	if config.Name == "" {
		config.Name = "openai"
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("provider %q: API key is required", config.Name)
	}

	a := &Adapter{
		HTTPAdapter: providers.NewHTTPAdapter(config),
	}

	slog.Info("openai adapter initialized",
		"provider", config.Name,
		"model", config.Model,
		"base_url", config.BaseURL,
	)

	return a, nil
}

// Invoke sends one completion request to OpenAI.
func (a *Adapter) Invoke(ctx context.Context, prompt string, params providers.InvokeParams) (*providers.Result, error) {
	if err := a.ValidatePrompt(prompt); err != nil {
		return nil, err
	}
	if err := a.CheckDeadline(ctx); err != nil {
		return nil, err
	}

	cfg := a.Config()
	req := transformRequest(cfg, prompt, params)
	url := fmt.Sprintf("%s/chat/completions", cfg.BaseURL)
	headers := map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
	}

	start := time.Now()
	var resp chatResponse
	if err := a.DoJSON(ctx, url, req, &resp, headers); err != nil {
		return nil, err
	}

	result, err := transformResponse(&resp, a.Identity())
	if err != nil {
		return nil, &providers.AdapterError{
			Provider: cfg.Name,
			Kind:     providers.KindUnknown,
			Message:  a.Redact(err.Error()),
			Cause:    err,
		}
	}
	result.Latency = time.Since(start)

	slog.Debug("completion succeeded",
		"provider", cfg.Name,
		"model", result.Provider.Model,
		"tokens_out", result.TokensOut,
		"latency", result.Latency,
	)

	return result, nil
}

// HealthCheck sends a one-token ping completion and reports status/latency.
// It never returns an error; probe failures become StatusUnhealthy.
func (a *Adapter) HealthCheck(ctx context.Context) providers.HealthRecord {
	cfg := a.Config()
	req := pingRequest(cfg)
	url := fmt.Sprintf("%s/chat/completions", cfg.BaseURL)
	headers := map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
	}

	start := time.Now()
	err := a.DoJSON(ctx, url, req, nil, headers)
	return a.HealthRecordFrom(err, time.Since(start))
}
