package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/helios-ai/arbiter/pkg/providers"
)

const (
	// DefaultBaseURL is the Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	// DefaultModel is used when no model is configured.
	DefaultModel = "claude-3-7-sonnet-20250219"

	// apiVersion is the anthropic-version header value.
	apiVersion = "2023-06-01"

	// defaultMaxTokens is required by the Messages API when the caller
	// does not set a cap.
	defaultMaxTokens = 1024
)

// Adapter is the Anthropic provider adapter.
// It implements providers.Adapter for the Messages API.
type Adapter struct {
	*providers.HTTPAdapter
}

// NewAdapter creates a new Anthropic adapter instance.
func NewAdapter(config providers.Config) (*Adapter, error) {
	if config.Name == "" {
		config.Name = "anthropic"
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

	slog.Info("anthropic adapter initialized",
		"provider", config.Name,
		"model", config.Model,
		"base_url", config.BaseURL,
	)

	return a, nil
}

// headers returns the Anthropic auth headers. The Messages API uses
// x-api-key rather than a bearer token.
func (a *Adapter) headers() map[string]string {
	return map[string]string{
		"x-api-key":         a.Config().APIKey,
		"anthropic-version": apiVersion,
	}
}

// Invoke sends one completion request to Anthropic.
func (a *Adapter) Invoke(ctx context.Context, prompt string, params providers.InvokeParams) (*providers.Result, error) {
	if err := a.ValidatePrompt(prompt); err != nil {
		return nil, err
	}
	if err := a.CheckDeadline(ctx); err != nil {
		return nil, err
	}

	cfg := a.Config()
	req := transformRequest(cfg, prompt, params)
	url := fmt.Sprintf("%s/v1/messages", cfg.BaseURL)

	start := time.Now()
	var resp messagesResponse
	if err := a.DoJSON(ctx, url, req, &resp, a.headers()); err != nil {
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

// HealthCheck sends a one-token ping message and reports status/latency.
func (a *Adapter) HealthCheck(ctx context.Context) providers.HealthRecord {
	cfg := a.Config()
	url := fmt.Sprintf("%s/v1/messages", cfg.BaseURL)

	start := time.Now()
	err := a.DoJSON(ctx, url, pingRequest(cfg), nil, a.headers())
	return a.HealthRecordFrom(err, time.Since(start))
}
