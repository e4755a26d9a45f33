package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxErrorBodyLen bounds how much of an upstream error payload is carried
// into an AdapterError message.
const maxErrorBodyLen = 256

// HTTPAdapter is the base implementation for HTTP-based provider adapters.
// It provides connection pooling, deadline handling, error classification,
// and credential redaction.
//
// Concrete adapters (OpenAI, Anthropic, Perplexity) embed this struct and
// implement the Adapter interface on top of DoJSON. There is no retry loop:
// an adapter makes exactly one upstream call per invocation, so failure
// semantics stay composable for the race executor.
type HTTPAdapter struct {
	// config contains the adapter configuration
	config Config

	// client is the HTTP client with connection pooling
	client *http.Client
}

// NewHTTPAdapter creates a new base HTTP adapter with connection pooling.
func NewHTTPAdapter(config Config) *HTTPAdapter {
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}
	if config.IdleConnTimeout == 0 {
		config.IdleConnTimeout = 90 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPAdapter{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
}

// Config returns the adapter's configuration.
func (a *HTTPAdapter) Config() Config {
	return a.config
}

// Identity returns the adapter's immutable identity.
func (a *HTTPAdapter) Identity() Identity {
	return Identity{
		Name:         a.config.Name,
		Model:        a.config.Model,
		PriorityRank: a.config.PriorityRank,
	}
}

// CheckDeadline fails fast when the context deadline has already passed,
// before any network call is made.
func (a *HTTPAdapter) CheckDeadline(ctx context.Context) error {
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return &AdapterError{
			Provider: a.config.Name,
			Kind:     KindTimeout,
			Message:  "deadline already expired before request was sent",
			Cause:    ErrDeadlineExpired,
		}
	}
	if err := ctx.Err(); err != nil {
		return &AdapterError{
			Provider: a.config.Name,
			Kind:     KindTimeout,
			Message:  "context cancelled before request was sent",
			Cause:    err,
		}
	}
	return nil
}

// DoJSON performs a single JSON POST and decodes the response body into out.
// Upstream failures are classified into the shared taxonomy; error payloads
// are redacted and truncated before they reach the AdapterError message.
func (a *HTTPAdapter) DoJSON(ctx context.Context, url string, reqBody any, out any, headers map[string]string) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return &AdapterError{
			Provider: a.config.Name,
			Kind:     KindUnknown,
			Message:  "failed to encode request payload",
			Cause:    err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &AdapterError{
			Provider: a.config.Name,
			Kind:     KindUnknown,
			Message:  "failed to build request",
			Cause:    err,
		}
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	slog.Debug("sending request to provider",
		"provider", a.config.Name,
		"url", url,
	)

	resp, err := a.client.Do(req)
	if err != nil {
		kind := classifyTransport(ctx, err)
		return &AdapterError{
			Provider: a.config.Name,
			Kind:     kind,
			Message:  a.Redact(err.Error()),
			Cause:    err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &AdapterError{
			Provider: a.config.Name,
			Kind:     classifyTransport(ctx, err),
			Message:  "failed to read response body",
			Cause:    err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &AdapterError{
			Provider:   a.config.Name,
			Kind:       classifyStatus(resp.StatusCode),
			Message:    a.Redact(string(body)),
			StatusCode: resp.StatusCode,
		}
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return &AdapterError{
				Provider: a.config.Name,
				Kind:     KindUnknown,
				Message:  fmt.Sprintf("failed to decode response: %v", err),
				Cause:    err,
			}
		}
	}

	return nil
}

// Redact removes the injected credential from a message and truncates it.
// Every string destined for an AdapterError or HealthRecord passes through
// here so the API key can never leak through an upstream echo.
func (a *HTTPAdapter) Redact(msg string) string {
	if a.config.APIKey != "" {
		msg = strings.ReplaceAll(msg, a.config.APIKey, "***")
	}
	msg = strings.TrimSpace(msg)
	if len(msg) > maxErrorBodyLen {
		msg = msg[:maxErrorBodyLen] + "..."
	}
	return msg
}

// ValidatePrompt rejects empty prompts before any network call.
func (a *HTTPAdapter) ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return &ValidationError{
			Field:   "prompt",
			Message: ErrEmptyPrompt.Error(),
		}
	}
	return nil
}

// HealthRecordFrom converts a probe attempt into a HealthRecord.
// Failures never propagate as errors; they become StatusUnhealthy with a
// redacted cause.
func (a *HTTPAdapter) HealthRecordFrom(err error, latency time.Duration) HealthRecord {
	rec := HealthRecord{
		Status:    StatusHealthy,
		Latency:   latency,
		CheckedAt: time.Now(),
		Model:     a.config.Model,
	}
	if err != nil {
		rec.Status = StatusUnhealthy
		rec.LastError = a.Redact(err.Error())
	}
	return rec
}

// Close releases idle HTTP connections.
func (a *HTTPAdapter) Close() error {
	a.client.CloseIdleConnections()
	return nil
}
