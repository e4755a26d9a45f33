package providers

import "time"

// Identity is the immutable identity of a provider adapter.
// PriorityRank orders providers for races and tie-breaks: lower is preferred.
type Identity struct {
	// Name is the provider identifier (e.g., "openai", "anthropic")
	Name string `json:"name"`

	// Model is the model identifier this adapter invokes
	Model string `json:"model"`

	// PriorityRank orders providers; lower rank wins deterministic tie-breaks
	PriorityRank int `json:"priority_rank"`
}

// InvokeParams carries the tunable generation parameters for one invocation.
// Zero values mean "use the adapter's defaults".
type InvokeParams struct {
	// MaxTokens is the maximum number of tokens to generate
	MaxTokens int

	// Temperature controls randomness (0.0 to 2.0, typically 0.0 to 1.0)
	Temperature float64
}

// Result is the normalized output of one adapter invocation.
type Result struct {
	// Content is the generated text
	Content string `json:"content"`

	// TokensIn is the number of prompt tokens consumed (0 if unknown)
	TokensIn int `json:"tokens_in"`

	// TokensOut is the number of completion tokens generated (0 if unknown)
	TokensOut int `json:"tokens_out"`

	// FinishReason indicates why generation stopped (stop, length, ...)
	FinishReason string `json:"finish_reason"`

	// Latency is the wall-clock duration of the upstream call
	Latency time.Duration `json:"latency"`

	// Provider identifies the adapter that produced this result
	Provider Identity `json:"provider"`
}

// HealthStatus is the probe status of a provider.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusUnknown   HealthStatus = "unknown"
)

// HealthRecord is the outcome of one health probe for one provider.
// Records are created with StatusUnknown at registration and overwritten by
// the prober; they are never deleted.
type HealthRecord struct {
	// Status is the probe outcome
	Status HealthStatus `json:"status"`

	// Latency is the probe round-trip time
	Latency time.Duration `json:"latency"`

	// CheckedAt is when the probe ran (zero for the initial unknown record)
	CheckedAt time.Time `json:"checked_at"`

	// LastError describes the most recent probe failure, secrets redacted
	LastError string `json:"last_error,omitempty"`

	// Model is the model identifier that was probed
	Model string `json:"model"`
}

// Config contains construction-time configuration for a single adapter.
// The API key is injected here and must never appear in logs, error
// messages, or results.
type Config struct {
	// Name is the provider identifier (e.g., "openai")
	Name string

	// Model is the model identifier to invoke
	Model string

	// BaseURL is the API endpoint base URL (adapter default when empty)
	BaseURL string

	// APIKey is the authentication credential
	APIKey string

	// PriorityRank orders this provider in races (lower = preferred)
	PriorityRank int

	// Timeout bounds a single upstream call (the race deadline still
	// applies independently via the context)
	Timeout time.Duration

	// MaxTokens is the default generation cap when a request does not set one
	MaxTokens int

	// MaxIdleConns is the connection pool size
	MaxIdleConns int

	// MaxIdleConnsPerHost is the per-host connection pool size
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains pooled
	IdleConnTimeout time.Duration
}

// Finish reason constants shared by all adapters.
const (
	FinishReasonStop   = "stop"
	FinishReasonLength = "length"
)
