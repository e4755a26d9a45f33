package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind is the closed taxonomy every adapter failure is classified into.
// Adapters assign the kind at the point of failure; downstream components
// (race executor, facade, API layer) branch on the kind and never infer it
// from message text.
type ErrorKind string

const (
	// KindValidation is a malformed request (empty prompt, unknown explicit
	// provider name). Surfaced before any adapter is invoked.
	KindValidation ErrorKind = "validation"

	// KindAuth means the provider rejected the credentials (401/403).
	KindAuth ErrorKind = "auth"

	// KindRateLimit means the provider signaled throttling (429).
	KindRateLimit ErrorKind = "rate_limit"

	// KindUpstreamServer is a provider-side 5xx-equivalent failure.
	KindUpstreamServer ErrorKind = "upstream_server"

	// KindTimeout means the call exceeded its deadline, or never got
	// scheduled before the deadline elapsed.
	KindTimeout ErrorKind = "timeout"

	// KindNetwork is a transport-level failure (DNS, connection refused,
	// reset).
	KindNetwork ErrorKind = "network"

	// KindUnknown is anything not classifiable into the above. It still
	// carries a redacted message.
	KindUnknown ErrorKind = "unknown_provider_error"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrEmptyPrompt is returned when an invocation carries no prompt text.
	ErrEmptyPrompt = errors.New("prompt must not be empty")

	// ErrDeadlineExpired is returned when an adapter receives a context
	// whose deadline has already passed.
	ErrDeadlineExpired = errors.New("deadline already expired")
)

// AdapterError is the typed error returned by every adapter failure.
// Message is always safe to surface: adapters redact credentials and
// truncate upstream payloads before constructing it.
type AdapterError struct {
	// Provider is the name of the adapter that failed
	Provider string

	// Kind classifies the failure into the closed taxonomy
	Kind ErrorKind

	// Message is a human-readable, secret-free description
	Message string

	// StatusCode is the upstream HTTP status (0 if not applicable)
	StatusCode int

	// Cause is the underlying error, if any
	Cause error
}

// Error implements the error interface.
func (e *AdapterError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q %s (status %d): %s", e.Provider, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q %s: %s", e.Provider, e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *AdapterError) Unwrap() error {
	return e.Cause
}

// ValidationError represents a request validation failure. It is surfaced
// by the facade before any adapter is invoked and carries KindValidation.
type ValidationError struct {
	// Field is the name of the invalid field
	Field string

	// Message describes what is invalid about the field
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}

// KindOf classifies an arbitrary error into the taxonomy. Typed errors keep
// the kind their producer assigned; context errors map to timeout; anything
// else is unknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var ae *AdapterError
	if errors.As(err, &ae) {
		return ae.Kind
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout
	}

	return KindUnknown
}

// classifyStatus maps an upstream HTTP status code to an ErrorKind.
func classifyStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 429:
		return KindRateLimit
	case status >= 500:
		return KindUpstreamServer
	default:
		return KindUnknown
	}
}

// classifyTransport maps a transport-level error to an ErrorKind.
// Context expiry takes precedence: a connection torn down by cancellation
// is a timeout, not a network fault.
func classifyTransport(ctx context.Context, err error) ErrorKind {
	if ctx.Err() != nil {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	return KindNetwork
}
