// Package providers defines the provider adapter abstraction for upstream
// text-generation services and the shared error taxonomy.
//
// Each upstream service (OpenAI, Anthropic, Perplexity) is wrapped by an
// adapter in a subpackage. Adapters differ only in wire details (auth
// header shape, payload shape, response parsing) and those differences are
// fully contained here: callers see only Result, HealthRecord, and
// AdapterError.
//
// # Architecture
//
//	Adapter (interface)
//	   ├── openai.Adapter      Bearer auth, /chat/completions
//	   ├── anthropic.Adapter   x-api-key auth, /v1/messages
//	   └── perplexity.Adapter  OpenAI-compatible wire, sonar models
//
//	HTTPAdapter (embedded base)
//	   connection pooling, deadline fail-fast, status classification,
//	   credential redaction
//
//	Registry
//	   fixed, typed adapter set constructed at startup, ordered by
//	   priority rank
//
// # Error taxonomy
//
// Every failure is classified at the point of failure into the closed
// ErrorKind set: validation, auth, rate_limit, upstream_server, timeout,
// network, unknown_provider_error. Adapters never retry and never leak
// credentials: messages pass through Redact before construction.
//
// # Invariants
//
//   - One outbound network call per Invoke; retries are a caller concern.
//   - An already-expired deadline fails with KindTimeout before any I/O.
//   - HealthCheck never returns an error; failures become StatusUnhealthy.
package providers
