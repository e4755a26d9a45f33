package providers

import "context"

// Adapter is the core interface that all provider adapters must implement.
// It normalizes one upstream text-generation service into a uniform
// request/response shape and the shared error taxonomy.
//
// The capability set is deliberately small: Invoke for request serving and
// HealthCheck for probing. Wire details (auth header shape, payload shape,
// response parsing) are fully contained inside each implementation; callers
// never see provider-specific fields outside Result and AdapterError.
//
// All methods accept a context.Context for cancellation and deadline control.
// Implementations must respect context cancellation and return promptly when
// the context is cancelled; during a race the executor relies on this to
// release losing calls.
//
// Example usage:
//
//	adapter, err := openai.NewAdapter(cfg)
//	if err != nil {
//	    return err
//	}
//
//	res, err := adapter.Invoke(ctx, "Summarize X", providers.InvokeParams{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Content)
type Adapter interface {
	// Invoke sends one completion request to the upstream provider and
	// returns the normalized result.
	//
	// Exactly one outbound network call is made per Invoke; adapters never
	// retry. If the context deadline has already expired when Invoke is
	// called, the adapter fails immediately with KindTimeout and makes no
	// network call. An empty prompt fails with a validation error.
	Invoke(ctx context.Context, prompt string, params InvokeParams) (*Result, error)

	// HealthCheck exercises the provider with a cheap one-token completion
	// and reports status and latency. It never returns an error: failures
	// are converted into a record with StatusUnhealthy and a redacted cause.
	HealthCheck(ctx context.Context) HealthRecord

	// Identity returns the immutable identity of this adapter
	// (name, model, priority rank).
	Identity() Identity

	// Close releases the adapter's resources (idle HTTP connections).
	Close() error
}
