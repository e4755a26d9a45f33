package race

import (
	"time"

	"github.com/helios-ai/arbiter/pkg/providers"
)

// ErrorRecord captures one candidate's failure in the shared taxonomy.
// Messages are already redacted by the adapter that produced them.
type ErrorRecord struct {
	Provider string              `json:"provider"`
	Kind     providers.ErrorKind `json:"error_kind"`
	Message  string              `json:"message"`
}

// Outcome is the result of one race. Exactly one of Result or Errors is
// populated: a success carries the winning result, a failure carries one
// ErrorRecord per attempted candidate.
type Outcome struct {
	// Result is the winning provider's result, nil on failure.
	Result *providers.Result `json:"result,omitempty"`

	// RoutingReason records why the candidates were chosen.
	RoutingReason string `json:"routing_reason"`

	// Duration is the wall-clock time of the whole race.
	Duration time.Duration `json:"duration"`

	// Errors holds one record per candidate when no candidate succeeded.
	Errors []ErrorRecord `json:"errors,omitempty"`
}

// Succeeded reports whether the race produced a winner.
func (o *Outcome) Succeeded() bool {
	return o.Result != nil
}
