package routing

import (
	"github.com/helios-ai/arbiter/pkg/providers"
)

// TaskKind classifies what the caller wants the model to do.
type TaskKind string

const (
	// TaskResearch is information gathering, favors web-grounded providers.
	TaskResearch TaskKind = "research"

	// TaskAnalysis is reasoning over supplied material.
	TaskAnalysis TaskKind = "analysis"

	// TaskWrite is long-form content generation.
	TaskWrite TaskKind = "write"

	// TaskReview is critique of existing content.
	TaskReview TaskKind = "review"

	// TaskUnspecified means no task kind was given; all providers race.
	TaskUnspecified TaskKind = "unspecified"
)

// ParseTaskKind maps a string to a TaskKind, defaulting to unspecified.
func ParseTaskKind(s string) TaskKind {
	switch TaskKind(s) {
	case TaskResearch, TaskAnalysis, TaskWrite, TaskReview:
		return TaskKind(s)
	default:
		return TaskUnspecified
	}
}

// AutoProvider is the override value that means "let the router decide".
const AutoProvider = "auto"

// TaskRequest is the input to candidate selection.
type TaskRequest struct {
	// TaskKind classifies the request for affinity routing.
	TaskKind TaskKind `json:"task_kind"`

	// Prompt is the text sent to the winning provider. Must be non-empty.
	Prompt string `json:"prompt"`

	// Preferred is an explicit provider override, or "auto"/empty.
	Preferred string `json:"preferred_provider,omitempty"`

	// Online hints that the caller wants live, web-grounded information.
	Online bool `json:"online_hint,omitempty"`
}

// Reason values explain why a candidate list was chosen. A task-affinity
// pick uses "<task>_default" (e.g. "write_default").
const (
	ReasonExplicitOverride = "explicit_override"
	ReasonAutoRace         = "auto_race"
)

// Decision is the router's output: an ordered candidate list plus the
// rationale that will be attached to the final outcome.
type Decision struct {
	// Candidates is the ordered list of providers to invoke. A single
	// entry means single-candidate mode; multiple entries race.
	Candidates []providers.Identity `json:"candidates"`

	// Reason records why these candidates were selected.
	Reason string `json:"reason"`
}
