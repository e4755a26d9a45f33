package routing

// Rules is the static task-to-provider affinity table. For each task kind
// it holds an ordered provider preference list; the head is the best-fit
// provider, the tail orders the fallbacks used when the head is unhealthy.
type Rules map[TaskKind][]string

// DefaultRules returns the built-in affinity table:
//
//	research (and online hints) -> perplexity, web-grounded answers
//	analysis                    -> openai
//	write / review              -> anthropic
func DefaultRules() Rules {
	return Rules{
		TaskResearch: {"perplexity", "openai", "anthropic"},
		TaskAnalysis: {"openai", "anthropic", "perplexity"},
		TaskWrite:    {"anthropic", "openai", "perplexity"},
		TaskReview:   {"anthropic", "openai", "perplexity"},
	}
}

// For returns the preference list for a task kind, or nil when no rule
// applies (unspecified tasks race all providers).
func (r Rules) For(kind TaskKind) []string {
	return r[kind]
}

// Table returns the task-to-primary-provider mapping for observability.
// Callers must not use it to bypass selection.
func (r Rules) Table() map[string]string {
	out := make(map[string]string, len(r))
	for kind, list := range r {
		if len(list) > 0 {
			out[string(kind)] = list[0]
		}
	}
	return out
}

// Validate checks that every rule has at least one provider and that the
// listed names are drawn from the registered set.
func (r Rules) Validate(registered func(name string) bool) error {
	for kind, list := range r {
		if len(list) == 0 {
			return &UnknownProviderError{Name: "(empty rule for " + string(kind) + ")"}
		}
		for _, name := range list {
			if !registered(name) {
				return &UnknownProviderError{Name: name}
			}
		}
	}
	return nil
}
