package providers

import (
	"fmt"
	"sort"
)

// Registry is the single typed registry of provider adapters, constructed
// once at startup. The set of adapters is fixed for the registry's lifetime;
// there is no runtime registration or attribute probing.
type Registry struct {
	adapters map[string]Adapter
	ordered  []Identity
}

// NewRegistry builds a registry from the given adapters.
// Adapter names must be unique. The registry keeps a stable ordering by
// priority rank (name as a secondary key so equal ranks stay deterministic).
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	if len(adapters) == 0 {
		return nil, fmt.Errorf("at least one provider adapter is required")
	}

	byName := make(map[string]Adapter, len(adapters))
	ordered := make([]Identity, 0, len(adapters))

	for _, a := range adapters {
		id := a.Identity()
		if id.Name == "" {
			return nil, fmt.Errorf("adapter has empty name")
		}
		if _, exists := byName[id.Name]; exists {
			return nil, fmt.Errorf("duplicate provider name %q", id.Name)
		}
		byName[id.Name] = a
		ordered = append(ordered, id)
	}

	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].PriorityRank != ordered[j].PriorityRank {
			return ordered[i].PriorityRank < ordered[j].PriorityRank
		}
		return ordered[i].Name < ordered[j].Name
	})

	return &Registry{adapters: byName, ordered: ordered}, nil
}

// Get returns the adapter registered under name.
func (r *Registry) Get(name string) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// Has reports whether a provider with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.adapters[name]
	return ok
}

// Identities returns all registered identities ordered by priority rank.
// The returned slice is a copy.
func (r *Registry) Identities() []Identity {
	out := make([]Identity, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Names returns all registered provider names ordered by priority rank.
func (r *Registry) Names() []string {
	names := make([]string, len(r.ordered))
	for i, id := range r.ordered {
		names[i] = id.Name
	}
	return names
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int {
	return len(r.adapters)
}

// Close closes every registered adapter, returning the first error.
func (r *Registry) Close() error {
	var first error
	for _, a := range r.adapters {
		if err := a.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
