package routing

import (
	"errors"
	"fmt"
)

// ErrNoProviders is returned when selection runs against an empty registry.
var ErrNoProviders = errors.New("no providers registered")

// UnknownProviderError is returned when an explicit override names a
// provider that is not registered. It is a validation failure; no adapter
// is ever invoked.
type UnknownProviderError struct {
	Name string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider %q", e.Name)
}
