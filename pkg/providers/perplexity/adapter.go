// Package perplexity provides the Perplexity provider adapter.
//
// Perplexity exposes an OpenAI-compatible Chat Completions API with
// web-grounded "sonar" models, so this adapter wraps the OpenAI adapter
// with Perplexity defaults. Its affinity is research and online tasks.
package perplexity

import (
	"fmt"

	"github.com/helios-ai/arbiter/pkg/providers"
	"github.com/helios-ai/arbiter/pkg/providers/openai"
)

const (
	// DefaultBaseURL is the Perplexity API endpoint.
	DefaultBaseURL = "https://api.perplexity.ai"

	// DefaultModel is the web-grounded default model.
	DefaultModel = "sonar"
)

// Adapter is the Perplexity provider adapter.
type Adapter struct {
	*openai.Adapter
}

// NewAdapter creates a new Perplexity adapter instance.
func NewAdapter(config providers.Config) (*Adapter, error) {
	if config.Name == "" {
		config.Name = "perplexity"
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("provider %q: API key is required", config.Name)
	}

	inner, err := openai.NewAdapter(config)
	if err != nil {
		return nil, err
	}

	return &Adapter{Adapter: inner}, nil
}
