package ai

import (
	"context"
)

// GenerateOptions controls a single text generation call.
type GenerateOptions struct {
	// JSONMode asks the provider to return a single valid JSON object.
	JSONMode bool
	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int64
	// SystemPrompt overrides the default system message when non-empty.
	SystemPrompt string
}

// Provider is the interface for generative-text providers. Both the roadmap
// builder and the message composer consume it; every caller must tolerate
// errors and fall back to deterministic output.
type Provider interface {
	// Generate sends a prompt and returns the raw response text.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// ProviderFactory creates a provider from a flat string config.
type ProviderFactory func(config map[string]string) (Provider, error)

// ProviderRegistry stores available provider factories by name.
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]ProviderFactory),
	}
}

// Register registers a provider factory
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// GetProvider gets a provider by name
func (r *ProviderRegistry) GetProvider(name string, config map[string]string) (Provider, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}

	return factory(config)
}

// ErrProviderNotFound is returned when a provider is not found
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "AI provider not found: " + e.Name
}
