// ABOUTME: Research providers behind a named registry
// ABOUTME: openai_web is implemented; gsc is recognised but not configured yet

package writer

import (
	"context"
	"errors"
	"fmt"

	"github.com/harper/oneblog/internal/llm"
)

// Provider names accepted at the boundary.
const (
	ProviderOpenAIWeb = "openai_web"
	ProviderGSC       = "gsc"

	DefaultProvider = ProviderOpenAIWeb
)

// KnownProviders lists every provider name a caller may request.
var KnownProviders = []string{ProviderOpenAIWeb, ProviderGSC}

var (
	// ErrUnknownProvider is a boundary validation failure for unrecognised names.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrProviderNotConfigured is returned for recognised providers with no implementation.
	ErrProviderNotConfigured = errors.New("not configured yet")
)

// Provider runs web-grounded prompts and returns the model's text.
type Provider interface {
	Name() string
	Search(ctx context.Context, prompt string) (string, error)
}

// IsKnownProvider reports whether name is a recognised provider. Empty means default.
func IsKnownProvider(name string) bool {
	if name == "" {
		return true
	}
	for _, known := range KnownProviders {
		if name == known {
			return true
		}
	}
	return false
}

// Registry resolves provider names to implementations.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry registers the given providers by name.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Resolve returns the provider for name, defaulting to openai_web.
func (r *Registry) Resolve(name string) (Provider, error) {
	if name == "" {
		name = DefaultProvider
	}
	if !IsKnownProvider(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q is %w", name, ErrProviderNotConfigured)
	}
	return p, nil
}

// OpenAIWeb answers prompts with the hosted model and its web-search tool.
type OpenAIWeb struct {
	llm llm.Responder
}

// NewOpenAIWeb creates the openai_web provider.
func NewOpenAIWeb(responder llm.Responder) *OpenAIWeb {
	return &OpenAIWeb{llm: responder}
}

// Name implements Provider.
func (p *OpenAIWeb) Name() string { return ProviderOpenAIWeb }

// Search implements Provider.
func (p *OpenAIWeb) Search(ctx context.Context, prompt string) (string, error) {
	resp, err := p.llm.CreateResponse(ctx, llm.Request{
		Input: prompt,
		Tools: []llm.Tool{llm.WebSearchTool},
	})
	if err != nil {
		return "", err
	}
	return llm.ExtractText(resp), nil
}
