// Package completion talks to hosted LLMs. Every provider takes one prompt and
// returns one reply; failures leave the package as *ProviderError.
package completion

import "context"

// ProviderType represents the type of completion provider
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOpenAI ProviderType = "openai"
	ProviderGroq   ProviderType = "groq"
)

// DefaultModels maps a provider to the model used when none is configured.
var DefaultModels = map[ProviderType]string{
	ProviderGemini: "gemini-3-flash-preview",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderGroq:   "llama-3.3-70b-versatile",
}

// SamplingParams tunes a single completion. A nil Temperature or a zero
// MaxOutputTokens leaves the provider default; a Temperature of 0 is sent as is.
type SamplingParams struct {
	Temperature     *float32
	MaxOutputTokens int32
}

// Provider produces a text completion for a prompt.
type Provider interface {
	Complete(ctx context.Context, prompt string, params SamplingParams) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, prompt string, params SamplingParams) (string, error)

func (f ProviderFunc) Complete(ctx context.Context, prompt string, params SamplingParams) (string, error) {
	return f(ctx, prompt, params)
}
