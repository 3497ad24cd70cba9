package completion

import (
	"context"
	"fmt"

	"github.com/socialchef/dishcraft/internal/config"
	"github.com/socialchef/dishcraft/internal/utils"
)

// APIKeys holds one credential per provider. Only the configured providers'
// keys need to be set.
type APIKeys struct {
	Gemini string
	OpenAI string
	Groq   string
}

// NewProvider creates a completion provider based on the configuration.
// Each provider is wrapped in a RetryProvider when more than one attempt is
// configured, and the pair is wrapped in a FallbackProvider if enabled.
func NewProvider(ctx context.Context, cfg config.CompletionConfig, keys APIKeys) (Provider, error) {
	primary, err := newRetrying(ctx, ProviderType(cfg.Provider), cfg.Model, keys, cfg)
	if err != nil {
		return nil, err
	}

	if !cfg.FallbackEnabled {
		return primary, nil
	}

	secondary, err := newRetrying(ctx, ProviderType(cfg.FallbackProvider), cfg.FallbackModel, keys, cfg)
	if err != nil {
		return nil, fmt.Errorf("fallback provider: %w", err)
	}
	return NewFallbackProvider(primary, cfg.Provider, secondary, cfg.FallbackProvider), nil
}

func newRetrying(ctx context.Context, kind ProviderType, model string, keys APIKeys, cfg config.CompletionConfig) (Provider, error) {
	p, err := newSingle(ctx, kind, model, keys)
	if err != nil {
		return nil, err
	}
	if cfg.MaxAttempts > 1 {
		return NewRetryProvider(p, string(kind), utils.CompletionRetryConfig(cfg.MaxAttempts, cfg.Timeout)), nil
	}
	return p, nil
}

func newSingle(ctx context.Context, kind ProviderType, model string, keys APIKeys) (Provider, error) {
	switch kind {
	case ProviderGemini, "":
		return NewGeminiProvider(ctx, GeminiConfig{APIKey: keys.Gemini, Model: model})
	case ProviderOpenAI:
		return NewOpenAIProvider(OpenAIConfig{APIKey: keys.OpenAI, Model: model}), nil
	case ProviderGroq:
		return NewGroqProvider(keys.Groq, model), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", kind)
	}
}
