package chef

import (
	"context"
	"fmt"

	"github.com/socialchef/dishcraft/internal/config"
	"github.com/socialchef/dishcraft/internal/services/completion"
	"github.com/socialchef/dishcraft/internal/services/dishes"
	"github.com/socialchef/dishcraft/internal/session"
)

// NewFromConfig builds the provider chain, session store and parser described
// by cfg. The returned close func releases the session store.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Service, func() error, error) {
	provider, err := completion.NewProvider(ctx, cfg.Completion, completion.APIKeys{
		Gemini: cfg.GeminiKey,
		OpenAI: cfg.OpenAIKey,
		Groq:   cfg.GroqKey,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create completion provider: %w", err)
	}

	order, err := dishes.ParseSeparatorOrder(cfg.Completion.SeparatorOrder)
	if err != nil {
		return nil, nil, err
	}
	parser, err := dishes.NewParser(order...)
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := session.NewStore(ctx, cfg.RedisURL, cfg.Session.TTL)
	if err != nil {
		return nil, nil, fmt.Errorf("create session store: %w", err)
	}

	svc, err := NewService(Options{
		Provider: provider,
		Store:    store,
		Parser:   parser,
		BrainstormParams: completion.SamplingParams{
			Temperature:     cfg.Completion.BrainstormTemperature,
			MaxOutputTokens: cfg.Completion.MaxOutputTokens,
		},
		RecipeParams: completion.SamplingParams{
			Temperature:     cfg.Completion.RecipeTemperature,
			MaxOutputTokens: cfg.Completion.MaxOutputTokens,
		},
	})
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return svc, closeStore, nil
}
