// Package chef runs the two-step dish flow: brainstorm a list of dishes for a
// set of ingredients, then fetch the full recipe for one of them.
package chef

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/socialchef/dishcraft/internal/errors"
	"github.com/socialchef/dishcraft/internal/logger"
	"github.com/socialchef/dishcraft/internal/metrics"
	"github.com/socialchef/dishcraft/internal/services/ai"
	"github.com/socialchef/dishcraft/internal/services/completion"
	"github.com/socialchef/dishcraft/internal/services/dishes"
	"github.com/socialchef/dishcraft/internal/session"
	"github.com/socialchef/dishcraft/internal/telemetry"
	"github.com/socialchef/dishcraft/internal/validation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	ErrCodeNoIngredients  = "NO_INGREDIENTS"
	ErrCodeNoDishList     = "NO_DISH_LIST"
	ErrCodeInvalidIndex   = "INVALID_DISH_INDEX"
	ErrCodeBrainstormFail = "BRAINSTORM_FAILED"
	ErrCodeRecipeFail     = "RECIPE_FAILED"
	ErrCodeSessionStore   = "SESSION_STORE_FAILED"
)

// BrainstormRequest is the raw user input for a dish list. Style and
// OptionCount are normalized by the service.
type BrainstormRequest struct {
	Ingredients []string
	Style       string
	Mood        string
	OptionCount int
}

// BrainstormResult is the parsed reply. Dishes is empty when the reply held no
// enumerated lines; callers then show RawText and offer no selection.
type BrainstormResult struct {
	Ingredients []string
	Style       string
	Mood        string
	OptionCount int
	Dishes      dishes.List
	RawText     string
}

// Parsed reports whether any dish could be extracted.
func (r *BrainstormResult) Parsed() bool {
	return len(r.Dishes) > 0
}

// RecipeResult is the recipe for one selected dish.
type RecipeResult struct {
	Index int
	Dish  dishes.Entry
	Text  string
	Check validation.RecipeCheckResult
}

// Options configures a Service.
type Options struct {
	Provider completion.Provider
	Store    session.Store
	// Parser defaults to the dash-then-paren parser.
	Parser *dishes.Parser

	BrainstormParams completion.SamplingParams
	RecipeParams     completion.SamplingParams

	Now func() time.Time
}

type Service struct {
	provider         completion.Provider
	store            session.Store
	parser           *dishes.Parser
	brainstormParams completion.SamplingParams
	recipeParams     completion.SamplingParams
	now              func() time.Time
	tracer           trace.Tracer
}

func NewService(opts Options) (*Service, error) {
	if opts.Provider == nil {
		return nil, errors.New("chef: completion provider is required")
	}
	if opts.Store == nil {
		return nil, errors.New("chef: session store is required")
	}

	parser := opts.Parser
	if parser == nil {
		var err error
		if parser, err = dishes.NewParser(); err != nil {
			return nil, err
		}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		provider:         opts.Provider,
		store:            opts.Store,
		parser:           parser,
		brainstormParams: opts.BrainstormParams,
		recipeParams:     opts.RecipeParams,
		now:              now,
		tracer:           telemetry.Tracer("chef"),
	}, nil
}

// Brainstorm asks the model for dish ideas and replaces the session's state
// with the result. The session is left untouched when the provider fails.
func (s *Service) Brainstorm(ctx context.Context, sessionID string, req BrainstormRequest) (result *BrainstormResult, err error) {
	ingredients := validation.CleanIngredients(req.Ingredients)
	style := validation.NormalizeStyle(req.Style)
	mood := validation.NormalizeMood(req.Mood)
	count := validation.ClampOptionCount(req.OptionCount)

	ctx, span := s.tracer.Start(ctx, "chef.brainstorm")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(
		attribute.Int("dish.ingredients", len(ingredients)),
		attribute.String("dish.style", style),
		attribute.Int("dish.option_count", count),
	)

	if len(ingredients) == 0 {
		metrics.RecordBrainstorm(ctx, "invalid", 0)
		return nil, apperrors.NewValidationError("no ingredients provided", ErrCodeNoIngredients,
			"Enter at least one ingredient, separated by commas.")
	}

	prompt := ai.BuildBrainstormPrompt(ingredients, style, mood, count)
	raw, err := s.provider.Complete(ctx, prompt, s.brainstormParams)
	if err != nil {
		metrics.RecordBrainstorm(ctx, "provider_error", 0)
		slog.Error("Brainstorm completion failed",
			"error", err,
			"style", style,
			logger.WithTraceContext(ctx))
		return nil, apperrors.NewProviderError("failed to generate dish ideas", ErrCodeBrainstormFail, err)
	}

	list := s.parser.Parse(raw)
	span.SetAttributes(attribute.Int("dish.parsed", len(list)))
	if len(list) == 0 {
		slog.Warn("No enumerated dishes in reply",
			"reply_length", len(raw),
			logger.WithTraceContext(ctx))
	} else if len(list) != count {
		slog.Info("Dish count differs from request",
			"requested", count,
			"parsed", len(list),
			logger.WithTraceContext(ctx))
	}

	// Stored even when empty so an older list cannot be selected against this reply.
	state := &session.State{
		Ingredients: ingredients,
		Style:       style,
		Mood:        mood,
		Dishes:      list,
		RawText:     raw,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Put(ctx, sessionID, state); err != nil {
		metrics.RecordBrainstorm(ctx, "store_error", 0)
		return nil, apperrors.NewInternalError("failed to save dish list", ErrCodeSessionStore, err)
	}

	metrics.RecordBrainstorm(ctx, "success", len(list))
	return &BrainstormResult{
		Ingredients: ingredients,
		Style:       style,
		Mood:        mood,
		OptionCount: count,
		Dishes:      list,
		RawText:     raw,
	}, nil
}

// Recipe fetches the recipe for the dish at the 0-based index of the
// session's latest list. The stored state is only read.
func (s *Service) Recipe(ctx context.Context, sessionID string, index int) (result *RecipeResult, err error) {
	ctx, span := s.tracer.Start(ctx, "chef.recipe")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int("dish.index", index))

	state, err := s.State(ctx, sessionID)
	if err != nil {
		metrics.RecordRecipeFetch(ctx, "store_error")
		return nil, err
	}
	if !state.HasDishes() {
		metrics.RecordRecipeFetch(ctx, "invalid_selection")
		return nil, apperrors.NewInvalidSelectionError("no dish list for this session", ErrCodeNoDishList)
	}

	dish, err := state.Dish(index)
	if err != nil {
		metrics.RecordRecipeFetch(ctx, "invalid_selection")
		return nil, apperrors.NewInvalidSelectionError(err.Error(), ErrCodeInvalidIndex)
	}
	span.SetAttributes(attribute.String("dish.name", dish.Name))

	prompt := ai.BuildRecipePrompt(dish.Name, state.Ingredients, state.Mood)
	text, err := s.provider.Complete(ctx, prompt, s.recipeParams)
	if err != nil {
		metrics.RecordRecipeFetch(ctx, "provider_error")
		slog.Error("Recipe completion failed",
			"error", err,
			"dish", dish.Name,
			logger.WithTraceContext(ctx))
		return nil, apperrors.NewProviderError(fmt.Sprintf("failed to generate recipe for %q", dish.Name), ErrCodeRecipeFail, err)
	}

	check := validation.CheckRecipeText(text, state.Ingredients)
	if !check.LooksLikeRecipe {
		slog.Warn("Recipe reply looks unusual",
			"dish", dish.Name,
			"reason", check.Reason,
			"confidence", check.Confidence,
			logger.WithTraceContext(ctx))
	}

	metrics.RecordRecipeFetch(ctx, "success")
	return &RecipeResult{Index: index, Dish: dish, Text: text, Check: check}, nil
}

// State returns the session's latest brainstorm, or an empty state when the
// session has none yet.
func (s *Service) State(ctx context.Context, sessionID string) (*session.State, error) {
	state, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return &session.State{}, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load dish list", ErrCodeSessionStore, err)
	}
	return state, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
