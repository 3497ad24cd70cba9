package validation

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Confidence represents certainty in the validation result
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// RecipeCheckResult is the outcome of a heuristic look at a recipe reply.
type RecipeCheckResult struct {
	LooksLikeRecipe bool       `json:"looks_like_recipe"`
	Confidence      Confidence `json:"confidence"`
	Reason          string     `json:"reason"`
	Missing         []string   `json:"missing"`
}

const minRecipeLength = 80

// recipeKeywords for quick heuristic validation
var recipeKeywords = []string{
	// Cooking verbs
	"bake", "cook", "fry", "boil", "grill", "roast", "saute", "simmer", "steam",
	"mix", "whisk", "stir", "blend", "chop", "dice", "slice", "preheat", "prepare",
	// Quantities
	"ingredient", "cup", "tablespoon", "teaspoon", "tbsp", "tsp", "ounce", "oz", "gram", "ml",
	// Recipe terms
	"recipe", "serve", "serving", "minutes", "step", "heat",
}

// CheckRecipeText performs a fast heuristic check that a completion reads like
// a recipe for the given ingredients. It never rejects text; callers use it to
// log suspicious replies.
func CheckRecipeText(text string, ingredients []string) RecipeCheckResult {
	text = strings.TrimSpace(text)
	if len(text) < minRecipeLength {
		reason := fmt.Sprintf("Reply too short (%d chars). Need at least %d chars.", len(text), minRecipeLength)
		if text == "" {
			reason = "No content provided"
		}
		return RecipeCheckResult{
			LooksLikeRecipe: false,
			Confidence:      ConfidenceHigh,
			Reason:          reason,
			Missing:         []string{"sufficient content length"},
		}
	}

	lower := strings.ToLower(text)
	missing := []string{}

	if !lo.SomeBy(recipeKeywords, func(kw string) bool { return strings.Contains(lower, kw) }) {
		missing = append(missing, "recipe keywords")
	}

	absent := lo.Filter(ingredients, func(ing string, _ int) bool {
		return !strings.Contains(lower, strings.ToLower(ing))
	})
	if len(ingredients) > 0 && len(absent) == len(ingredients) {
		missing = append(missing, "ingredients")
	}

	switch len(missing) {
	case 0:
		return RecipeCheckResult{
			LooksLikeRecipe: true,
			Confidence:      ConfidenceHigh,
			Reason:          "Reply passed quick validation",
			Missing:         missing,
		}
	case 1:
		return RecipeCheckResult{
			LooksLikeRecipe: true,
			Confidence:      ConfidenceMedium,
			Reason:          fmt.Sprintf("Reply has sufficient length but no %s found", missing[0]),
			Missing:         missing,
		}
	default:
		return RecipeCheckResult{
			LooksLikeRecipe: false,
			Confidence:      ConfidenceLow,
			Reason:          "Reply mentions neither cooking terms nor any ingredient",
			Missing:         missing,
		}
	}
}
