package ai

import (
	"fmt"
	"strings"
)

// DishLineFormat is the exact line template the brainstorm prompt asks for.
// The dish parser depends on the " – " separator and the leading "<n>.".
const DishLineFormat = "1. <Dish Name> – <Prep Time> | <Emoji>"

const brainstormRoleSection = `<ROLE>
You are a creative home-cooking assistant. You suggest dishes that a person can realistically cook tonight with what they already have.
</ROLE>`

const distinctnessSection = `<VARIETY>
Make every option clearly different from the others:
- use a different main cooking method for each (e.g. bake, pan-fry, simmer, raw, grill)
- vary the flavor profile (fresh, rich, spicy, tangy, savory)
- vary the effort, from a quick option to a more involved one
Do not list minor variations of the same dish.
</VARIETY>`

const brainstormOutputSection = `<OUTPUT_FORMAT>
Reply with a numbered list only, one dish per line, no introduction and no closing remarks.
Each line must follow this format exactly:
%s
Prep time is an estimate such as "15 min" or "1 hr". Pick one emoji that fits the dish.
</OUTPUT_FORMAT>`

const recipeInstructionsSection = `<INSTRUCTIONS>
Write a complete recipe with:
- a short list of ingredients with quantities (you may add pantry staples such as oil, salt and pepper)
- clear, numbered step-by-step instructions
- the estimated total time and number of servings
Keep the instructions practical for a home kitchen.
</INSTRUCTIONS>`

// MoodGuidance turns a free-form mood into an instruction line. Known keywords
// get tailored guidance; anything else is passed through verbatim. An empty
// mood yields an empty string.
func MoodGuidance(mood string) string {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return ""
	}

	lower := strings.ToLower(mood)
	switch {
	case lower == "tired":
		return "The cook is tired: favor the fastest, simplest options with minimal cleanup."
	case lower == "fancy":
		return "The cook wants something fancy: favor elevated, indulgent, restaurant-style options."
	case lower == "comfort":
		return "The cook wants comfort food: favor cozy, warm, familiar dishes."
	case strings.HasPrefix(lower, "craving "):
		craving := strings.TrimSpace(mood[len("craving "):])
		if craving == "" {
			return "The cook's mood: " + mood
		}
		return fmt.Sprintf("The cook is craving %s: feature %s prominently in every option.", craving, craving)
	default:
		return "The cook's mood: " + mood
	}
}

// BuildBrainstormPrompt builds the prompt that asks for count distinct dish
// ideas in style using ingredients.
func BuildBrainstormPrompt(ingredients []string, style, mood string, count int) string {
	var sb strings.Builder
	sb.WriteString(brainstormRoleSection)
	sb.WriteString("\n\n")

	sb.WriteString("<TASK>\n")
	sb.WriteString(fmt.Sprintf("I have the following ingredients: %s.\n", strings.Join(ingredients, ", ")))
	sb.WriteString(fmt.Sprintf("Please give me a list of %d distinct %s dish ideas I can make with these ingredients, each with a brief estimated preparation time.\n", count, style))
	if guidance := MoodGuidance(mood); guidance != "" {
		sb.WriteString(guidance)
		sb.WriteString("\n")
	}
	sb.WriteString("</TASK>\n\n")

	sb.WriteString(distinctnessSection)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf(brainstormOutputSection, DishLineFormat))
	return sb.String()
}

// BuildRecipePrompt builds the prompt that asks for a full recipe for dishName.
// The ingredient list is the one the user originally supplied.
func BuildRecipePrompt(dishName string, ingredients []string, mood string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Provide a detailed recipe for '%s' using these ingredients: %s.\n", dishName, strings.Join(ingredients, ", ")))
	if guidance := MoodGuidance(mood); guidance != "" {
		sb.WriteString(guidance)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(recipeInstructionsSection)
	return sb.String()
}
