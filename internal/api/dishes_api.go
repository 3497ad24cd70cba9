package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	apperrors "github.com/socialchef/dishcraft/internal/errors"
	"github.com/socialchef/dishcraft/internal/services/chef"
	"github.com/socialchef/dishcraft/internal/services/dishes"
	"github.com/socialchef/dishcraft/internal/validation"
)

// DishesRequest asks for dish ideas. NumOptions defaults to 3 and is clamped
// to [1, 12].
type DishesRequest struct {
	Ingredients []string `json:"ingredients" validate:"required,min=1,max=50,dive,required,max=100"`
	Style       string   `json:"style,omitempty" validate:"max=100"`
	Mood        string   `json:"mood,omitempty" validate:"max=200"`
	NumOptions  *int     `json:"num_options,omitempty"`
}

type DishesResponse struct {
	Dishes      dishes.List `json:"dishes"`
	Raw         string      `json:"raw"`
	Parsed      bool        `json:"parsed"`
	Style       string      `json:"style"`
	Mood        string      `json:"mood,omitempty"`
	OptionCount int         `json:"num_options"`
}

type RecipeResponse struct {
	Index           int          `json:"index"`
	Dish            dishes.Entry `json:"dish"`
	Recipe          string       `json:"recipe"`
	LooksLikeRecipe bool         `json:"looks_like_recipe"`
}

// HandleDishesAPI is the JSON counterpart of the form submission.
func (s *Server) HandleDishesAPI(w http.ResponseWriter, r *http.Request) {
	var req DishesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.NewValidationError("invalid request body", validation.ErrCodeInvalidRequest, "Send a JSON object with an ingredients array."))
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}

	count := validation.DefaultOptionCount
	if req.NumOptions != nil {
		count = validation.ClampOptionCount(*req.NumOptions)
	}

	result, err := s.chef.Brainstorm(r.Context(), sessionID(r), chef.BrainstormRequest{
		Ingredients: req.Ingredients,
		Style:       req.Style,
		Mood:        req.Mood,
		OptionCount: count,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	list := result.Dishes
	if list == nil {
		list = dishes.List{}
	}
	writeJSON(w, http.StatusOK, DishesResponse{
		Dishes:      list,
		Raw:         result.RawText,
		Parsed:      result.Parsed(),
		Style:       result.Style,
		Mood:        result.Mood,
		OptionCount: result.OptionCount,
	})
}

// HandleRecipeAPI returns the recipe for a dish of the session's last list.
func (s *Server) HandleRecipeAPI(w http.ResponseWriter, r *http.Request) {
	index, ok := parseDishIndex(chi.URLParam(r, "dish_index"))
	if !ok {
		writeError(w, r, apperrors.NewInvalidSelectionError("dish_index must be a non-negative integer", chef.ErrCodeInvalidIndex))
		return
	}

	result, err := s.chef.Recipe(r.Context(), sessionID(r), index)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, RecipeResponse{
		Index:           result.Index,
		Dish:            result.Dish,
		Recipe:          result.Text,
		LooksLikeRecipe: result.Check.LooksLikeRecipe,
	})
}
