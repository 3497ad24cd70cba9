package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	apperrors "github.com/socialchef/dishcraft/internal/errors"
	"github.com/socialchef/dishcraft/internal/services/chef"
	"github.com/socialchef/dishcraft/internal/services/dishes"
	"github.com/socialchef/dishcraft/internal/validation"
)

// ProviderBanner is shown whenever the model could not be reached.
const ProviderBanner = "AI usage limit reached or an error occurred. Please try again later."

type formValues struct {
	Ingredients string
	Style       string
	Mood        string
	NumOptions  int
}

func defaultForm() formValues {
	return formValues{Style: validation.DefaultStyle, NumOptions: validation.DefaultOptionCount}
}

type indexPage struct {
	Error    string
	Recovery string
	Form     formValues
	// Previous is the session's last parsed list, offered for another pick.
	Previous dishes.List
	Min, Max int
}

type dishesPage struct {
	Result *chef.BrainstormResult
}

type recipePage struct {
	Error  string
	Index  int
	Dish   dishes.Entry
	Recipe string
}

func (s *Server) newIndexPage(form formValues) indexPage {
	return indexPage{Form: form, Min: validation.MinOptionCount, Max: validation.MaxOptionCount}
}

// HandleIndex renders the ingredient form.
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	page := s.newIndexPage(defaultForm())

	if state, err := s.chef.State(r.Context(), sessionID(r)); err == nil && state.HasDishes() {
		page.Previous = state.Dishes
		page.Form.Ingredients = strings.Join(state.Ingredients, ", ")
		page.Form.Style = state.Style
		page.Form.Mood = state.Mood
	}

	s.render(w, r, http.StatusOK, "index.html", page)
}

// HandleBrainstorm takes the submitted form and renders the dish list. A
// reply without an enumerated list is shown as plain text.
func (s *Server) HandleBrainstorm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		page := s.newIndexPage(defaultForm())
		page.Error = "Could not read the form."
		s.render(w, r, http.StatusBadRequest, "index.html", page)
		return
	}

	form := formValues{
		Ingredients: r.PostFormValue("ingredients"),
		Style:       r.PostFormValue("style"),
		Mood:        r.PostFormValue("mood"),
		NumOptions:  validation.ParseOptionCount(r.PostFormValue("num_options")),
	}

	result, err := s.chef.Brainstorm(r.Context(), sessionID(r), chef.BrainstormRequest{
		Ingredients: validation.ParseIngredients(form.Ingredients),
		Style:       form.Style,
		Mood:        form.Mood,
		OptionCount: form.NumOptions,
	})
	if err != nil {
		appErr := toAppError(r, err)
		page := s.newIndexPage(form)
		switch appErr.Type {
		case apperrors.ErrorTypeProvider:
			page.Error = ProviderBanner
		case apperrors.ErrorTypeValidation:
			page.Error = appErr.Message
			page.Recovery = appErr.Recovery
		default:
			page.Error = "Something went wrong. Please try again."
		}
		setRetryAfter(w, appErr)
		s.render(w, r, appErr.StatusCode, "index.html", page)
		return
	}

	s.render(w, r, http.StatusOK, "dishes.html", dishesPage{Result: result})
}

// HandleRecipe renders the recipe for one dish of the session's list. Any
// index the list cannot satisfy sends the visitor back to the form.
func (s *Server) HandleRecipe(w http.ResponseWriter, r *http.Request) {
	index, ok := parseDishIndex(chi.URLParam(r, "dish_index"))
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	result, err := s.chef.Recipe(r.Context(), sessionID(r), index)
	if err != nil {
		appErr := toAppError(r, err)
		if appErr.Type == apperrors.ErrorTypeInvalidSelection {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		page := recipePage{Index: index, Error: "Something went wrong. Please try again."}
		if appErr.Type == apperrors.ErrorTypeProvider {
			page.Error = ProviderBanner
		}
		if state, err := s.chef.State(r.Context(), sessionID(r)); err == nil {
			page.Dish, _ = state.Dish(index)
		}
		setRetryAfter(w, appErr)
		s.render(w, r, appErr.StatusCode, "recipe.html", page)
		return
	}

	s.render(w, r, http.StatusOK, "recipe.html", recipePage{
		Index:  result.Index,
		Dish:   result.Dish,
		Recipe: result.Text,
	})
}

// parseDishIndex accepts a non-negative decimal index made of ASCII digits.
func parseDishIndex(raw string) (int, bool) {
	if raw == "" || !lo.EveryBy([]rune(raw), func(r rune) bool { return r >= '0' && r <= '9' }) {
		return 0, false
	}
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return index, true
}
