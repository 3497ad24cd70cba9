// Package session keeps each visitor's latest dish list between the
// brainstorm request and the recipe request.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/socialchef/dishcraft/internal/services/dishes"
)

// ErrInvalidSelection is returned when a dish index does not address the stored list.
var ErrInvalidSelection = errors.New("invalid dish selection")

// State is the context of the most recent brainstorm for one session.
type State struct {
	Ingredients []string    `json:"ingredients"`
	Style       string      `json:"style"`
	Mood        string      `json:"mood,omitempty"`
	Dishes      dishes.List `json:"dishes"`
	RawText     string      `json:"raw_text"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Dish returns the entry at the 0-based index.
func (s *State) Dish(index int) (dishes.Entry, error) {
	if s == nil || index < 0 || index >= len(s.Dishes) {
		n := 0
		if s != nil {
			n = len(s.Dishes)
		}
		return dishes.Entry{}, fmt.Errorf("%w: index %d, %d dishes available", ErrInvalidSelection, index, n)
	}
	return s.Dishes[index], nil
}

// HasDishes reports whether the state offers anything to select.
func (s *State) HasDishes() bool {
	return s != nil && len(s.Dishes) > 0
}

