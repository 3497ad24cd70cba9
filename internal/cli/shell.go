// Package cli is the interactive terminal front end of the dish flow.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	apperrors "github.com/socialchef/dishcraft/internal/errors"
	"github.com/socialchef/dishcraft/internal/services/chef"
	"github.com/socialchef/dishcraft/internal/session"
	"github.com/socialchef/dishcraft/internal/validation"
)

// ErrAborted is returned when input ends before the flow is complete.
var ErrAborted = errors.New("input closed")

const providerMessage = "AI usage limit reached or an error occurred. Please try again later."

// Chef is the part of the dish flow the shell drives.
type Chef interface {
	Brainstorm(ctx context.Context, sessionID string, req chef.BrainstormRequest) (*chef.BrainstormResult, error)
	Recipe(ctx context.Context, sessionID string, index int) (*chef.RecipeResult, error)
}

// Spinner shows progress while a completion is running.
type Spinner interface {
	Start()
	Stop()
}

type noopSpinner struct{}

func (noopSpinner) Start() {}
func (noopSpinner) Stop()  {}

// NewSpinner returns a spinner drawing on f. It stays silent when f is not a
// terminal.
func NewSpinner(f *os.File, suffix string) Spinner {
	return spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriterFile(f),
		spinner.WithSuffix(suffix),
	)
}

type Option func(*Shell)

// WithSpinner replaces the default no-op progress indicator.
func WithSpinner(s Spinner) Option {
	return func(sh *Shell) { sh.spinner = s }
}

// Shell runs one brainstorm and recipe exchange over a reader and writer.
type Shell struct {
	chef      Chef
	in        *bufio.Reader
	out       io.Writer
	spinner   Spinner
	sessionID string
}

func NewShell(c Chef, in io.Reader, out io.Writer, opts ...Option) *Shell {
	sh := &Shell{
		chef:      c,
		in:        bufio.NewReader(in),
		out:       out,
		spinner:   noopSpinner{},
		sessionID: session.NewID(),
	}
	for _, opt := range opts {
		opt(sh)
	}
	return sh
}

// Run walks the user through ingredients, style and mood, lists the dish
// ideas, asks for a choice and prints the recipe.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Welcome to Dishcraft, the dish idea generator!")

	var ingredients []string
	for len(ingredients) == 0 {
		line, err := s.ask("Enter your ingredients, separated by commas: ")
		if err != nil {
			return err
		}
		ingredients = validation.ParseIngredients(line)
		if len(ingredients) == 0 {
			fmt.Fprintln(s.out, "Please enter at least one ingredient.")
		}
	}

	style, err := s.ask(fmt.Sprintf("Enter a style or cuisine (e.g. Italian, Vegan, Quick) [%s]: ", validation.DefaultStyle))
	if err != nil {
		return err
	}
	mood, err := s.ask("Mood, optional (tired, fancy, comfort, craving <something>): ")
	if err != nil {
		return err
	}

	result, err := s.brainstorm(ctx, chef.BrainstormRequest{
		Ingredients: ingredients,
		Style:       style,
		Mood:        mood,
		OptionCount: validation.DefaultOptionCount,
	})
	if err != nil {
		return s.fail(err)
	}

	if !result.Parsed() {
		fmt.Fprintln(s.out, "\nSorry, the dish names could not be picked out. Here is the full reply:")
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, result.RawText)
		return nil
	}

	fmt.Fprintln(s.out, "\nHere are your dish options with prep times:")
	fmt.Fprintln(s.out)
	for i, d := range result.Dishes {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, d.DisplayLabel)
	}

	index, err := s.choose(len(result.Dishes))
	if err != nil {
		return err
	}

	dish := result.Dishes[index]
	fmt.Fprintf(s.out, "\nFetching the recipe for '%s'...\n\n", dish.Name)

	recipe, err := s.recipe(ctx, index)
	if err != nil {
		return s.fail(err)
	}
	fmt.Fprintln(s.out, recipe.Text)
	return nil
}

func (s *Shell) brainstorm(ctx context.Context, req chef.BrainstormRequest) (*chef.BrainstormResult, error) {
	s.spinner.Start()
	defer s.spinner.Stop()
	return s.chef.Brainstorm(ctx, s.sessionID, req)
}

func (s *Shell) recipe(ctx context.Context, index int) (*chef.RecipeResult, error) {
	s.spinner.Start()
	defer s.spinner.Stop()
	return s.chef.Recipe(ctx, s.sessionID, index)
}

// choose re-prompts until the user types a number in [1, n].
func (s *Shell) choose(n int) (int, error) {
	for {
		line, err := s.ask(fmt.Sprintf("\nEnter the number (1-%d) of the dish you want the recipe for: ", n))
		if err != nil {
			return 0, err
		}
		if index, ok := validation.ParseChoice(line, n); ok {
			return index, nil
		}
		fmt.Fprintf(s.out, "Invalid choice, please enter a number between 1 and %d.\n", n)
	}
}

// ask prints prompt and reads one line. A final line without a newline is
// still accepted; EOF with no input aborts.
func (s *Shell) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return "", ErrAborted
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// fail prints a user-facing message for err and returns it.
func (s *Shell) fail(err error) error {
	appErr, ok := apperrors.As(err)
	switch {
	case ok && appErr.Type == apperrors.ErrorTypeProvider:
		fmt.Fprintln(s.out, "\n"+providerMessage)
	case ok:
		fmt.Fprintln(s.out, "\n"+appErr.Message)
	default:
		fmt.Fprintln(s.out, "\nSomething went wrong. Please try again.")
	}
	return err
}
