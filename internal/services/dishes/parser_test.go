package dishes

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DashFormatAllCounts(t *testing.T) {
	for n := 1; n <= 12; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			var sb strings.Builder
			want := make([]string, n)
			for i := 1; i <= n; i++ {
				want[i-1] = fmt.Sprintf("Dish Number %d", i)
				fmt.Fprintf(&sb, "%d. Dish Number %d – %d min | 🍲\n", i, i, i*5)
			}

			got := Parse(sb.String())
			require.Len(t, got, n)
			assert.Equal(t, want, got.Names())
			assert.Equal(t, "Dish Number 1 – 5 min | 🍲", got[0].DisplayLabel)
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantNames  []string
		wantLabels []string
	}{
		{
			name:       "parenthesized prep time",
			raw:        "1. Pasta Primavera (20 min)",
			wantNames:  []string{"Pasta Primavera"},
			wantLabels: []string{"Pasta Primavera (20 min)"},
		},
		{
			name:      "em dash",
			raw:       "1. Shakshuka — 25 min | 🍳",
			wantNames: []string{"Shakshuka"},
		},
		{
			name:      "hyphenated name is not a separator",
			raw:       "1. Stir-Fry Noodles – 15 min",
			wantNames: []string{"Stir-Fry Noodles"},
		},
		{
			name:      "pure prose",
			raw:       "Here are some ideas you might enjoy. Try a frittata or a salad!",
			wantNames: []string{},
		},
		{
			name: "mixed lines",
			raw: "Sure! Here are your options:\n\n" +
				"1. Greek Scramble – 10 min | 🍳\n" +
				"Some commentary in between.\n" +
				"2. Spinach Feta Pie – 45 min | 🥧\n" +
				"Enjoy your meal!",
			wantNames: []string{"Greek Scramble", "Spinach Feta Pie"},
		},
		{
			name:      "crlf and indentation",
			raw:       "  1. Omelette – 5 min\r\n\t2. Frittata – 20 min\r\n",
			wantNames: []string{"Omelette", "Frittata"},
		},
		{
			name:      "no separator uses whole label",
			raw:       "3. Just Toast",
			wantNames: []string{"Just Toast"},
		},
		{
			name:      "markdown bold name",
			raw:       "1. **Greek Scramble** – 10 min | 🍳",
			wantNames: []string{"Greek Scramble"},
		},
		{
			name:      "marker without text is skipped",
			raw:       "1.\n2. Salad – 5 min",
			wantNames: []string{"Salad"},
		},
		{
			name:      "digits without dot are not enumerations",
			raw:       "2 eggs, whisked\n10 minutes total",
			wantNames: []string{},
		},
		{
			name:      "multi digit enumeration",
			raw:       "10. Tenth Dish – 30 min",
			wantNames: []string{"Tenth Dish"},
		},
		{
			name:      "empty input",
			raw:       "",
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.Equal(t, tt.wantNames, got.Names())
			if tt.wantLabels != nil {
				labels := make([]string, len(got))
				for i, e := range got {
					labels[i] = e.DisplayLabel
				}
				assert.Equal(t, tt.wantLabels, labels)
			}
			for _, e := range got {
				assert.NotEmpty(t, e.Name)
				assert.Equal(t, strings.TrimSpace(e.Name), e.Name)
			}
		})
	}
}

func TestParse_DoesNotPanicOnOddInput(t *testing.T) {
	inputs := []string{"1", ".", "1.(", "1. (", "1. – ", "1. ** **", "\x00\xff", strings.Repeat("9", 50) + ". big"}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Parse(in) }, "input %q", in)
	}
	got := Parse("1. – 10 min")
	require.Len(t, got, 1)
	assert.Equal(t, "– 10 min", got[0].Name)
}

func TestParser_SeparatorOrder(t *testing.T) {
	raw := "1. Soup (Tomato) – 30 min"

	dashFirst, err := NewParser()
	require.NoError(t, err)
	assert.Equal(t, []string{"Soup (Tomato)"}, dashFirst.Parse(raw).Names())

	parenFirst, err := NewParser(SeparatorParen, SeparatorDash)
	require.NoError(t, err)
	assert.Equal(t, []string{"Soup"}, parenFirst.Parse(raw).Names())
}

func TestNewParser_UnknownSeparator(t *testing.T) {
	_, err := NewParser(Separator("colon"))
	assert.Error(t, err)
}

func TestParseSeparatorOrder(t *testing.T) {
	order, err := ParseSeparatorOrder([]string{" Paren", "dash"})
	require.NoError(t, err)
	assert.Equal(t, []Separator{SeparatorParen, SeparatorDash}, order)

	_, err = ParseSeparatorOrder([]string{"pipe"})
	assert.Error(t, err)
}
