package validation

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const (
	DefaultStyle       = "simple"
	DefaultOptionCount = 3
	MinOptionCount     = 1
	MaxOptionCount     = 12
)

// ParseIngredients splits comma-separated input into trimmed, non-empty
// ingredients. Order and duplicates are preserved.
func ParseIngredients(raw string) []string {
	return CleanIngredients(strings.Split(raw, ","))
}

// CleanIngredients trims each entry and drops the empty ones.
func CleanIngredients(items []string) []string {
	return lo.FilterMap(items, func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}

// NormalizeStyle trims the style and falls back to DefaultStyle.
func NormalizeStyle(style string) string {
	style = strings.TrimSpace(style)
	if style == "" {
		return DefaultStyle
	}
	return style
}

// NormalizeMood trims the mood. An empty mood means no modifier.
func NormalizeMood(mood string) string {
	return strings.TrimSpace(mood)
}

// ParseOptionCount reads a requested number of dish options. Non-numeric or
// empty input yields DefaultOptionCount; numbers are clamped to
// [MinOptionCount, MaxOptionCount].
func ParseOptionCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultOptionCount
	}
	return ClampOptionCount(n)
}

// ClampOptionCount bounds n to [MinOptionCount, MaxOptionCount].
func ClampOptionCount(n int) int {
	return lo.Clamp(n, MinOptionCount, MaxOptionCount)
}

// ParseChoice validates a 1-based menu choice typed by a user against a list
// of size n and returns the 0-based index. Only plain ASCII digits are accepted.
func ParseChoice(raw string, n int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !lo.EveryBy([]rune(raw), isASCIIDigit) {
		return 0, false
	}
	choice, err := strconv.Atoi(raw)
	if err != nil || choice < 1 || choice > n {
		return 0, false
	}
	return choice - 1, true
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
