// Package dishes turns a free-text LLM reply into a list of selectable dishes.
package dishes

import (
	"fmt"
	"regexp"
	"strings"
)

// Entry is one parsed dish line.
type Entry struct {
	// DisplayLabel is the line without its "<n>." marker, e.g.
	// "Greek Scramble – 10 min | 🍳".
	DisplayLabel string `json:"label"`
	// Name is the dish name used for the recipe request.
	Name string `json:"name"`
}

// List is an ordered dish list. Index 0 is the line numbered 1 by the model.
type List []Entry

// Names returns the dish names in order.
func (l List) Names() []string {
	names := make([]string, len(l))
	for i, e := range l {
		names[i] = e.Name
	}
	return names
}

// Separator identifies a rule for cutting the dish name out of a label.
type Separator string

const (
	// SeparatorDash cuts at a space-surrounded en dash or em dash.
	SeparatorDash Separator = "dash"
	// SeparatorParen cuts at the first opening parenthesis.
	SeparatorParen Separator = "paren"
)

// DefaultSeparatorOrder matches the line format the brainstorm prompt requests.
var DefaultSeparatorOrder = []Separator{SeparatorDash, SeparatorParen}

var enumeration = regexp.MustCompile(`^[0-9]+\.`)

var dashSeparators = []string{" – ", " — "}

// Parser extracts dish entries from completion text.
type Parser struct {
	order []Separator
}

// NewParser returns a parser that applies separators in the given order.
// An empty order uses DefaultSeparatorOrder.
func NewParser(order ...Separator) (*Parser, error) {
	if len(order) == 0 {
		order = DefaultSeparatorOrder
	}
	for _, s := range order {
		if s != SeparatorDash && s != SeparatorParen {
			return nil, fmt.Errorf("unknown dish name separator %q", s)
		}
	}
	return &Parser{order: append([]Separator(nil), order...)}, nil
}

// ParseSeparatorOrder reads a list such as ["paren", "dash"] from config.
func ParseSeparatorOrder(values []string) ([]Separator, error) {
	order := make([]Separator, 0, len(values))
	for _, v := range values {
		s := Separator(strings.ToLower(strings.TrimSpace(v)))
		if s != SeparatorDash && s != SeparatorParen {
			return nil, fmt.Errorf("unknown dish name separator %q", v)
		}
		order = append(order, s)
	}
	return order, nil
}

var defaultParser = &Parser{order: DefaultSeparatorOrder}

// Parse parses raw with the default separator order.
func Parse(raw string) List {
	return defaultParser.Parse(raw)
}

// Parse returns one Entry per enumerated line in raw. Lines that do not start
// with "<digits>." are ignored, so prose-only text yields an empty list.
func (p *Parser) Parse(raw string) List {
	list := List{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		loc := enumeration.FindStringIndex(line)
		if loc == nil {
			continue
		}
		label := strings.TrimSpace(line[loc[1]:])
		if label == "" {
			continue
		}
		list = append(list, Entry{DisplayLabel: label, Name: p.name(label)})
	}
	return list
}

func (p *Parser) name(label string) string {
	name := label
	for _, sep := range p.order {
		if cut, ok := cutAt(label, sep); ok {
			name = cut
			break
		}
	}
	name = cleanName(name)
	if name == "" {
		return label
	}
	return name
}

func cutAt(label string, sep Separator) (string, bool) {
	switch sep {
	case SeparatorDash:
		best := -1
		for _, d := range dashSeparators {
			if i := strings.Index(label, d); i >= 0 && (best < 0 || i < best) {
				best = i
			}
		}
		if best >= 0 {
			return label[:best], true
		}
	case SeparatorParen:
		if before, _, found := strings.Cut(label, "("); found {
			return before, true
		}
	}
	return "", false
}

// cleanName trims whitespace and markdown emphasis that models often wrap
// dish names in.
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	for {
		trimmed := strings.TrimSpace(strings.Trim(name, "*_"))
		if trimmed == name {
			return name
		}
		name = trimmed
	}
}
