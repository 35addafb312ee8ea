package filter

import (
	"fmt"
	"strings"
)

// Dimension is a structured constraint category.
type Dimension string

// Structured constraint dimensions, in precedence order.
const (
	DimensionNone     Dimension = ""
	DimensionType     Dimension = "type"
	DimensionLanguage Dimension = "language"
	DimensionCategory Dimension = "category"
)

// IsValid checks if the dimension is one of the supported values.
func (d Dimension) IsValid() bool {
	return d == DimensionType || d == DimensionLanguage || d == DimensionCategory
}

// ParseDimension parses a dimension name (case-insensitive).
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return DimensionNone, fmt.Errorf("unknown filter dimension %q", s)
	}
	return d, nil
}

// Selection is the user's filter state: a free-text term plus at most one structured constraint.
type Selection struct {
	search    string
	dimension Dimension
	value     string
}

// NewSelection creates a selection with only a search term.
func NewSelection(search string) Selection {
	return Selection{search: search}
}

// WithSearch returns a copy with the search term replaced.
func (s Selection) WithSearch(term string) Selection {
	s.search = term
	return s
}

// WithConstraint returns a copy whose only structured constraint is dim=value.
// An empty value clears the structured constraint.
func (s Selection) WithConstraint(dim Dimension, value string) (Selection, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.Cleared(), nil
	}
	if !dim.IsValid() {
		return s, fmt.Errorf("unknown filter dimension %q", dim)
	}
	s.dimension = dim
	s.value = value
	return s, nil
}

// Cleared returns a copy without a structured constraint; the search term is kept.
func (s Selection) Cleared() Selection {
	s.dimension = DimensionNone
	s.value = ""
	return s
}

// Search returns the free-text term.
func (s Selection) Search() string { return s.search }

// Constraint returns the active structured constraint.
func (s Selection) Constraint() (Dimension, string, bool) {
	if s.dimension == DimensionNone {
		return DimensionNone, "", false
	}
	return s.dimension, s.value, true
}

// HasConstraint reports whether a structured constraint is active.
func (s Selection) HasConstraint() bool { return s.dimension != DimensionNone }

// Type returns the type constraint value or "".
func (s Selection) Type() string { return s.valueFor(DimensionType) }

// Language returns the language constraint value or "".
func (s Selection) Language() string { return s.valueFor(DimensionLanguage) }

// Category returns the category constraint value or "".
func (s Selection) Category() string { return s.valueFor(DimensionCategory) }

func (s Selection) valueFor(d Dimension) string {
	if s.dimension == d {
		return s.value
	}
	return ""
}

// String renders the selection for logs and status lines.
func (s Selection) String() string {
	parts := make([]string, 0, 2)
	if s.search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", s.search))
	}
	if s.dimension != DimensionNone {
		parts = append(parts, fmt.Sprintf("%s=%s", s.dimension, s.value))
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, " ")
}
