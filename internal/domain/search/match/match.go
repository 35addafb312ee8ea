// Package match implements the local free-text predicate applied to loaded items.
package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/catalog/internal/domain/item"
)

// MaxTermLength is the maximum accepted search term length (in bytes).
const MaxTermLength = 256

// ErrTermTooLong is returned by Validate for terms over MaxTermLength.
var ErrTermTooLong = errors.New("search term too long")

// Validate rejects terms whose trimmed form exceeds MaxTermLength.
// Terms are never truncated.
func Validate(raw string) error {
	if n := len(strings.TrimSpace(raw)); n > MaxTermLength {
		return fmt.Errorf("%w: %d bytes, max %d", ErrTermTooLong, n, MaxTermLength)
	}
	return nil
}

// Normalize trims and lower-cases raw user input.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Matches reports whether the item matches a normalized term: the term is empty, or it is a
// case-insensitive substring of the identifier or of any localized title.
func Matches(term string, it *item.Item) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(it.ID()), term) {
		return true
	}
	for _, title := range it.Titles().Values() {
		if strings.Contains(strings.ToLower(title), term) {
			return true
		}
	}
	return false
}

// Filter returns the items matching term, preserving order.
// The input slice is never modified.
func Filter(term string, items []item.Item) []item.Item {
	out := make([]item.Item, 0, len(items))
	for i := range items {
		if Matches(term, &items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}
