package sortkey

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/catalog/internal/domain/item"
)

// Key is the ordering applied to the displayed list.
type Key string

// Sort key constants.
const (
	// Relevance keeps the remote collection's arrival order.
	Relevance Key = "relevance"
	TitleAsc  Key = "title_asc"
	TitleDesc Key = "title_desc"
	IDAsc     Key = "id_asc"
	IDDesc    Key = "id_desc"
)

// All returns every key in menu order.
func All() []Key {
	return []Key{Relevance, TitleAsc, TitleDesc, IDAsc, IDDesc}
}

// IsValid checks if the key is one of the supported values.
func (k Key) IsValid() bool {
	return slices.Contains(All(), k)
}

// Parse parses a key; "" yields Relevance. Hyphens are accepted in place of underscores.
func Parse(s string) (Key, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if s == "" {
		return Relevance, nil
	}
	k := Key(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid sort key: %q", s)
	}
	return k, nil
}

// Label returns a short human-readable name.
func (k Key) Label() string {
	switch k {
	case TitleAsc:
		return "title ↑"
	case TitleDesc:
		return "title ↓"
	case IDAsc:
		return "id ↑"
	case IDDesc:
		return "id ↓"
	default:
		return "relevance"
	}
}

// Comparator orders items by a sort key. Title ordering is locale-aware.
// Not safe for concurrent use: the collator keeps internal buffers.
type Comparator struct {
	col *collate.Collator
}

// NewComparator creates a comparator collating titles for the given language.
func NewComparator(tag language.Tag) *Comparator {
	return &Comparator{col: collate.New(tag)}
}

// Compare returns -1, 0 or 1. Relevance always returns 0.
func (c *Comparator) Compare(a, b *item.Item, k Key) int {
	switch k {
	case TitleAsc:
		return c.col.CompareString(a.Title(), b.Title())
	case TitleDesc:
		return -c.col.CompareString(a.Title(), b.Title())
	case IDAsc:
		return strings.Compare(a.ID(), b.ID())
	case IDDesc:
		return -strings.Compare(a.ID(), b.ID())
	default:
		return 0
	}
}

// Sort stably orders items in place. Relevance leaves the slice untouched.
func (c *Comparator) Sort(items []item.Item, k Key) {
	if k == Relevance || !k.IsValid() {
		return
	}
	slices.SortStableFunc(items, func(a, b item.Item) int {
		return c.Compare(&a, &b, k)
	})
}
