// Package fixture serves a catalog held in memory, loaded from a JSON file.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kailas-cloud/catalog/internal/domain/category"
	"github.com/kailas-cloud/catalog/internal/domain/item"
	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/domain/search/page"
	"github.com/kailas-cloud/catalog/internal/transport/catalogapi"
)

// file is the fixture layout: items and categories in their wire shape.
type file struct {
	Items      []catalogapi.ItemDTO     `json:"items"`
	Categories []catalogapi.CategoryDTO `json:"categories"`
}

// Store is a read-only catalog. Items keep file order.
type Store struct {
	items      []item.Item
	categories []category.Category
}

// Load reads a fixture file.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return Parse(data)
}

// Parse decodes fixture data. Invalid or duplicate items are rejected.
func Parse(data []byte) (*Store, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	s := &Store{items: make([]item.Item, 0, len(f.Items))}
	seen := make(map[string]struct{}, len(f.Items))
	for i := range f.Items {
		it, err := f.Items[i].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("fixture item %d: %w", i, err)
		}
		if _, dup := seen[it.ID()]; dup {
			return nil, fmt.Errorf("fixture item %d: duplicate id %q", i, it.ID())
		}
		seen[it.ID()] = struct{}{}
		s.items = append(s.items, it)
	}
	for i := range f.Categories {
		s.categories = append(s.categories, f.Categories[i].ToDomain())
	}
	return s, nil
}

// Len returns the number of items.
func (s *Store) Len() int { return len(s.items) }

// Filter returns one page of the items matching expr and the total match count.
func (s *Store) Filter(_ context.Context, expr filter.Expression, cur page.Cursor) ([]item.Item, int) {
	matches := s.items
	if !expr.IsEmpty() {
		matches = make([]item.Item, 0, len(s.items))
		for i := range s.items {
			if expr.Eval(&s.items[i]) {
				matches = append(matches, s.items[i])
			}
		}
	}

	total := len(matches)
	from := min(cur.Offset(), total)
	to := min(from+cur.Limit(), total)
	return matches[from:to], total
}

// Categories returns the category tree.
func (s *Store) Categories(context.Context) []category.Category {
	return s.categories
}
