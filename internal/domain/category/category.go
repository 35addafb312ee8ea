package category

import "github.com/kailas-cloud/catalog/internal/domain/item"

// MaxDepth bounds tree traversal for malformed or cyclic input.
const MaxDepth = 16

// Category is one node of the taxonomy tree.
type Category struct {
	ID            string
	Names         item.Localized
	Subcategories []Category
}

// Label returns the best name, falling back to the ID.
func (c *Category) Label() string {
	if n := c.Names.Best(); n != "" {
		return n
	}
	return c.ID
}

// Entry is a flattened tree node for pickers.
type Entry struct {
	ID    string
	Label string
	Depth int
}

// Flatten walks the tree depth-first. Nodes without an ID are skipped together with their subtree.
func Flatten(roots []Category) []Entry {
	var out []Entry
	var walk func(nodes []Category, depth int)
	walk = func(nodes []Category, depth int) {
		if depth >= MaxDepth {
			return
		}
		for i := range nodes {
			n := &nodes[i]
			if n.ID == "" {
				continue
			}
			out = append(out, Entry{ID: n.ID, Label: n.Label(), Depth: depth})
			walk(n.Subcategories, depth+1)
		}
	}
	walk(roots, 0)
	return out
}
