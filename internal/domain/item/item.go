package item

import "fmt"

// MaxIDLength is the maximum item identifier length.
const MaxIDLength = 512

// Relation names an item-to-item reference.
type Relation string

// Relation constants, in the order used for structured type constraints.
const (
	VersionOf     Relation = "version_of"
	CommentaryOf  Relation = "commentary_of"
	TranslationOf Relation = "translation_of"
)

// Relations lists all relations in constraint order.
func Relations() []Relation {
	return []Relation{VersionOf, CommentaryOf, TranslationOf}
}

// IsValid reports whether r is a known relation.
func (r Relation) IsValid() bool {
	return r == VersionOf || r == CommentaryOf || r == TranslationOf
}

// Attributes holds the classification fields structured constraints match on.
type Attributes struct {
	Type     string
	Language string
	Category string
}

// Item is one catalog record (immutable value object).
type Item struct {
	id        string
	titles    Localized
	authors   Localized
	relations map[Relation]string
	attrs     Attributes
}

// New validates and creates an Item.
func New(id string, titles, authors Localized, relations map[Relation]string, attrs Attributes) (Item, error) {
	if id == "" {
		return Item{}, fmt.Errorf("item ID is required")
	}
	if len(id) > MaxIDLength {
		return Item{}, fmt.Errorf("item ID too long (max %d)", MaxIDLength)
	}
	rels := make(map[Relation]string, len(relations))
	for r, target := range relations {
		if !r.IsValid() {
			return Item{}, fmt.Errorf("item %q: unknown relation %q", id, r)
		}
		if target != "" {
			rels[r] = target
		}
	}
	return Item{id: id, titles: titles, authors: authors, relations: rels, attrs: attrs}, nil
}

// ID returns the item identifier.
func (i *Item) ID() string { return i.id }

// Titles returns the localized titles.
func (i *Item) Titles() Localized { return i.titles }

// Authors returns the localized author names.
func (i *Item) Authors() Localized { return i.authors }

// Title returns the best available title.
func (i *Item) Title() string { return i.titles.Best() }

// Related returns the referenced item ID for a relation, if present.
func (i *Item) Related(r Relation) (string, bool) {
	target, ok := i.relations[r]
	return target, ok
}

// Attributes returns the classification fields.
func (i *Item) Attributes() Attributes { return i.attrs }

// Field returns the value of a named field for expression evaluation.
// Relation fields and missing attributes report ok=false (null).
func (i *Item) Field(name string) (string, bool) {
	switch name {
	case "id":
		return i.id, true
	case "type":
		return i.attrs.Type, i.attrs.Type != ""
	case "language":
		return i.attrs.Language, i.attrs.Language != ""
	case "category":
		return i.attrs.Category, i.attrs.Category != ""
	}
	if r := Relation(name); r.IsValid() {
		return i.Related(r)
	}
	return "", false
}
