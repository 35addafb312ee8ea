package catalogapi

import (
	"github.com/kailas-cloud/catalog/internal/domain/category"
	"github.com/kailas-cloud/catalog/internal/domain/item"
	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
)

// FilterRequest is the body of POST /metadata/filter/.
type FilterRequest struct {
	Filter *filter.Expression `json:"filter,omitempty"`
	Page   int                `json:"page"`
	Limit  int                `json:"limit"`
}

// Pagination is the optional paging block of a filter response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// FilterResponse carries items under either "metadata" or "results".
type FilterResponse struct {
	Metadata   []ItemDTO   `json:"metadata"`
	Results    []ItemDTO   `json:"results,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// items returns the populated item list; ok=false when neither key is present.
func (r *FilterResponse) items() ([]ItemDTO, bool) {
	if r.Metadata != nil {
		return r.Metadata, true
	}
	if r.Results != nil {
		return r.Results, true
	}
	return nil, false
}

// ItemDTO is the wire shape of one item.
type ItemDTO struct {
	ID            string         `json:"id"`
	Title         item.Localized `json:"title"`
	Author        item.Localized `json:"author"`
	VersionOf     *string        `json:"version_of"`
	CommentaryOf  *string        `json:"commentary_of"`
	TranslationOf *string        `json:"translation_of"`
	Type          string         `json:"type,omitempty"`
	Language      string         `json:"language,omitempty"`
	Category      string         `json:"category,omitempty"`
}

// ToDomain validates the DTO into an immutable item.
func (d *ItemDTO) ToDomain() (item.Item, error) {
	rels := make(map[item.Relation]string, 3)
	for r, ref := range map[item.Relation]*string{
		item.VersionOf:     d.VersionOf,
		item.CommentaryOf:  d.CommentaryOf,
		item.TranslationOf: d.TranslationOf,
	} {
		if ref != nil {
			rels[r] = *ref
		}
	}
	return item.New(d.ID, d.Title, d.Author, rels, item.Attributes{
		Type:     d.Type,
		Language: d.Language,
		Category: d.Category,
	})
}

// ItemFromDomain builds the wire shape of an item.
func ItemFromDomain(it *item.Item) ItemDTO {
	attrs := it.Attributes()
	dto := ItemDTO{
		ID:       it.ID(),
		Title:    it.Titles(),
		Author:   it.Authors(),
		Type:     attrs.Type,
		Language: attrs.Language,
		Category: attrs.Category,
	}
	if v, ok := it.Related(item.VersionOf); ok {
		dto.VersionOf = &v
	}
	if v, ok := it.Related(item.CommentaryOf); ok {
		dto.CommentaryOf = &v
	}
	if v, ok := it.Related(item.TranslationOf); ok {
		dto.TranslationOf = &v
	}
	return dto
}

// CategoriesResponse is the body of GET /categories/.
type CategoriesResponse struct {
	Categories []CategoryDTO `json:"categories"`
}

// CategoryDTO is one node of the wire category tree.
type CategoryDTO struct {
	ID            string         `json:"id"`
	Name          item.Localized `json:"name"`
	Subcategories []CategoryDTO  `json:"subcategories,omitempty"`
}

// ToDomain converts the wire tree, bounded by category.MaxDepth.
func (d *CategoryDTO) ToDomain() category.Category {
	return d.toDomain(0)
}

func (d *CategoryDTO) toDomain(depth int) category.Category {
	c := category.Category{ID: d.ID, Names: d.Name}
	if depth+1 >= category.MaxDepth {
		return c
	}
	for i := range d.Subcategories {
		c.Subcategories = append(c.Subcategories, d.Subcategories[i].toDomain(depth+1))
	}
	return c
}

// CategoryFromDomain builds the wire shape of a category tree.
func CategoryFromDomain(c *category.Category) CategoryDTO {
	dto := CategoryDTO{ID: c.ID, Name: c.Names}
	for i := range c.Subcategories {
		dto.Subcategories = append(dto.Subcategories, CategoryFromDomain(&c.Subcategories[i]))
	}
	return dto
}
