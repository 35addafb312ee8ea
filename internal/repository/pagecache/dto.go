package pagecache

import (
	"github.com/kailas-cloud/catalog/internal/domain/item"
	"github.com/kailas-cloud/catalog/internal/domain/search/page"
)

// cachedPage is the stored JSON form of a page.Result.
type cachedPage struct {
	Items   []cachedItem `json:"items"`
	HasMore bool         `json:"has_more"`
	Total   int          `json:"total"`
}

type cachedItem struct {
	ID        string                   `json:"id"`
	Titles    item.Localized           `json:"titles"`
	Authors   item.Localized           `json:"authors"`
	Relations map[item.Relation]string `json:"relations,omitempty"`
	Type      string                   `json:"type,omitempty"`
	Language  string                   `json:"language,omitempty"`
	Category  string                   `json:"category,omitempty"`
}

func toCached(r *page.Result) cachedPage {
	out := cachedPage{Items: make([]cachedItem, 0, len(r.Items)), HasMore: r.HasMore, Total: r.Total}
	for i := range r.Items {
		it := &r.Items[i]
		attrs := it.Attributes()
		ci := cachedItem{
			ID:       it.ID(),
			Titles:   it.Titles(),
			Authors:  it.Authors(),
			Type:     attrs.Type,
			Language: attrs.Language,
			Category: attrs.Category,
		}
		for _, rel := range item.Relations() {
			if ref, ok := it.Related(rel); ok {
				if ci.Relations == nil {
					ci.Relations = make(map[item.Relation]string, 3)
				}
				ci.Relations[rel] = ref
			}
		}
		out.Items = append(out.Items, ci)
	}
	return out
}

func fromCached(c *cachedPage) (page.Result, error) {
	items := make([]item.Item, 0, len(c.Items))
	for i := range c.Items {
		ci := &c.Items[i]
		it, err := item.New(ci.ID, ci.Titles, ci.Authors, ci.Relations, item.Attributes{
			Type:     ci.Type,
			Language: ci.Language,
			Category: ci.Category,
		})
		if err != nil {
			return page.Result{}, err
		}
		items = append(items, it)
	}
	return page.Result{Items: items, HasMore: c.HasMore, Total: c.Total}, nil
}
