package taxonomy

import (
	"context"

	"github.com/kailas-cloud/catalog/internal/domain/category"
)

// Source fetches the category tree from the remote collection.
type Source interface {
	FetchCategories(ctx context.Context) ([]category.Category, error)
}
