package tui

import (
	"context"

	"github.com/kailas-cloud/catalog/internal/domain/category"
	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/domain/search/sortkey"
	"github.com/kailas-cloud/catalog/internal/usecase/browse"
)

// Browser is the result-set controller as seen by the UI.
type Browser interface {
	Start(ctx context.Context) error
	SetSearch(ctx context.Context, term string) error
	SetConstraint(ctx context.Context, dim filter.Dimension, value string) error
	ResetFilters(ctx context.Context) error
	ChangeSort(k sortkey.Key) error
	LoadMore(ctx context.Context) error
	Flags() browse.Flags
	Snapshot() browse.State
	PageSize() int
}

// CategorySource lists taxonomy rows for the category picker.
type CategorySource interface {
	Entries(ctx context.Context) ([]category.Entry, error)
}
