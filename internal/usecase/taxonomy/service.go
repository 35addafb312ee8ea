package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalog/internal/domain"
	"github.com/kailas-cloud/catalog/internal/domain/category"
)

// Service fetches the category tree once per session and caches it.
// Malformed data degrades to an empty tree; transport errors are returned and retried on
// the next call.
type Service struct {
	source Source
	logger *zap.Logger

	mu     sync.Mutex
	tree   []category.Category
	loaded bool
}

// New creates a taxonomy service.
func New(source Source, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, logger: logger}
}

// Categories returns the category tree.
func (s *Service) Categories(ctx context.Context) ([]category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.tree, nil
	}

	tree, err := s.source.FetchCategories(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrMalformedResponse):
		s.logger.Warn("Category tree is malformed, using an empty list", zap.Error(err))
		tree = nil
	default:
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	s.tree = tree
	s.loaded = true
	return s.tree, nil
}

// Entries returns the flattened, depth-annotated tree for pickers.
func (s *Service) Entries(ctx context.Context) ([]category.Entry, error) {
	tree, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return category.Flatten(tree), nil
}
