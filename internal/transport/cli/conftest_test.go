package cli

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/catalog/internal/domain/category"
	"github.com/kailas-cloud/catalog/internal/domain/item"
	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/domain/search/page"
	"github.com/kailas-cloud/catalog/internal/usecase/health"
)

type fakeGateway struct {
	mu    sync.Mutex
	pages map[int][]item.Item
	err   error
	exprs []filter.Expression
}

func (g *fakeGateway) FetchPage(_ context.Context, expr filter.Expression, cur page.Cursor) (page.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.exprs = append(g.exprs, expr)
	if g.err != nil {
		return page.Result{}, g.err
	}
	return page.Result{
		Items:   g.pages[cur.Page()],
		HasMore: cur.Page() < len(g.pages),
		Total:   -1,
	}, nil
}

type fakeSource struct {
	roots []category.Category
	err   error
}

func (s *fakeSource) FetchCategories(context.Context) ([]category.Category, error) {
	return s.roots, s.err
}

func mkItem(t *testing.T, id, title, lang string) item.Item {
	t.Helper()
	it, err := item.New(id,
		item.NewLocalized(item.Text{Lang: "en", Value: title}),
		item.NewLocalized(item.Text{Lang: "en", Value: "Author " + id}),
		nil,
		item.Attributes{Language: lang},
	)
	require.NoError(t, err)
	return it
}

type fakeHealth struct {
	report health.Report
}

func (h *fakeHealth) Check(context.Context) health.Report { return h.report }

type fakeCache struct {
	n   int
	err error
}

func (c *fakeCache) Purge(context.Context) (int, error) { return c.n, c.err }

type fixture struct {
	gw      *fakeGateway
	src     *fakeSource
	health  HealthChecker
	cache   CachePurger
	calls   int
	lastEnv string
	err     error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		gw: &fakeGateway{pages: map[int][]item.Item{
			1: {mkItem(t, "P1", "Alpha", "en"), mkItem(t, "P2", "Beta", "sa")},
			2: {mkItem(t, "P3", "Gamma", "en"), mkItem(t, "P4", "Delta", "en")},
			3: {mkItem(t, "P5", "Epsilon", "en")},
		}},
		src: &fakeSource{roots: []category.Category{{
			ID:    "sutra",
			Names: item.NewLocalized(item.Text{Lang: "en", Value: "Sutra"}),
			Subcategories: []category.Category{{
				ID:    "sutra.early",
				Names: item.NewLocalized(item.Text{Lang: "en", Value: "Early"}),
			}},
		}}},
	}
}

func (f *fixture) factory(_ context.Context, env string, _ bool) (*Runtime, error) {
	f.calls++
	f.lastEnv = env
	if f.err != nil {
		return nil, f.err
	}
	return &Runtime{Gateway: f.gw, Categories: f.src, PageSize: 2, Health: f.health, Cache: f.cache}, nil
}

// run executes the command tree and returns stdout and stderr.
func (f *fixture) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root := NewRootCmd(f.factory, "test")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

var errDown = errors.New("connection refused")
