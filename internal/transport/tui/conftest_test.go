package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/catalog/internal/domain/category"
	"github.com/kailas-cloud/catalog/internal/domain/item"
	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/domain/search/page"
	"github.com/kailas-cloud/catalog/internal/usecase/browse"
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

func (g *fakeGateway) calls() []filter.Expression {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]filter.Expression(nil), g.exprs...)
}

type fakeCategories struct {
	entries []category.Entry
	err     error
}

func (f *fakeCategories) Entries(context.Context) ([]category.Entry, error) {
	return f.entries, f.err
}

func mkItem(t *testing.T, id, title, lang string) item.Item {
	t.Helper()
	it, err := item.New(id,
		item.NewLocalized(item.Text{Lang: "en", Value: title}),
		item.Localized{}, nil,
		item.Attributes{Language: lang},
	)
	require.NoError(t, err)
	return it
}

// harness wires a real controller to the app through a bridge that queues messages.
type harness struct {
	t    *testing.T
	gw   *fakeGateway
	ctrl *browse.Controller
	app  *App

	mu    sync.Mutex
	queue []tea.Msg
}

func newHarness(t *testing.T, cats CategorySource) *harness {
	t.Helper()
	h := &harness{
		t: t,
		gw: &fakeGateway{pages: map[int][]item.Item{
			1: {mkItem(t, "P1", "Alpha", "en"), mkItem(t, "P2", "Beta", "sa")},
			2: {mkItem(t, "P3", "Gamma", "en")},
		}},
	}
	bridge := NewBridge()
	bridge.Attach(func(msg tea.Msg) {
		h.mu.Lock()
		h.queue = append(h.queue, msg)
		h.mu.Unlock()
	})
	h.ctrl = browse.New(h.gw,
		browse.WithRenderer(bridge),
		browse.WithNotifier(bridge),
		browse.WithPageSize(2),
	)
	app, err := NewApp(&Config{Browser: h.ctrl, Categories: cats})
	require.NoError(t, err)
	h.app = app
	return h
}

// exec runs cmd, feeds its result to the app, then delivers queued bridge messages.
// It returns the commands produced by those deliveries.
func (h *harness) exec(cmd tea.Cmd) []tea.Cmd {
	h.t.Helper()
	require.NotNil(h.t, cmd)
	var out []tea.Cmd
	if msg := cmd(); msg != nil {
		if c := h.update(msg); c != nil {
			out = append(out, c)
		}
	}
	return append(out, h.flush()...)
}

func (h *harness) flush() []tea.Cmd {
	h.mu.Lock()
	queued := h.queue
	h.queue = nil
	h.mu.Unlock()

	var out []tea.Cmd
	for _, msg := range queued {
		if c := h.update(msg); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (h *harness) update(msg tea.Msg) tea.Cmd {
	_, cmd := h.app.Update(msg)
	return cmd
}

// start loads the first page the way Init does.
func (h *harness) start() []tea.Cmd {
	h.t.Helper()
	return h.exec(h.app.run("start", h.ctrl.Start))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
