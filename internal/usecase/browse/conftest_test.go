package browse

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/kailas-cloud/catalog/internal/domain/item"
	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/domain/search/page"
)

type fetchCall struct {
	expr filter.Expression
	cur  page.Cursor
}

// mockGateway records calls; fn decides the response.
type mockGateway struct {
	mu    sync.Mutex
	calls []fetchCall
	fn    func(expr filter.Expression, cur page.Cursor) (page.Result, error)
}

func (m *mockGateway) FetchPage(_ context.Context, expr filter.Expression, cur page.Cursor) (page.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, fetchCall{expr: expr, cur: cur})
	fn := m.fn
	m.mu.Unlock()
	if fn == nil {
		return page.Result{Total: -1}, nil
	}
	return fn(expr, cur)
}

func (m *mockGateway) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockGateway) lastCall() fetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

type mockRenderer struct {
	mu    sync.Mutex
	views []View
}

func (m *mockRenderer) Render(v View) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views = append(m.views, v)
}

func (m *mockRenderer) last() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.views[len(m.views)-1]
}

type notification struct {
	message string
	level   Level
}

type mockNotifier struct {
	mu    sync.Mutex
	notes []notification
}

func (m *mockNotifier) Notify(message string, level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = append(m.notes, notification{message: message, level: level})
}

func (m *mockNotifier) all() []notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notification(nil), m.notes...)
}

func mkItem(t *testing.T, id, title string) item.Item {
	t.Helper()
	var titles item.Localized
	if title != "" {
		titles = item.NewLocalized(item.Text{Lang: "en", Value: title})
	}
	it, err := item.New(id, titles, item.Localized{}, nil, item.Attributes{})
	if err != nil {
		t.Fatal(err)
	}
	return it
}

func ids(items []item.Item) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID()
	}
	return out
}

func exprJSON(t *testing.T, e filter.Expression) string {
	t.Helper()
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func withConstraint(t *testing.T, s filter.Selection, d filter.Dimension, v string) filter.Selection {
	t.Helper()
	out, err := s.WithConstraint(d, v)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

type fixture struct {
	gw   *mockGateway
	rnd  *mockRenderer
	ntf  *mockNotifier
	ctrl *Controller
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{gw: &mockGateway{}, rnd: &mockRenderer{}, ntf: &mockNotifier{}}
	opts = append([]Option{WithRenderer(f.rnd), WithNotifier(f.ntf), WithPageSize(2)}, opts...)
	f.ctrl = New(f.gw, opts...)
	return f
}
