// Package tui is the interactive catalog browser built on bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalog/internal/domain"
	"github.com/kailas-cloud/catalog/internal/domain/category"
	"github.com/kailas-cloud/catalog/internal/domain/item"
	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/domain/search/match"
	"github.com/kailas-cloud/catalog/internal/domain/search/sortkey"
	"github.com/kailas-cloud/catalog/internal/transport/tui/styles"
	"github.com/kailas-cloud/catalog/internal/usecase/browse"
)

// chrome is the number of rows taken by the header, filter line, status, toast and help.
const chrome = 8

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modePicker
)

// actionDoneMsg reports the end of a controller action run as a command.
type actionDoneMsg struct {
	op  string
	err error
}

type categoriesMsg struct {
	entries []category.Entry
	err     error
}

// Config wires the App.
type Config struct {
	Browser       Browser
	Categories    CategorySource
	Logger        *zap.Logger
	ToastDuration time.Duration
}

// App is the browser model. Controller actions run as commands; views and notifications
// come back through the Bridge.
type App struct {
	ctx     context.Context
	browser Browser
	cont    *browse.Continuation
	cats    CategorySource
	logger  *zap.Logger

	styles *styles.Styles
	keys   *KeyMap
	help   help.Model
	input  textinput.Model
	list   *ResultList
	toast  *Toast
	picker *Picker

	mode   mode
	view   browse.View
	width  int
	height int
}

var _ tea.Model = (*App)(nil)

// NewApp creates the model.
func NewApp(cfg *Config) (*App, error) {
	if cfg == nil || cfg.Browser == nil {
		return nil, errors.New("creating app: browser is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := styles.DefaultStyles()
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search identifiers and titles"
	ti.CharLimit = match.MaxTermLength
	ti.SetValue(cfg.Browser.Snapshot().Selection.Search())

	a := &App{
		ctx:     context.Background(),
		browser: cfg.Browser,
		cont:    browse.NewContinuation(cfg.Browser),
		cats:    cfg.Categories,
		logger:  logger,
		styles:  s,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		input:   ti,
		list:    NewResultList(s),
		toast:   NewToast(s, cfg.ToastDuration),
	}
	a.SetDimensions(80, 24)
	return a, nil
}

// WithContext sets the context passed to controller actions.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// SetDimensions resizes the model.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.input.Width = max(width-8, 10)
	a.help.Width = width
	a.list.SetDimensions(width, max(height-chrome, 1))
}

// Init loads the first page.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("catalog"),
		a.run("start", a.browser.Start),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, a.continuation()

	case viewMsg:
		if msg.view.Revision < a.view.Revision {
			return a, nil
		}
		a.view = msg.view
		a.list.SetView(msg.view)
		a.cont.Sync(msg.view)
		return a, a.continuation()

	case toastMsg:
		return a, a.toast.Show(msg.text, msg.level)

	case toastExpiredMsg:
		a.toast.expire(msg.seq)
		return a, nil

	case categoriesMsg:
		return a, a.openCategories(msg)

	case actionDoneMsg:
		return a, a.actionDone(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		switch a.mode {
		case modeSearch:
			return a, a.updateSearch(msg)
		case modePicker:
			return a, a.updatePicker(msg)
		default:
			return a, a.updateBrowse(msg)
		}
	}
	return a, nil
}

func (a *App) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.Search):
		a.mode = modeSearch
		return a.input.Focus()
	case key.Matches(msg, a.keys.Up):
		a.list.MoveUp()
	case key.Matches(msg, a.keys.Down):
		a.list.MoveDown()
		return a.continuation()
	case key.Matches(msg, a.keys.PageDown):
		a.list.PageDown()
		return a.continuation()
	case key.Matches(msg, a.keys.Type):
		a.openPicker(filter.DimensionType, a.typeOptions())
	case key.Matches(msg, a.keys.Language):
		a.openPicker(filter.DimensionLanguage, a.languageOptions())
	case key.Matches(msg, a.keys.Category):
		return a.loadCategories()
	case key.Matches(msg, a.keys.Sort):
		return a.cycleSort()
	case key.Matches(msg, a.keys.Reset):
		return a.run("reset_filters", a.browser.ResetFilters)
	case key.Matches(msg, a.keys.Retry):
		return a.run("start", a.browser.Start)
	}
	return nil
}

func (a *App) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Submit):
		a.mode = modeBrowse
		a.input.Blur()
		term := strings.TrimSpace(a.input.Value())
		return a.run("set_search", func(ctx context.Context) error {
			return a.browser.SetSearch(ctx, term)
		})
	case key.Matches(msg, a.keys.Cancel):
		a.mode = modeBrowse
		a.input.Blur()
		a.input.SetValue(a.view.Selection.Search())
		return nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return cmd
}

func (a *App) updatePicker(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Up):
		a.picker.moveUp()
	case key.Matches(msg, a.keys.Down):
		a.picker.moveDown()
	case key.Matches(msg, a.keys.Cancel):
		a.closePicker()
	case key.Matches(msg, a.keys.Submit):
		dim, value := a.picker.Dimension(), a.picker.Value()
		a.closePicker()
		return a.run("set_constraint", func(ctx context.Context) error {
			return a.browser.SetConstraint(ctx, dim, value)
		})
	}
	return nil
}

// continuation fires a page load when the sentinel row is on screen.
func (a *App) continuation() tea.Cmd {
	if !a.list.SentinelVisible() || !a.cont.Armed() {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		fired, err := a.cont.Visible(ctx)
		if !fired {
			return nil
		}
		return actionDoneMsg{op: "load_more", err: err}
	}
}

func (a *App) actionDone(msg actionDoneMsg) tea.Cmd {
	switch {
	case msg.err == nil, errors.Is(msg.err, context.Canceled):
		return nil
	case errors.Is(msg.err, domain.ErrInvalidSelection):
		return a.toast.Show(msg.err.Error(), browse.LevelWarning)
	default:
		// the controller has already notified
		a.logger.Debug("action failed", zap.String("op", msg.op), zap.Error(msg.err))
		return nil
	}
}

func (a *App) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return actionDoneMsg{op: op, err: fn(ctx)}
	}
}

func (a *App) cycleSort() tea.Cmd {
	keys := sortkey.All()
	next := keys[(slices.Index(keys, a.view.Sort)+1)%len(keys)]
	return func() tea.Msg {
		return actionDoneMsg{op: "change_sort", err: a.browser.ChangeSort(next)}
	}
}

func (a *App) loadCategories() tea.Cmd {
	if a.cats == nil {
		return a.toast.Show("Categories are unavailable", browse.LevelWarning)
	}
	ctx := a.ctx
	return func() tea.Msg {
		entries, err := a.cats.Entries(ctx)
		return categoriesMsg{entries: entries, err: err}
	}
}

func (a *App) openCategories(msg categoriesMsg) tea.Cmd {
	if msg.err != nil {
		a.logger.Warn("categories failed", zap.Error(msg.err))
		return a.toast.Show("Could not load categories", browse.LevelError)
	}
	opts := make([]option, 0, len(msg.entries))
	for _, e := range msg.entries {
		opts = append(opts, option{label: e.Label, value: e.ID, depth: e.Depth})
	}
	a.openPicker(filter.DimensionCategory, opts)
	return nil
}

func (a *App) openPicker(dim filter.Dimension, opts []option) {
	current := ""
	if d, v, ok := a.view.Selection.Constraint(); ok && d == dim {
		current = v
	}
	a.picker = newPicker(a.styles, dim, current, opts, a.list.height)
	a.mode = modePicker
}

func (a *App) closePicker() {
	a.picker = nil
	a.mode = modeBrowse
}

// typeOptions lists the relation types followed by item types seen so far.
func (a *App) typeOptions() []option {
	opts := make([]option, 0, len(item.Relations()))
	for _, r := range item.Relations() {
		opts = append(opts, option{label: string(r), value: string(r)})
	}
	for _, t := range a.seen(func(at item.Attributes) string { return at.Type }) {
		opts = append(opts, option{label: t, value: t})
	}
	return opts
}

func (a *App) languageOptions() []option {
	langs := a.seen(func(at item.Attributes) string { return at.Language })
	opts := make([]option, 0, len(langs))
	for _, l := range langs {
		opts = append(opts, option{label: l, value: l})
	}
	return opts
}

// seen returns the sorted distinct non-empty attribute values of the loaded items.
func (a *App) seen(attr func(item.Attributes) string) []string {
	st := a.browser.Snapshot()
	set := make(map[string]struct{})
	for i := range st.Accumulated {
		if v := attr(st.Accumulated[i].Attributes()); v != "" {
			set[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Searching reports whether the search input has focus.
func (a *App) Searching() bool { return a.mode == modeSearch }

// Picking reports whether a constraint picker is open.
func (a *App) Picking() bool { return a.mode == modePicker }

// CurrentView returns the last applied controller view.
func (a *App) CurrentView() browse.View { return a.view }

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("catalog"))
	b.WriteByte('\n')
	b.WriteString(a.styles.InputField.Render(a.input.View()))
	b.WriteByte('\n')
	b.WriteString(a.filterLine())
	b.WriteByte('\n')

	if a.mode == modePicker && a.picker != nil {
		b.WriteString(a.picker.View())
	} else {
		b.WriteString(a.list.View())
	}
	b.WriteByte('\n')
	b.WriteString(a.statusLine())

	if a.toast.Visible() {
		b.WriteByte('\n')
		b.WriteString(a.toast.View())
	}
	b.WriteByte('\n')
	b.WriteString(a.help.ShortHelpView(a.keys.ShortHelp()))
	return lipgloss.NewStyle().MaxWidth(max(a.width, 1)).Render(b.String())
}

func (a *App) filterLine() string {
	parts := []string{"sort: " + a.view.Sort.Label()}
	if d, v, ok := a.view.Selection.Constraint(); ok {
		parts = append([]string{fmt.Sprintf("%s: %s", d, v)}, parts...)
	}
	if t := a.view.Selection.Search(); t != "" {
		parts = append([]string{fmt.Sprintf("search: %q", t)}, parts...)
	}
	return a.styles.Muted.Render(strings.Join(parts, "  ·  "))
}

func (a *App) statusLine() string {
	st := a.view.Status
	var text string
	switch {
	case st.Loading && len(a.view.Items) == 0:
		text = "loading…"
	case st.Message != "":
		text = st.Message
	case st.HasMore:
		text = fmt.Sprintf("%d items, scroll for more", len(a.view.Items))
	default:
		text = fmt.Sprintf("%d items", len(a.view.Items))
	}
	return a.styles.StatusBar.Render(text)
}
