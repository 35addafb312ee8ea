package browse

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/catalog/internal/domain"
	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/domain/search/match"
	"github.com/kailas-cloud/catalog/internal/domain/search/page"
	"github.com/kailas-cloud/catalog/internal/domain/search/sortkey"
)

// Controller owns the result set of one browse session: filter, sort and pagination state.
//
// With a structured constraint the controller is in remote mode and every filter change
// refetches page 1. Without one it is in local mode and the free-text term is applied to the
// accumulated list without a network call. Every fetch captures the generation; a response
// whose generation is no longer current is dropped.
//
// Actions are safe for concurrent use. Fetches, Render and Notify run outside the lock.
type Controller struct {
	gateway  Gateway
	renderer Renderer
	notifier Notifier
	cmp      *sortkey.Comparator
	pageSize int
	session  string
	logger   *zap.Logger

	mu sync.Mutex
	st state
}

// Option configures the Controller.
type Option interface {
	apply(*Controller)
}

type optionFunc func(*Controller)

func (f optionFunc) apply(c *Controller) { f(c) }

// WithRenderer sets the view receiver.
func WithRenderer(r Renderer) Option {
	return optionFunc(func(c *Controller) { c.renderer = r })
}

// WithNotifier sets the notification receiver.
func WithNotifier(n Notifier) Option {
	return optionFunc(func(c *Controller) { c.notifier = n })
}

// WithComparator sets the title collation.
func WithComparator(cmp *sortkey.Comparator) Option {
	return optionFunc(func(c *Controller) { c.cmp = cmp })
}

// WithPageSize fixes the page size for the session.
func WithPageSize(n int) Option {
	return optionFunc(func(c *Controller) { c.pageSize = n })
}

// WithSelection sets the selection used by Start.
func WithSelection(s filter.Selection) Option {
	return optionFunc(func(c *Controller) { c.st.selection = s })
}

// WithSort sets the initial sort key.
func WithSort(k sortkey.Key) Option {
	return optionFunc(func(c *Controller) {
		if k.IsValid() {
			c.st.sort = k
		}
	})
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *Controller) { c.logger = l })
}

// New creates an idle controller. Call Start to load the first page.
func New(gw Gateway, opts ...Option) *Controller {
	c := &Controller{
		gateway:  gw,
		renderer: nopRenderer{},
		notifier: nopNotifier{},
		pageSize: page.DefaultLimit,
		session:  uuid.NewString(),
		logger:   zap.NewNop(),
		st:       state{sort: sortkey.Relevance},
	}
	for _, o := range opts {
		o.apply(c)
	}
	if c.cmp == nil {
		c.cmp = sortkey.NewComparator(language.English)
	}
	c.st.cursor = page.First(c.pageSize)
	c.pageSize = c.st.cursor.Limit()
	c.logger = c.logger.With(zap.String("session", c.session))
	return c
}

// Session returns the session identifier used in logs.
func (c *Controller) Session() string { return c.session }

// PageSize returns the fixed page size.
func (c *Controller) PageSize() int { return c.pageSize }

// Snapshot returns a read-only copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.snapshot()
}

// Flags returns the status flags without copying the lists.
func (c *Controller) Flags() Flags {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.flags()
}

// View returns the current view without advancing the revision.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buildViewLocked()
}

// Start fetches page 1 for the current selection. Calling it again reloads.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	t := c.beginRefetchLocked("start", c.st.selection)
	v := c.viewLocked()
	c.mu.Unlock()

	c.renderer.Render(v)
	return c.runRefetch(ctx, t)
}

// ApplyFilter replaces the selection. Remote mode refetches page 1; local mode recomputes
// the displayed list synchronously.
func (c *Controller) ApplyFilter(ctx context.Context, sel filter.Selection) error {
	return c.apply(ctx, "apply_filter", func(s filter.Selection) (filter.Selection, error) {
		if err := match.Validate(sel.Search()); err != nil {
			return s, fmt.Errorf("%w: %w", domain.ErrInvalidSelection, err)
		}
		return sel, nil
	})
}

// SetSearch changes only the free-text term.
func (c *Controller) SetSearch(ctx context.Context, term string) error {
	return c.apply(ctx, "set_search", func(s filter.Selection) (filter.Selection, error) {
		if err := match.Validate(term); err != nil {
			return s, fmt.Errorf("%w: %w", domain.ErrInvalidSelection, err)
		}
		return s.WithSearch(term), nil
	})
}

// SetConstraint makes dim=value the only structured constraint. An empty value clears it.
func (c *Controller) SetConstraint(ctx context.Context, dim filter.Dimension, value string) error {
	return c.apply(ctx, "set_constraint", func(s filter.Selection) (filter.Selection, error) {
		next, err := s.WithConstraint(dim, value)
		if err != nil {
			return s, fmt.Errorf("%w: %w", domain.ErrInvalidSelection, err)
		}
		return next, nil
	})
}

// ResetFilters clears the structured constraint, keeps the term and refetches page 1.
func (c *Controller) ResetFilters(ctx context.Context) error {
	c.mu.Lock()
	t := c.beginRefetchLocked("reset_filters", c.st.selection.Cleared())
	t.successNote = "Filters cleared"
	v := c.viewLocked()
	c.mu.Unlock()

	c.renderer.Render(v)
	return c.runRefetch(ctx, t)
}

// ChangeSort re-orders the displayed list in place. No fetch, no flag change.
func (c *Controller) ChangeSort(k sortkey.Key) error {
	if !k.IsValid() {
		return fmt.Errorf("%w: unknown sort key %q", domain.ErrInvalidSelection, k)
	}

	c.mu.Lock()
	c.st.sort = k
	c.recomputeLocked()
	v := c.viewLocked()
	c.mu.Unlock()

	c.renderer.Render(v)
	return nil
}

// LoadMore fetches the next page with the current expression and appends it.
// It is a no-op while idle, busy or exhausted.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if !c.st.loaded || c.st.busy != busyNone || c.st.exhausted {
		c.mu.Unlock()
		return nil
	}
	c.st.busy = busyMore
	gen := c.st.generation
	expr := filter.Build(c.st.selection)
	next := c.st.cursor.Next()
	v := c.viewLocked()
	c.mu.Unlock()

	c.renderer.Render(v)

	res, err := c.gateway.FetchPage(ctx, expr, next)

	c.mu.Lock()
	if gen != c.st.generation {
		c.mu.Unlock()
		c.logger.Debug("discarding stale page", zap.Uint64("generation", gen), zap.Stringer("cursor", next))
		return nil
	}
	c.st.busy = busyNone

	var n note
	switch {
	case err == nil:
		added := c.st.append(res.Items)
		c.st.cursor = next
		c.st.exhausted = !res.HasMore
		c.logger.Debug("page appended",
			zap.Stringer("cursor", next),
			zap.Int("added", added),
			zap.Bool("has_more", res.HasMore),
		)
	case errors.Is(err, domain.ErrMalformedResponse):
		c.st.cursor = next
		c.st.exhausted = true
		n = note{message: malformedMessage, level: LevelWarning}
	default:
		n = failureNote(err)
	}
	c.recomputeLocked()
	v = c.viewLocked()
	c.mu.Unlock()

	c.renderer.Render(v)
	c.notify(n)

	if err != nil && !errors.Is(err, domain.ErrMalformedResponse) {
		return fmt.Errorf("load more: %w", err)
	}
	return nil
}

// apply changes the selection and picks the strategy: a local recompute when neither the
// current nor the new selection has a structured constraint, a page-1 refetch otherwise.
func (c *Controller) apply(
	ctx context.Context, op string, mutate func(filter.Selection) (filter.Selection, error),
) error {
	c.mu.Lock()
	sel, err := mutate(c.st.selection)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	if c.st.phase() != PhaseIdle && !sel.HasConstraint() && !c.st.selection.HasConstraint() {
		c.st.selection = sel
		if c.st.busy != busyInitial {
			c.st.settled = sel
		}
		c.recomputeLocked()
		v := c.viewLocked()
		c.mu.Unlock()

		c.renderer.Render(v)
		return nil
	}

	t := c.beginRefetchLocked(op, sel)
	v := c.viewLocked()
	c.mu.Unlock()

	c.renderer.Render(v)
	return c.runRefetch(ctx, t)
}

// refetch is one in-flight page-1 request.
type refetch struct {
	op          string
	gen         uint64
	expr        filter.Expression
	cur         page.Cursor
	selection   filter.Selection
	successNote string
}

func (c *Controller) beginRefetchLocked(op string, sel filter.Selection) refetch {
	c.st.selection = sel
	c.st.generation++
	c.st.busy = busyInitial
	return refetch{
		op:        op,
		gen:       c.st.generation,
		expr:      filter.Build(sel),
		cur:       page.First(c.pageSize),
		selection: sel,
	}
}

func (c *Controller) runRefetch(ctx context.Context, t refetch) error {
	res, err := c.gateway.FetchPage(ctx, t.expr, t.cur)

	c.mu.Lock()
	if t.gen != c.st.generation {
		c.mu.Unlock()
		c.logger.Debug("discarding stale page", zap.String("op", t.op), zap.Uint64("generation", t.gen))
		return nil
	}
	c.st.busy = busyNone

	var n note
	switch {
	case err == nil:
		c.st.replace(res.Items)
		c.settleLocked(t)
		c.st.exhausted = !res.HasMore
		if t.successNote != "" {
			n = note{message: t.successNote, level: LevelSuccess}
		}
		c.logger.Debug("results loaded",
			zap.String("op", t.op),
			zap.String("selection", t.selection.String()),
			zap.Int("items", len(res.Items)),
			zap.Bool("has_more", res.HasMore),
		)
	case errors.Is(err, domain.ErrMalformedResponse):
		c.st.replace(nil)
		c.settleLocked(t)
		c.st.exhausted = true
		n = note{message: malformedMessage, level: LevelWarning}
	default:
		// The lists still belong to the settled selection; keep the user's current term.
		if c.st.loaded {
			c.st.selection = c.st.settled.WithSearch(c.st.selection.Search())
		}
		n = failureNote(err)
	}
	c.recomputeLocked()
	v := c.viewLocked()
	c.mu.Unlock()

	c.renderer.Render(v)
	c.notify(n)

	if err != nil && !errors.Is(err, domain.ErrMalformedResponse) {
		return fmt.Errorf("%s: %w", t.op, err)
	}
	return nil
}

func (c *Controller) settleLocked(t refetch) {
	c.st.cursor = t.cur
	c.st.loaded = true
	c.st.settled = c.st.selection
}

// recomputeLocked derives the displayed list: accumulated, filtered by the term, then sorted.
func (c *Controller) recomputeLocked() {
	displayed := match.Filter(match.Normalize(c.st.selection.Search()), c.st.accumulated)
	c.cmp.Sort(displayed, c.st.sort)
	c.st.displayed = displayed
}

// viewLocked builds the next view and advances the revision.
func (c *Controller) viewLocked() View {
	c.st.revision++
	return c.buildViewLocked()
}

func (c *Controller) buildViewLocked() View {
	v := View{
		Items:      slices.Clone(c.st.displayed),
		Selection:  c.st.selection,
		Sort:       c.st.sort,
		Generation: c.st.generation,
		Revision:   c.st.revision,
	}
	v.Status.Loading = c.st.busy != busyNone
	v.Status.HasMore = c.st.loaded && c.st.busy != busyInitial && !c.st.exhausted
	if c.st.busy == busyInitial {
		v.Placeholders = c.pageSize
	}
	if c.st.loaded && c.st.busy == busyNone && len(c.st.displayed) == 0 {
		v.Status.Message = NoResultsMessage
	}
	return v
}

const malformedMessage = "The catalog sent an unexpected response; showing no results"

type note struct {
	message string
	level   Level
}

func (c *Controller) notify(n note) {
	if n.message != "" {
		c.notifier.Notify(n.message, n.level)
	}
}

// failureNote maps a fetch error to a notification. Cancellation is silent.
func failureNote(err error) note {
	if errors.Is(err, context.Canceled) {
		return note{}
	}
	var te *domain.TransportError
	if errors.As(err, &te) && te.StatusCode > 0 {
		return note{message: fmt.Sprintf("Could not load results (HTTP %d)", te.StatusCode), level: LevelError}
	}
	if errors.Is(err, domain.ErrTransport) {
		return note{message: "Could not reach the catalog", level: LevelError}
	}
	return note{message: "Could not load results", level: LevelError}
}
