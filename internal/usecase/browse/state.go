package browse

import (
	"slices"

	"github.com/kailas-cloud/catalog/internal/domain/item"
	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/domain/search/page"
	"github.com/kailas-cloud/catalog/internal/domain/search/sortkey"
)

// NoResultsMessage is the status message of an empty, settled result set.
const NoResultsMessage = "No results"

// Phase is the controller lifecycle stage.
type Phase int

// Phases.
const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseLoadingMore
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseLoadingMore:
		return "loading_more"
	default:
		return "idle"
	}
}

// Flags are the mutually exclusive status flags. At most one is set.
type Flags struct {
	InitialLoading bool
	LoadingMore    bool
	Exhausted      bool
}

// Busy reports whether a fetch owned by the controller is in flight.
func (f Flags) Busy() bool { return f.InitialLoading || f.LoadingMore }

// State is a read-only copy of the result set.
type State struct {
	Phase       Phase
	Accumulated []item.Item
	Displayed   []item.Item
	Selection   filter.Selection
	Sort        sortkey.Key
	// Cursor is the last page successfully loaded.
	Cursor     page.Cursor
	Flags      Flags
	Generation uint64
}

// Status accompanies the displayed list for the continuation sentinel.
type Status struct {
	Loading bool
	HasMore bool
	Message string
}

// View is what the rendering surface draws.
type View struct {
	Items        []item.Item
	Status       Status
	Placeholders int
	Selection    filter.Selection
	Sort         sortkey.Key
	Generation   uint64
	// Revision increases with every emitted view; renderers drop older revisions.
	Revision uint64
}

type busyKind int

const (
	busyNone busyKind = iota
	busyInitial
	busyMore
)

// state is the mutable aggregate owned by the Controller.
// Flags derive from busy and exhausted, so they cannot overlap.
type state struct {
	accumulated []item.Item
	displayed   []item.Item
	seen        map[string]struct{}
	selection   filter.Selection
	// settled is the selection the accumulated list was fetched for.
	settled    filter.Selection
	sort       sortkey.Key
	cursor     page.Cursor
	busy       busyKind
	exhausted  bool
	loaded     bool
	generation uint64
	revision   uint64
}

func (s *state) phase() Phase {
	switch {
	case s.busy == busyInitial:
		return PhaseLoading
	case s.busy == busyMore:
		return PhaseLoadingMore
	case s.loaded:
		return PhaseReady
	default:
		return PhaseIdle
	}
}

func (s *state) flags() Flags {
	return Flags{
		InitialLoading: s.busy == busyInitial,
		LoadingMore:    s.busy == busyMore,
		Exhausted:      s.busy == busyNone && s.exhausted,
	}
}

// replace discards the accumulated list and starts over from items.
func (s *state) replace(items []item.Item) {
	s.accumulated = make([]item.Item, 0, len(items))
	s.seen = make(map[string]struct{}, len(items))
	s.append(items)
}

// append adds items not seen yet, preserving arrival order.
func (s *state) append(items []item.Item) int {
	if s.seen == nil {
		s.seen = make(map[string]struct{}, len(items))
	}
	added := 0
	for i := range items {
		id := items[i].ID()
		if _, dup := s.seen[id]; dup {
			continue
		}
		s.seen[id] = struct{}{}
		s.accumulated = append(s.accumulated, items[i])
		added++
	}
	return added
}

func (s *state) snapshot() State {
	return State{
		Phase:       s.phase(),
		Accumulated: slices.Clone(s.accumulated),
		Displayed:   slices.Clone(s.displayed),
		Selection:   s.selection,
		Sort:        s.sort,
		Cursor:      s.cursor,
		Flags:       s.flags(),
		Generation:  s.generation,
	}
}
