package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kailas-cloud/catalog/internal/domain/item"
	"github.com/kailas-cloud/catalog/internal/transport/tui/styles"
	"github.com/kailas-cloud/catalog/internal/usecase/browse"
)

// ResultList draws the displayed items, skeleton rows while the first page loads, and the
// end-of-list sentinel row while more pages exist.
type ResultList struct {
	styles *styles.Styles

	items        []item.Item
	status       browse.Status
	placeholders int

	cursor int
	offset int
	width  int
	height int
}

// NewResultList creates an empty list.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ResultList{styles: s, width: 80, height: 10}
}

// SetView replaces the rows with a controller view. The cursor is kept when possible.
func (l *ResultList) SetView(v browse.View) {
	l.items = v.Items
	l.status = v.Status
	l.placeholders = v.Placeholders
	if l.cursor >= len(l.items) {
		l.cursor = max(len(l.items)-1, 0)
	}
	l.clampOffset()
}

// SetDimensions sets the drawing area.
func (l *ResultList) SetDimensions(width, height int) {
	l.width = width
	l.height = max(height, 1)
	l.clampOffset()
}

// Count returns the number of items.
func (l *ResultList) Count() int { return len(l.items) }

// Selected returns the cursor position.
func (l *ResultList) Selected() int { return l.cursor }

// SelectedItem returns the item under the cursor.
func (l *ResultList) SelectedItem() (item.Item, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return item.Item{}, false
	}
	return l.items[l.cursor], true
}

// HasSentinel reports whether the sentinel row exists.
func (l *ResultList) HasSentinel() bool {
	return len(l.items) > 0 && l.status.HasMore
}

// SentinelVisible reports whether the sentinel row falls inside the visible window.
func (l *ResultList) SentinelVisible() bool {
	return l.HasSentinel() && len(l.items) < l.offset+l.height
}

// MoveUp moves the cursor one row up.
func (l *ResultList) MoveUp() { l.moveTo(l.cursor - 1) }

// MoveDown moves the cursor one row down.
func (l *ResultList) MoveDown() { l.moveTo(l.cursor + 1) }

// PageDown moves the cursor one window down.
func (l *ResultList) PageDown() { l.moveTo(l.cursor + l.height) }

func (l *ResultList) moveTo(i int) {
	if len(l.items) == 0 {
		l.cursor = 0
		return
	}
	l.cursor = min(max(i, 0), len(l.items)-1)
	l.clampOffset()
}

// clampOffset keeps the cursor inside the window. At the last item the window also
// covers the sentinel row.
func (l *ResultList) clampOffset() {
	rows := len(l.items)
	if l.HasSentinel() {
		rows++
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
	if l.HasSentinel() && l.cursor == len(l.items)-1 && l.height > 1 {
		l.offset = max(l.offset, rows-l.height)
	}
	l.offset = max(min(l.offset, rows-l.height), 0)
}

// View renders the visible rows.
func (l *ResultList) View() string {
	if len(l.items) == 0 {
		if l.placeholders > 0 {
			return l.skeleton()
		}
		if l.status.Message != "" {
			return l.styles.Muted.Render(l.status.Message)
		}
		return ""
	}

	var b strings.Builder
	end := min(l.offset+l.height, len(l.items))
	for i := l.offset; i < end; i++ {
		if i > l.offset {
			b.WriteByte('\n')
		}
		b.WriteString(l.row(i))
	}
	if l.SentinelVisible() {
		b.WriteByte('\n')
		b.WriteString(l.sentinel())
	}
	return b.String()
}

func (l *ResultList) row(i int) string {
	it := &l.items[i]
	title := it.Title()
	if title == "" {
		title = it.ID()
	}
	line := fmt.Sprintf("%3d. %s", i+1, title)
	if badges := badgesOf(it); badges != "" {
		line += "  " + l.styles.Badge.Render(badges)
	}
	line = lipgloss.NewStyle().MaxWidth(max(l.width, 1)).Render(line)
	if i == l.cursor {
		return l.styles.Selected.Render(line)
	}
	return l.styles.Normal.Render(line)
}

func (l *ResultList) sentinel() string {
	if l.status.Loading {
		return l.styles.Muted.Render("     loading more…")
	}
	return l.styles.Muted.Render("     …")
}

func (l *ResultList) skeleton() string {
	n := min(l.placeholders, l.height)
	bar := strings.Repeat("░", max(min(l.width-6, 40), 4))
	rows := make([]string, n)
	for i := range rows {
		rows[i] = l.styles.Placeholder.Render("     " + bar)
	}
	return strings.Join(rows, "\n")
}

func badgesOf(it *item.Item) string {
	a := it.Attributes()
	var parts []string
	for _, v := range []string{a.Type, a.Language, a.Category} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " · ")
}
