package tui

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/transport/tui/styles"
)

// option is one picker row. An empty value clears the constraint.
type option struct {
	label string
	value string
	depth int
}

// Picker chooses the value of one structured constraint.
type Picker struct {
	styles  *styles.Styles
	dim     filter.Dimension
	options []option
	cursor  int
	height  int
}

func newPicker(s *styles.Styles, dim filter.Dimension, current string, opts []option, height int) *Picker {
	all := append([]option{{label: "any"}}, opts...)
	p := &Picker{styles: s, dim: dim, options: all, height: max(height, 1)}
	for i, o := range all {
		if o.value == current {
			p.cursor = i
			break
		}
	}
	return p
}

// Dimension returns the constraint the picker edits.
func (p *Picker) Dimension() filter.Dimension { return p.dim }

// Value returns the highlighted value.
func (p *Picker) Value() string { return p.options[p.cursor].value }

// Len returns the number of rows, including "any".
func (p *Picker) Len() int { return len(p.options) }

func (p *Picker) moveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *Picker) moveDown() {
	if p.cursor < len(p.options)-1 {
		p.cursor++
	}
}

// View renders the visible rows around the cursor.
func (p *Picker) View() string {
	var b strings.Builder
	b.WriteString(p.styles.Title.Render(fmt.Sprintf("Filter by %s", p.dim)))

	rows := max(p.height-1, 1)
	start := max(min(p.cursor-rows/2, len(p.options)-rows), 0)
	end := min(start+rows, len(p.options))
	for i := start; i < end; i++ {
		o := p.options[i]
		line := strings.Repeat("  ", o.depth) + o.label
		b.WriteByte('\n')
		if i == p.cursor {
			b.WriteString(p.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(p.styles.Normal.Render("  " + line))
		}
	}
	return b.String()
}
