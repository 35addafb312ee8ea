package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kailas-cloud/catalog/internal/transport/tui/styles"
	"github.com/kailas-cloud/catalog/internal/usecase/browse"
)

// DefaultToastDuration is how long a notification stays on screen.
const DefaultToastDuration = 3 * time.Second

type toastExpiredMsg struct {
	seq uint64
}

// Toast shows one notification at a time. A newer notification replaces the current one.
type Toast struct {
	styles   *styles.Styles
	duration time.Duration

	text  string
	level browse.Level
	seq   uint64
}

// NewToast creates an empty toast. A non-positive duration means DefaultToastDuration.
func NewToast(s *styles.Styles, d time.Duration) *Toast {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if d <= 0 {
		d = DefaultToastDuration
	}
	return &Toast{styles: s, duration: d}
}

// Show replaces the current notification and schedules its dismissal.
func (t *Toast) Show(text string, level browse.Level) tea.Cmd {
	t.seq++
	t.text = text
	t.level = level
	seq := t.seq
	return tea.Tick(t.duration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// expire dismisses the notification if it is still the one the timer belongs to.
func (t *Toast) expire(seq uint64) {
	if seq == t.seq {
		t.text = ""
	}
}

// Visible reports whether a notification is on screen.
func (t *Toast) Visible() bool { return t.text != "" }

// Text returns the current notification text.
func (t *Toast) Text() string { return t.text }

// Level returns the current notification level.
func (t *Toast) Level() browse.Level { return t.level }

// View renders the notification.
func (t *Toast) View() string {
	if t.text == "" {
		return ""
	}
	switch t.level {
	case browse.LevelSuccess:
		return t.styles.ToastSuccess.Render(t.text)
	case browse.LevelWarning:
		return t.styles.ToastWarning.Render(t.text)
	case browse.LevelError:
		return t.styles.ToastError.Render(t.text)
	default:
		return t.styles.ToastInfo.Render(t.text)
	}
}
