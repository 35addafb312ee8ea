package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kailas-cloud/catalog/internal/usecase/browse"
)

// viewMsg carries a controller view into the update loop.
type viewMsg struct {
	view browse.View
}

// toastMsg carries a controller notification into the update loop.
type toastMsg struct {
	text  string
	level browse.Level
}

// Bridge adapts the program to browse.Renderer and browse.Notifier.
//
// Program.Send blocks until the update loop receives the message, so controller actions
// must run inside tea.Cmd goroutines, never inside Update.
type Bridge struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

var (
	_ browse.Renderer = (*Bridge)(nil)
	_ browse.Notifier = (*Bridge)(nil)
)

// NewBridge creates a detached bridge. Messages are dropped until Attach.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes messages to send, typically (*tea.Program).Send.
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

// Render implements browse.Renderer.
func (b *Bridge) Render(v browse.View) {
	b.dispatch(viewMsg{view: v})
}

// Notify implements browse.Notifier.
func (b *Bridge) Notify(message string, level browse.Level) {
	b.dispatch(toastMsg{text: message, level: level})
}

func (b *Bridge) dispatch(msg tea.Msg) {
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}
