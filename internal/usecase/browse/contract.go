package browse

import (
	"context"

	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/domain/search/page"
)

// Gateway fetches one page of the remote collection.
type Gateway interface {
	FetchPage(ctx context.Context, expr filter.Expression, cur page.Cursor) (page.Result, error)
}

// Renderer receives a view after every state transition. Calls may come from any goroutine.
type Renderer interface {
	Render(v View)
}

// Notifier shows a transient, fire-and-forget message.
type Notifier interface {
	Notify(message string, level Level)
}

// Level is a notification severity.
type Level string

// Notification levels.
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type nopRenderer struct{}

func (nopRenderer) Render(View) {}

type nopNotifier struct{}

func (nopNotifier) Notify(string, Level) {}
