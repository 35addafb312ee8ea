package browse

import (
	"context"
	"sync"
)

// pager is the slice of the Controller the continuation drives.
type pager interface {
	Flags() Flags
	LoadMore(ctx context.Context) error
}

// Continuation requests the next page when the end-of-list sentinel becomes visible.
//
// The sentinel exists only while the view has items and more pages. Sync must be called
// with every view: a view with a sentinel arms it, including the first view of a new
// generation after a wholesale replacement, and a view without one disarms it.
type Continuation struct {
	pager pager

	mu       sync.Mutex
	armed    bool
	revision uint64
}

// NewContinuation creates a disarmed continuation over p.
func NewContinuation(p pager) *Continuation {
	return &Continuation{pager: p}
}

// Sync updates the sentinel from a view. Views older than the last synced one are ignored.
func (k *Continuation) Sync(v View) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if v.Revision < k.revision {
		return
	}
	k.revision = v.Revision

	k.armed = len(v.Items) > 0 && v.Status.HasMore
}

// Armed reports whether a visible sentinel would trigger a load.
func (k *Continuation) Armed() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.armed
}

// Visible is called when the sentinel scrolls into view. It calls LoadMore when armed and
// the controller is neither busy nor exhausted, and reports whether it did.
func (k *Continuation) Visible(ctx context.Context) (bool, error) {
	if !k.Armed() {
		return false, nil
	}
	f := k.pager.Flags()
	if f.Busy() || f.Exhausted {
		return false, nil
	}
	return true, k.pager.LoadMore(ctx)
}
