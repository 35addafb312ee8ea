package page

import (
	"fmt"

	"github.com/kailas-cloud/catalog/internal/domain/item"
)

// Page size limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Cursor addresses one page of a query. Pages are 1-based; the limit is fixed per session.
type Cursor struct {
	page  int
	limit int
}

// First returns the cursor for page 1. Limit is clamped to [1, MaxLimit], 0 means default.
func First(limit int) Cursor {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Cursor{page: 1, limit: limit}
}

// New validates and creates a cursor.
func New(pageNum, limit int) (Cursor, error) {
	if pageNum < 1 {
		return Cursor{}, fmt.Errorf("page must be >= 1, got %d", pageNum)
	}
	if limit < 1 || limit > MaxLimit {
		return Cursor{}, fmt.Errorf("limit must be between 1 and %d, got %d", MaxLimit, limit)
	}
	return Cursor{page: pageNum, limit: limit}, nil
}

// Page returns the 1-based page number.
func (c Cursor) Page() int { return c.page }

// Limit returns the page size.
func (c Cursor) Limit() int { return c.limit }

// Next returns the cursor of the following page.
func (c Cursor) Next() Cursor {
	return Cursor{page: c.page + 1, limit: c.limit}
}

// Offset returns the number of items preceding this page.
func (c Cursor) Offset() int { return (c.page - 1) * c.limit }

// String renders page/limit for logs.
func (c Cursor) String() string { return fmt.Sprintf("page=%d limit=%d", c.page, c.limit) }

// Result is one fetched page.
type Result struct {
	Items   []item.Item
	HasMore bool
	// Total is the reported total; -1 when the response carried no pagination metadata.
	Total int
}

// HasMoreAfter reports whether total items exceed what pages 1..cursor cover.
// A negative total (unknown) is treated as final.
func HasMoreAfter(c Cursor, total int) bool {
	if total < 0 {
		return false
	}
	return total > c.page*c.limit
}
