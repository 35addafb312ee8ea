// Package db defines the backend the page cache is stored in.
package db

import (
	"context"
	"time"
)

// Store is a connected page cache backend.
type Store interface {
	Pinger
	PageStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PageStore keeps serialized pages under string keys.
type PageStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Purge deletes every key starting with prefix and reports how many were removed.
	Purge(ctx context.Context, prefix string) (int, error)
}
