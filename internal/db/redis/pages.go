package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/catalog/internal/db"
)

const scanBatch = 100

// Get returns the page stored at key, or db.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).AsBytes()
	if rueidis.IsRedisNil(err) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// SetWithTTL stores a page. A non-positive ttl stores it without expiry.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	set := s.client.B().Set().Key(key).Value(rueidis.BinaryString(value))
	var cmd rueidis.Completed
	if ttl > 0 {
		cmd = set.Ex(ttl).Build()
	} else {
		cmd = set.Build()
	}
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// Purge walks the keyspace with SCAN and unlinks every key under prefix.
func (s *Store) Purge(ctx context.Context, prefix string) (int, error) {
	if prefix == "" {
		return 0, db.ErrEmptyPrefix
	}
	pattern := escapeGlob(prefix) + "*"

	removed := 0
	var cursor uint64
	for {
		scan := s.client.B().Scan().Cursor(cursor).Match(pattern).Count(scanBatch).Build()
		entry, err := s.client.Do(ctx, scan).AsScanEntry()
		if err != nil {
			return removed, &db.Error{Op: db.OpScan, Err: err}
		}
		if len(entry.Elements) > 0 {
			n, err := s.client.Do(ctx, s.client.B().Unlink().Key(entry.Elements...).Build()).AsInt64()
			if err != nil {
				return removed, &db.Error{Op: db.OpUnlink, Err: err}
			}
			removed += int(n)
		}
		if entry.Cursor == 0 {
			return removed, nil
		}
		cursor = entry.Cursor
	}
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string { return globEscaper.Replace(s) }
