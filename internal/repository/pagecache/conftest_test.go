package pagecache

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalog/internal/db"
	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/domain/search/page"
)

type mockFetcher struct {
	result page.Result
	err    error
	calls  int
}

func (m *mockFetcher) FetchPage(_ context.Context, _ filter.Expression, _ page.Cursor) (page.Result, error) {
	m.calls++
	return m.result, m.err
}

// mockKVStore is an in-memory store; getFn/setFn override behaviour.
type mockKVStore struct {
	data  map[string][]byte
	ttls  map[string]time.Duration
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	err   error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockKVStore) Purge(_ context.Context, prefix string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	n := 0
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

func newTestGateway(t *testing.T, inner *mockFetcher, opts ...Option) (*Gateway, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
	return New(inner, ms, zap.NewNop(), opts...), ms
}
