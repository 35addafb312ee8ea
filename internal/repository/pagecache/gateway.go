package pagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalog/internal/db"
	"github.com/kailas-cloud/catalog/internal/domain/search/filter"
	"github.com/kailas-cloud/catalog/internal/domain/search/page"
)

// DefaultKeyPrefix namespaces cached pages.
const DefaultKeyPrefix = "catalog:page:"

// Fetcher is the gateway being decorated.
type Fetcher interface {
	FetchPage(ctx context.Context, expr filter.Expression, cur page.Cursor) (page.Result, error)
}

// store is the consumer interface for the page cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Purge(ctx context.Context, prefix string) (int, error)
}

// Gateway caches fetched pages in a key-value store.
type Gateway struct {
	inner      Fetcher
	store      store
	ttl        time.Duration
	prefix     string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// Option configures the Gateway.
type Option interface {
	apply(*Gateway)
}

type optionFunc func(*Gateway)

func (f optionFunc) apply(g *Gateway) { f(g) }

// WithTTL sets how long a page stays cached.
func WithTTL(ttl time.Duration) Option {
	return optionFunc(func(g *Gateway) { g.ttl = ttl })
}

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(g *Gateway) {
		if prefix != "" {
			g.prefix = prefix
		}
	})
}

// WithMetrics sets the counter vec with label "result" ("hit"/"miss").
func WithMetrics(cacheTotal *prometheus.CounterVec) Option {
	return optionFunc(func(g *Gateway) { g.cacheTotal = cacheTotal })
}

// New creates a caching decorator over inner.
func New(inner Fetcher, s store, logger *zap.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		inner:  inner,
		store:  s,
		ttl:    5 * time.Minute,
		prefix: DefaultKeyPrefix,
		logger: logger,
	}
	for _, o := range opts {
		o.apply(g)
	}
	return g
}

// FetchPage returns a cached page or calls the inner gateway.
// Cache failures are logged and never surfaced; inner errors are never cached.
func (g *Gateway) FetchPage(ctx context.Context, expr filter.Expression, cur page.Cursor) (page.Result, error) {
	key, err := g.cacheKey(expr, cur)
	if err != nil {
		g.logger.Warn("Failed to build page cache key", zap.Error(err))
		return g.inner.FetchPage(ctx, expr, cur) //nolint:wrapcheck // decorator is transparent
	}

	if res, ok := g.getFromCache(ctx, key); ok {
		g.incCache("hit")
		return res, nil
	}
	g.incCache("miss")

	res, err := g.inner.FetchPage(ctx, expr, cur)
	if err != nil {
		return page.Result{}, err //nolint:wrapcheck // callers match domain sentinels
	}

	g.putToCache(ctx, key, &res)
	return res, nil
}

// Purge drops every cached page under the gateway's prefix.
func (g *Gateway) Purge(ctx context.Context) (int, error) {
	n, err := g.store.Purge(ctx, g.prefix)
	if err != nil {
		return n, fmt.Errorf("purge page cache: %w", err)
	}
	g.logger.Info("Page cache purged", zap.String("prefix", g.prefix), zap.Int("removed", n))
	return n, nil
}

func (g *Gateway) incCache(result string) {
	if g.cacheTotal != nil {
		g.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (g *Gateway) cacheKey(expr filter.Expression, cur page.Cursor) (string, error) {
	raw, err := json.Marshal(expr)
	if err != nil {
		return "", fmt.Errorf("marshal expression: %w", err)
	}
	h := sha256.New()
	h.Write(raw)
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(cur.Page())))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(cur.Limit())))
	return g.prefix + hex.EncodeToString(h.Sum(nil)), nil
}

func (g *Gateway) getFromCache(ctx context.Context, key string) (page.Result, bool) {
	data, err := g.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			g.logger.Warn("Failed to get cached page", zap.String("key", key), zap.Error(err))
		}
		return page.Result{}, false
	}
	if len(data) == 0 {
		return page.Result{}, false
	}

	var cp cachedPage
	if err := json.Unmarshal(data, &cp); err != nil {
		g.logger.Warn("Failed to parse cached page", zap.String("key", key), zap.Error(err))
		return page.Result{}, false
	}
	res, err := fromCached(&cp)
	if err != nil {
		g.logger.Warn("Invalid cached page", zap.String("key", key), zap.Error(err))
		return page.Result{}, false
	}
	return res, true
}

func (g *Gateway) putToCache(ctx context.Context, key string, res *page.Result) {
	data, err := json.Marshal(toCached(res))
	if err != nil {
		g.logger.Warn("Failed to encode page for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := g.store.SetWithTTL(ctx, key, data, g.ttl); err != nil {
		g.logger.Warn("Failed to cache page", zap.String("key", key), zap.Error(err))
	}
}
