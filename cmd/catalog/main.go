package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/catalog/internal/config"
	dbRedis "github.com/kailas-cloud/catalog/internal/db/redis"
	"github.com/kailas-cloud/catalog/internal/domain/search/sortkey"
	logpkg "github.com/kailas-cloud/catalog/internal/logger"
	"github.com/kailas-cloud/catalog/internal/metrics"
	"github.com/kailas-cloud/catalog/internal/repository/pagecache"
	"github.com/kailas-cloud/catalog/internal/transport/catalogapi"
	"github.com/kailas-cloud/catalog/internal/transport/cli"
	"github.com/kailas-cloud/catalog/internal/usecase/browse"
	"github.com/kailas-cloud/catalog/internal/usecase/health"
	"github.com/kailas-cloud/catalog/internal/version"
)

// cacheReadyTimeout bounds the wait for the page cache; the browser runs without it on timeout.
const cacheReadyTimeout = 2 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(newRuntime, config.GetEnv())
	root.Version = version.String()
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newRuntime is the composition root: config, logger, metrics, gateway chain.
func newRuntime(ctx context.Context, env string, interactive bool) (*cli.Runtime, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logFile := ""
	if interactive {
		logFile = cfg.Logging.File
	}
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level, logFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Starting catalog client",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("base_url", cfg.Catalog.BaseURL),
		zap.Int("page_size", cfg.Catalog.PageSize),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	metrics.RegisterCatalogMetrics()

	client := catalogapi.NewClient(&catalogapi.Config{
		BaseURL:    cfg.Catalog.BaseURL,
		Timeout:    time.Duration(cfg.Catalog.TimeoutSec) * time.Second,
		RatePerSec: cfg.Catalog.RatePerSec,
		Burst:      cfg.Catalog.Burst,
		Logger:     logger,
	})

	closers := []func(){func() { _ = logger.Sync() }}
	var gateway browse.Gateway = client
	var (
		cachePinger health.CachePinger
		purger      cli.CachePurger
	)
	if cfg.Cache.Enabled {
		if store := openCache(ctx, &cfg.Cache, logger); store != nil {
			closers = append(closers, store.Close)
			cached := pagecache.New(client, store, logger,
				pagecache.WithTTL(time.Duration(cfg.Cache.TTLSec)*time.Second),
				pagecache.WithKeyPrefix(cfg.Cache.KeyPrefix),
				pagecache.WithMetrics(metrics.PageCacheTotal),
			)
			gateway, cachePinger, purger = cached, store, cached
		}
	}

	tag, err := language.Parse(cfg.Catalog.Collation)
	if err != nil {
		logger.Warn("Unknown collation, using English", zap.String("collation", cfg.Catalog.Collation))
		tag = language.English
	}

	return &cli.Runtime{
		Gateway:       gateway,
		Categories:    client,
		PageSize:      cfg.Catalog.PageSize,
		Comparator:    sortkey.NewComparator(tag),
		ToastDuration: time.Duration(cfg.Notify.DurationMS) * time.Millisecond,
		Logger:        logger,
		Health:        health.New(client, cachePinger),
		Cache:         purger,
		Close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}

// openCache connects the page cache. Failures are logged and the client runs uncached.
func openCache(ctx context.Context, cfg *config.CacheConfig, logger *zap.Logger) *dbRedis.Store {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		logger.Warn("Page cache unavailable", zap.Error(err))
		return nil
	}
	if err := store.WaitForReady(ctx, cacheReadyTimeout); err != nil {
		logger.Warn("Page cache not ready", zap.Error(err))
		store.Close()
		return nil
	}
	logger.Info("Connected to page cache", zap.Strings("addrs", cfg.Addrs))
	return store
}
