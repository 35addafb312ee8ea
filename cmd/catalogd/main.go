package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalog/internal/config"
	logpkg "github.com/kailas-cloud/catalog/internal/logger"
	"github.com/kailas-cloud/catalog/internal/metrics"
	"github.com/kailas-cloud/catalog/internal/repository/fixture"
	chiTransport "github.com/kailas-cloud/catalog/internal/transport/chi"
	"github.com/kailas-cloud/catalog/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level, "")
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting catalogd fixture server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.Server.Port),
		zap.String("fixtures", cfg.Server.Fixtures),
	)

	store, err := fixture.Load(cfg.Server.Fixtures)
	if err != nil {
		logger.Fatal("Failed to load fixtures", zap.Error(err))
	}
	logger.Info("Fixtures loaded", zap.Int("items", store.Len()))

	metrics.RegisterHTTPMetrics()

	server := chiTransport.NewServer(store, logger)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr: addr,
		Handler: server.Router(chiTransport.Config{
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
