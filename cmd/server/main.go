/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the net salary engine server.
  Handles configuration, dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Initialize logger, Sentry and metrics
  3. Open the memo cache (SQLite when DB_PATH is set, LRU otherwise)
  4. Install the optional municipal surtax table
  5. Create API handler and router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides HTTP_PORT)
  -db      SQLite database path (overrides DB_PATH)
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (SHUTDOWN_TIMEOUT)
  3. Stop the cache pruner and close the database
  4. Flush Sentry and exit

EXAMPLES:
  # Run with the in-process LRU cache
  ./server

  # Persist computations
  ./server -db="./data/netpay.db"

  # Run on different port
  ./server -port=3000

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Persistent memo cache
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/netpay-engine/api"
	"github.com/warp/netpay-engine/config"
	"github.com/warp/netpay-engine/factory"
	"github.com/warp/netpay-engine/observability"
	"github.com/warp/netpay-engine/payroll"
	"github.com/warp/netpay-engine/store/memory"
	"github.com/warp/netpay-engine/store/sqlite"
	"go.uber.org/zap"

	_ "github.com/warp/netpay-engine/fy2025"
	_ "github.com/warp/netpay-engine/fy2026"
)

func main() {
	cfg := config.Load()

	// Flags
	port := flag.String("port", cfg.HTTPPort, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path (empty for in-memory LRU)")
	flag.Parse()
	cfg.HTTPPort = *port
	cfg.DBPath = *dbPath

	logger, err := observability.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if observability.InitSentry(cfg, logger) {
		defer observability.FlushSentry()
	}
	metrics := observability.NewMetrics(cfg)

	// Memo cache
	var (
		cache   payroll.Cache
		backend string
		pruner  *api.CachePruner
	)
	if cfg.DBPath != "" {
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			logger.Fatal("failed to initialize database", zap.String("path", cfg.DBPath), zap.Error(err))
		}
		defer store.Close()
		cache, backend = store, "sqlite"

		pruner = api.NewCachePruner(store, cfg.CacheTTL, cfg.PruneInterval, metrics, logger)
		pruner.Start()
	} else {
		lru, err := memory.New(cfg.CacheSize)
		if err != nil {
			logger.Fatal("failed to initialize cache", zap.Int("size", cfg.CacheSize), zap.Error(err))
		}
		cache, backend = lru, "memory"
	}

	var salt string
	if cfg.MunicipalTable != "" {
		salt, err = factory.InstallMunicipalFile(cfg.MunicipalTable)
		if err != nil {
			logger.Fatal("failed to load municipal table", zap.String("path", cfg.MunicipalTable), zap.Error(err))
		}
		logger.Info("municipal table installed", zap.String("path", cfg.MunicipalTable), zap.String("salt", salt))
	}

	handler := api.NewHandler(api.Options{
		Cache:               cache,
		Backend:             backend,
		FingerprintSalt:     salt,
		ProjectionWorkers:   cfg.ProjectionWorkers,
		ProjectionMaxPoints: cfg.ProjectionMaxPoints,
		Metrics:             metrics,
		Logger:              logger,
	})
	router := api.NewRouter(handler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("cache", backend),
			zap.Ints("years", payroll.Years()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server", zap.Duration("timeout", cfg.ShutdownTimeout))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if pruner != nil {
		pruner.Stop()
	}

	logger.Info("server stopped")
}
