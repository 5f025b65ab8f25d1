package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/melodex/internal/adapters/catalog"
	"github.com/okian/melodex/internal/adapters/http/api"
	"github.com/okian/melodex/internal/adapters/repository"
	app "github.com/okian/melodex/internal/app"
	"github.com/okian/melodex/internal/config"
	"github.com/okian/melodex/pkg/logger"
	"github.com/okian/melodex/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics.
	// We collect our own custom system metrics instead.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	songCatalog, err := buildCatalog(ctx, cfg, log)
	if err != nil {
		os.Stderr.WriteString("failed to open catalog: " + err.Error() + "\n")
		return
	}

	store, err := buildStore(ctx, cfg, log)
	if err != nil {
		os.Stderr.WriteString("failed to open profile store: " + err.Error() + "\n")
		return
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithCatalog(songCatalog),
		app.WithStore(store),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.EventQueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithAdminUsers(cfg.AdminUsers),
		app.WithTopRatedThresholds(cfg.MinVotes, cfg.MinMean),
		app.WithFavoriteThreshold(cfg.FavoriteThreshold),
		app.WithSimilarLimit(cfg.SimilarLimit),
		app.WithChartLimit(cfg.ChartLimit),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildCatalog opens the configured song catalog.
func buildCatalog(ctx context.Context, cfg *config.Config, log logger.Logger) (catalog.Provider, error) {
	if cfg.CatalogPath == "" {
		log.Warn(ctx, "no catalog_path configured; starting with an empty catalog")
		return catalog.NewMemory(), nil
	}
	fc, err := catalog.NewFile(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "loaded song catalog",
		logger.String("path", cfg.CatalogPath),
		logger.Int("songs", fc.Len()),
	)
	return fc, nil
}

// buildStore opens the configured profile store.
func buildStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	switch cfg.StoreBackend {
	case "badger":
		store, err := repository.NewBadgerStore(cfg.BadgerDir)
		if err != nil {
			return nil, err
		}
		log.Info(ctx, "using badger profile store", logger.String("dir", cfg.BadgerDir))
		return store, nil
	default:
		log.Info(ctx, "using in-memory profile store", logger.Int("shards", cfg.ShardCount))
		return repository.NewMemStore(repository.WithShardCount(cfg.ShardCount)), nil
	}
}

// startSystemMetricsUpdater updates process metrics on a fixed interval.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater refreshes service gauges on a fixed interval.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats refreshes the queue, profile, and catalog gauges.
			_ = svc.GetStats()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
