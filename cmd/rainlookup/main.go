package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/sotakimura/rain-lookup/internal/adapter/forecastapi"
	"github.com/sotakimura/rain-lookup/internal/adapter/httpapi"
	"github.com/sotakimura/rain-lookup/internal/adapter/locfeed"
	"github.com/sotakimura/rain-lookup/internal/config"
	"github.com/sotakimura/rain-lookup/internal/domain"
	"github.com/sotakimura/rain-lookup/internal/observability"
	"github.com/sotakimura/rain-lookup/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	directoryClient := locfeed.NewClient(cfg.DirectoryURL, cfg.DirectoryTimeout, logger, metrics)
	directoryCache := locfeed.NewSnapshotCache(directoryClient, cfg.DirectoryTTL, clock, metrics)
	forecastClient := forecastapi.NewClient(cfg.ForecastBaseURL, cfg.ForecastTimeout, logger, metrics)

	defaults := domain.DefaultSelection{
		Prefecture: cfg.DefaultPrefecture,
		City:       cfg.DefaultCity,
	}
	lookup := pipeline.NewLookup(directoryCache, forecastClient, defaults, logger)

	srv := httpapi.NewServer(cfg.HTTPAddr, lookup, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the directory snapshot so the first interaction is a cache hit.
	// A cold start with the feed down is fine; readiness stays false and the
	// next request retries.
	if _, err := directoryCache.GetOrRebuild(ctx); err != nil {
		logger.Warn("initial directory build failed", "error", err)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
