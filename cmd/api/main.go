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

	"github.com/couchcryptid/river-quality-service/internal/adapter/catalog"
	"github.com/couchcryptid/river-quality-service/internal/adapter/events"
	"github.com/couchcryptid/river-quality-service/internal/adapter/httpapi"
	"github.com/couchcryptid/river-quality-service/internal/cache"
	"github.com/couchcryptid/river-quality-service/internal/config"
	"github.com/couchcryptid/river-quality-service/internal/fetch"
	"github.com/couchcryptid/river-quality-service/internal/observability"
	"github.com/couchcryptid/river-quality-service/internal/registry"
	"github.com/couchcryptid/river-quality-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	resolver := registry.NewResolver(cfg.RiversFile, logger)
	store := cache.New(clockwork.NewRealClock(), cfg.CacheTTL)

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogAPIKey, cfg.CatalogTimeout, metrics, logger)
	fetcher := fetch.New(catalogClient, cfg.FallbackResourceIDs, cfg.CatalogLimit, cfg.CatalogTimeout, metrics, logger)

	// Result events are feature-flagged via KAFKA_BROKERS.
	var publisher service.EventPublisher
	var eventsWriter *events.Writer
	if cfg.EventsEnabled() {
		eventsWriter = events.NewWriter(cfg.KafkaBrokers, cfg.KafkaEventsTopic, logger)
		publisher = eventsWriter
		logger.Info("result events enabled", "topic", cfg.KafkaEventsTopic)
	} else {
		logger.Info("result events disabled")
	}

	svc := service.New(resolver, store, fetcher, cfg.Index, publisher, metrics, logger)
	srv := httpapi.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
	if eventsWriter != nil {
		if err := eventsWriter.Close(); err != nil {
			logger.Error("events writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
