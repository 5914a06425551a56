package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	historyadapter "github.com/couchcryptid/facility-finder/internal/adapter/history"
	httpadapter "github.com/couchcryptid/facility-finder/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/facility-finder/internal/adapter/kafka"
	"github.com/couchcryptid/facility-finder/internal/adapter/tomtom"
	"github.com/couchcryptid/facility-finder/internal/config"
	"github.com/couchcryptid/facility-finder/internal/domain"
	"github.com/couchcryptid/facility-finder/internal/observability"
	"github.com/couchcryptid/facility-finder/internal/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	provider := tomtom.NewClient(cfg.TomTomKey, cfg.TomTomTimeout, metrics, logger)

	store, err := historyadapter.NewStore(cfg.HistoryDBPath, metrics, logger)
	if err != nil {
		logger.Error("failed to open history store", "error", err)
		os.Exit(1)
	}

	// Event publishing is feature-flagged via KAFKA_ENABLED.
	var publisher domain.OutcomePublisher
	var kafkaPub *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPub = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPub
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	addresses := search.NewAddressResolver(provider, logger)
	orch := search.NewOrchestrator(
		addresses,
		search.NewCategoryResolver(provider, metrics, logger),
		provider,
		metrics,
		logger,
	)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Options{
		Orchestrator: orch,
		Addresses:    addresses,
		History:      store,
		Publisher:    publisher,
		Ready:        store,
		PageSize:     cfg.PageSize,
		SuggestLimit: cfg.SuggestLimit,
	}, logger)

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
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("history store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
