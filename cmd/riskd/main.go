// Command riskd loads a subnational rainfall CSV, builds the flood-risk
// feature set, and serves it over HTTP. When alerting is enabled it also
// publishes the high-risk rows to a Kafka topic.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/rainfall-risk-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/rainfall-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/rainfall-risk-service/internal/config"
	"github.com/couchcryptid/rainfall-risk-service/internal/domain"
	"github.com/couchcryptid/rainfall-risk-service/internal/feature"
	"github.com/couchcryptid/rainfall-risk-service/internal/loader"
	"github.com/couchcryptid/rainfall-risk-service/internal/observability"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // best-effort; absent .env is the normal case

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	result, err := loader.LoadFile(cfg.DataPath)
	if err != nil {
		logger.Error("failed to load rainfall data", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}
	metrics.ObservationsLoaded.Add(float64(len(result.Observations)))
	metrics.ObservationsSkipped.Add(float64(result.Skipped))
	logger.Info("rainfall data loaded",
		"path", cfg.DataPath,
		"observations", len(result.Observations),
		"skipped", result.Skipped,
	)

	params := feature.DefaultParams()
	params.Window = cfg.RollingWindow
	params.ZThreshold = cfg.ZThreshold

	pipeline := feature.New(params, logger, metrics)
	set, err := pipeline.Build(result.Observations)
	if err != nil {
		logger.Error("feature build failed", "error", err)
		os.Exit(1)
	}

	store := feature.NewStore()
	store.Replace(set)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AlertsEnabled {
		publishAlerts(ctx, cfg, set, metrics, logger)
	} else {
		logger.Info("risk alerting disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, store, cfg.RecentCount, logger)

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

func publishAlerts(ctx context.Context, cfg *config.Config, set domain.FeatureSet, metrics *observability.Metrics, logger *slog.Logger) {
	writer := kafkaadapter.NewAlertWriter(cfg, logger)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}()

	highRisk := set.HighRisk()
	if err := writer.PublishBatch(ctx, highRisk, set.BuiltAt); err != nil {
		// Alerting is best-effort: the query API stays up even if Kafka is down.
		logger.Error("failed to publish risk alerts", "error", err)
		return
	}
	metrics.AlertsPublished.Add(float64(len(highRisk)))
}
