// Command server runs the tropical cyclone track service: an HTTP API that
// resolves basin/year storm catalogs from the IBTrACS browser site and
// extracts best-track fix sequences with derived intensity metrics.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/adapter/http"
	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/adapter/ibtracs"
	kafkaadapter "github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/adapter/kafka"
	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/config"
	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/observability"
	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := ibtracs.NewClient(cfg.IBTrACSBaseURL, cfg.FetchTimeout, metrics, logger)

	// Track publishing is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.TrackPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	svc := pipeline.New(client, publisher, cfg, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

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
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
