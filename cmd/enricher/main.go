package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/postpulse/config"
	"github.com/spacesedan/postpulse/internal/analysis"
	"github.com/spacesedan/postpulse/internal/clients"
	"github.com/spacesedan/postpulse/internal/clients/kafka_client"
	"github.com/spacesedan/postpulse/internal/consumers"
	"github.com/spacesedan/postpulse/internal/logging"
	"github.com/spacesedan/postpulse/internal/objectstore"
	"github.com/spacesedan/postpulse/internal/pipeline"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer, err := analysis.FromEnv()
	if err != nil {
		slog.Error("[Main] Failed to build analyzer",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	stage := pipeline.NewEnrichmentStage(
		analyzer,
		objectstore.NewArchiveStore(clients.GetS3Client(), getEnv("PROCESSED_BUCKET", "postpulse-processed")),
	)

	if tz := os.Getenv("PARTITION_TIME_ZONE"); tz != "" {
		zone, err := time.LoadLocation(tz)
		if err != nil {
			slog.Error("[Main] Invalid PARTITION_TIME_ZONE",
				slog.String("zone", tz),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		stage = stage.WithTimeZone(zone)
	}

	cfg := kafka_client.GetEnricherConfig()
	kafka_client.RegisterConsumer(cfg.Topic, consumers.NewEnrichmentConsumer(stage))

	if err := kafka_client.StartConsumer(ctx, cfg); err != nil {
		slog.Error("[Main] Failed to start consumer",
			slog.String("error", err.Error()))
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
