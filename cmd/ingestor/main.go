package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/postpulse/config"
	"github.com/spacesedan/postpulse/internal/clients"
	"github.com/spacesedan/postpulse/internal/clients/kafka_client"
	"github.com/spacesedan/postpulse/internal/consumers"
	"github.com/spacesedan/postpulse/internal/db"
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

	cfg := kafka_client.GetIngestorConfig()

	for {
		err := kafka_client.InitProducer(cfg)
		if err == nil {
			break
		}

		slog.Warn("Kafka init failed, retrying...", slog.String("error", err.Error()))
		time.Sleep(5 * time.Second)
	}
	defer kafka_client.CloseProducer()

	stage := pipeline.NewIngestionStage(
		objectstore.NewFetcher(clients.GetS3Client()),
		db.NewRawPostStore(clients.GetDynamoDBClient(), getEnv("RAW_POSTS_TABLE", "RawPosts")),
		kafka_client.NewDispatcher(getEnv("ENRICHMENT_TOPIC", kafka_client.KAFKA_TOPIC_ENRICHMENT_REQUEST)),
	)

	if os.Getenv("VALKEY_INIT_ADDRESS") != "" {
		stage = stage.WithProcessedCache(clients.InitValkey())
		defer clients.CloseValkey()
	}

	kafka_client.RegisterConsumer(cfg.Topic, consumers.NewNotificationConsumer(stage))

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
