package consumers

import (
	"context"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/postpulse/internal/clients/kafka_client"
	"github.com/spacesedan/postpulse/internal/models"
	"github.com/spacesedan/postpulse/internal/pipeline"
	"github.com/spacesedan/postpulse/internal/utils"
)

// NewNotificationConsumer drives the ingestion stage from the
// notifications topic. The stage isolates per-record failures and
// always reports batch success, so every decoded batch is committed
// after one attempt.
func NewNotificationConsumer(stage *pipeline.IngestionStage) kafka_client.ConsumerFunc {
	return func(ctx context.Context, consumer *kafka.Consumer) {
		iterator := kafka_client.NewMessageIterator(ctx, consumer)
		committer := kafka_client.NewCommitHandler(ctx, consumer)

		slog.Info("[NotificationConsumer] Listening for object notifications...")

		for {
			select {
			case <-ctx.Done():
				slog.Warn("[NotificationConsumer] Stopping consumer...")
				return
			default:
				msg, err := iterator.Next()
				if err != nil {
					utils.HandleConsumerError(err)
					continue
				}

				var batch models.NotificationBatch
				if err := utils.DeserializeFromJSON(msg.Value, &batch); err != nil {
					// A malformed envelope will never decode; skip past it.
					if err := committer.Commit(msg); err != nil {
						utils.HandleConsumerError(err)
					}
					continue
				}

				result := stage.Handle(ctx, batch)
				slog.Info("[NotificationConsumer] Batch processed",
					slog.Int("records", len(batch.Records)),
					slog.Int("status", result.StatusCode))

				if err := committer.Commit(msg); err != nil {
					slog.Warn("[NotificationConsumer] Failed to commit offset",
						slog.String("error", err.Error()))
				}
			}
		}
	}
}
