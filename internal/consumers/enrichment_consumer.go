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

// NewEnrichmentConsumer drives the enrichment stage from the enrichment
// topic. Commit policy follows the stage result: 200 and 400 are
// terminal, 500 leaves the offset uncommitted so the transport
// redelivers — the stage itself never retries.
func NewEnrichmentConsumer(stage *pipeline.EnrichmentStage) kafka_client.ConsumerFunc {
	return func(ctx context.Context, consumer *kafka.Consumer) {
		iterator := kafka_client.NewMessageIterator(ctx, consumer)
		committer := kafka_client.NewCommitHandler(ctx, consumer)

		slog.Info("[EnrichmentConsumer] Listening for enrichment requests...")

		for {
			select {
			case <-ctx.Done():
				slog.Warn("[EnrichmentConsumer] Stopping consumer...")
				return
			default:
				msg, err := iterator.Next()
				if err != nil {
					utils.HandleConsumerError(err)
					continue
				}

				var request models.EnrichmentRequest
				if err := utils.DeserializeFromJSON(msg.Value, &request); err != nil {
					if err := committer.Commit(msg); err != nil {
						utils.HandleConsumerError(err)
					}
					continue
				}

				result := stage.Handle(ctx, request)
				if result.StatusCode >= 500 {
					slog.Warn("[EnrichmentConsumer] Enrichment failed, leaving offset for redelivery",
						slog.String("post_id", request.PostID),
						slog.String("body", result.Body))
					continue
				}

				if err := committer.Commit(msg); err != nil {
					slog.Warn("[EnrichmentConsumer] Failed to commit offset",
						slog.String("post_id", request.PostID),
						slog.String("error", err.Error()))
				}
			}
		}
	}
}
