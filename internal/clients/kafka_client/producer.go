package kafka_client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/postpulse/internal/models"
	"github.com/spacesedan/postpulse/internal/utils"
)

var producer *kafka.Producer

func InitProducer(cfg KafkaConfig) error {
	slog.Info("[KafkaClient] Initializing Kafka Producer...")

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   cfg.Broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"enable.idempotence":  true,
		"acks":                "all",
	})
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	// Delivery reports are drained and logged only. Nothing upstream
	// waits on them: dispatch is a single attempt with no confirmation.
	go func() {
		for e := range p.Events() {
			if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
				slog.Warn("[KafkaClient] Message delivery failed",
					slog.String("topic", *m.TopicPartition.Topic),
					slog.String("error", m.TopicPartition.Error.Error()))
			}
		}
	}()

	producer = p
	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return nil
}

func CloseProducer() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if producer != nil {
		if remaining := producer.Flush(5000); remaining > 0 {
			slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
				slog.Int("remaining", remaining))
		}
		producer.Close()
		slog.Info("[KafkaClient] Kafka producer shut down")
	}
}

// Dispatcher hands enrichment requests to the enrichment topic.
// Send returns once the client has accepted the message; it never waits
// for delivery or for the enrichment outcome.
type Dispatcher struct {
	topic string
}

func NewDispatcher(topic string) *Dispatcher {
	return &Dispatcher{topic: topic}
}

func (d *Dispatcher) Send(ctx context.Context, request models.EnrichmentRequest) error {
	if producer == nil {
		return errors.New("[KafkaClient] Kafka producer has not been initialized")
	}

	payload, err := utils.SerializeToJSON(request)
	if err != nil {
		return err
	}

	topic := d.topic
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(request.PostID),
		Value:          payload,
	}

	if err := producer.Produce(msg, nil); err != nil {
		return fmt.Errorf("[KafkaClient] Failed to enqueue enrichment request: %w", err)
	}

	slog.Info("[KafkaClient] Dispatched enrichment request",
		slog.String("topic", topic),
		slog.String("post_id", request.PostID))

	return nil
}
