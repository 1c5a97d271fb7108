package kafka_client

import "os"

type KafkaConfig struct {
	Broker  string
	GroupID string
	Topic   string
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func GetIngestorConfig() KafkaConfig {
	return KafkaConfig{
		Broker:  getEnv("KAFKA_BROKER", "localhost:29092"),
		GroupID: getEnv("KAFKA_CONSUMER_GROUP_ID", "postpulse-ingestor-group"),
		Topic:   getEnv("NOTIFICATIONS_TOPIC", KAFKA_TOPIC_FILE_NOTIFICATIONS),
	}
}

func GetEnricherConfig() KafkaConfig {
	return KafkaConfig{
		Broker:  getEnv("KAFKA_BROKER", "localhost:29092"),
		GroupID: getEnv("KAFKA_CONSUMER_GROUP_ID", "postpulse-enricher-group"),
		Topic:   getEnv("ENRICHMENT_TOPIC", KAFKA_TOPIC_ENRICHMENT_REQUEST),
	}
}
