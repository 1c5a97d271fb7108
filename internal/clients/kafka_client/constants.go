package kafka_client

import "time"

const (
	KAFKA_TOPIC_FILE_NOTIFICATIONS = "post-file-notifications" // object-arrival events feeding the ingestor
	KAFKA_TOPIC_ENRICHMENT_REQUEST = "enrichment-request"      // dispatched posts awaiting analysis
)

const (
	MAX_RETRIES = 5
	RETRY_DELAY = 2 * time.Second
)
