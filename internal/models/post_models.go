package models

// RawPost is the durable record written once per ingested object.
// Keyed by PostID in the raw posts table; never updated after creation.
type RawPost struct {
	PostID               string `json:"post_id" dynamodbav:"post_id"`
	SourceBucket         string `json:"source_bucket" dynamodbav:"source_bucket"`
	SourceKey            string `json:"source_key" dynamodbav:"source_key"`
	RawContent           string `json:"raw_content" dynamodbav:"raw_content"`
	Author               string `json:"author" dynamodbav:"author"`
	SourcePlatform       string `json:"source_platform" dynamodbav:"source_platform"`
	IngestionTimestampMS int64  `json:"ingestion_timestamp_ms" dynamodbav:"ingestion_timestamp_ms"`
}

// EnrichmentRequest is the in-flight message between the ingestion and
// enrichment stages. One request per RawPost, carried by value.
type EnrichmentRequest struct {
	PostID               string `json:"post_id"`
	TextToAnalyze        string `json:"text_to_analyze"`
	OriginalBucket       string `json:"original_bucket"`
	OriginalKey          string `json:"original_key"`
	Author               string `json:"author"`
	SourcePlatform       string `json:"source_platform"`
	IngestionTimestampMS int64  `json:"ingestion_timestamp_ms"`
}
