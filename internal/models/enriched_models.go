package models

const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
	SentimentMixed    = "MIXED"
)

// SentimentScores holds one confidence value per class, each in [0,1].
// Classes the analysis engine does not report stay at 0.
type SentimentScores struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Mixed    float64 `json:"mixed"`
}

type SentimentResult struct {
	Label  string          `json:"label"`
	Scores SentimentScores `json:"scores"`
}

// EnrichedPost is the archived document written to the processed bucket,
// partitioned by the ingestion date of the RawPost it was derived from.
type EnrichedPost struct {
	PostID                  string   `json:"post_id"`
	OriginalText            string   `json:"original_text"`
	Sentiment               string   `json:"sentiment"`
	SentimentScoresPositive float64  `json:"sentiment_scores_positive"`
	SentimentScoresNegative float64  `json:"sentiment_scores_negative"`
	SentimentScoresNeutral  float64  `json:"sentiment_scores_neutral"`
	SentimentScoresMixed    float64  `json:"sentiment_scores_mixed"`
	KeyPhrases              []string `json:"key_phrases"`
	Author                  string   `json:"author"`
	SourcePlatform          string   `json:"source_platform"`
	IngestionTimestampMS    int64    `json:"ingestion_timestamp_ms"`
	ProcessingTimestampMS   int64    `json:"processing_timestamp_ms"`
	OriginalSourceKey       string   `json:"original_source_key"`
}
