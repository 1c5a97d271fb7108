package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/postpulse/internal/models"
)

type TextAnalyzer interface {
	DetectSentiment(ctx context.Context, text string) (models.SentimentResult, error)
	DetectKeyPhrases(ctx context.Context, text string) ([]string, error)
}

type ArchiveWriter interface {
	Put(ctx context.Context, key string, body []byte) error
}

// EnrichmentStage analyzes one dispatched post and archives the result
// under a date partition derived from the ingestion timestamp. It never
// retries; a 500 result leaves redelivery to the transport.
type EnrichmentStage struct {
	analyzer TextAnalyzer
	archive  ArchiveWriter
	zone     *time.Location

	now func() time.Time
}

func NewEnrichmentStage(analyzer TextAnalyzer, archive ArchiveWriter) *EnrichmentStage {
	return &EnrichmentStage{
		analyzer: analyzer,
		archive:  archive,
		zone:     time.Local,
		now:      time.Now,
	}
}

// WithTimeZone fixes the reference zone used for partition dates.
func (s *EnrichmentStage) WithTimeZone(zone *time.Location) *EnrichmentStage {
	s.zone = zone
	return s
}

func (s *EnrichmentStage) Handle(ctx context.Context, request models.EnrichmentRequest) Result {
	if strings.TrimSpace(request.TextToAnalyze) == "" {
		slog.Warn("[EnrichmentStage] Rejecting request",
			slog.String("post_id", request.PostID),
			slog.String("error", ErrEmptyText.Error()))
		return clientError("No text_to_analyze provided or text is empty.")
	}

	sentiment, err := s.analyzer.DetectSentiment(ctx, request.TextToAnalyze)
	if err != nil {
		slog.Error("[EnrichmentStage] Sentiment analysis failed",
			slog.String("post_id", request.PostID),
			slog.String("error", err.Error()))
		return serverError(fmt.Sprintf("Error during sentiment analysis: %v", err))
	}

	keyPhrases, err := s.analyzer.DetectKeyPhrases(ctx, request.TextToAnalyze)
	if err != nil {
		slog.Error("[EnrichmentStage] Key phrase detection failed",
			slog.String("post_id", request.PostID),
			slog.String("error", err.Error()))
		return serverError(fmt.Sprintf("Error during sentiment analysis: %v", err))
	}

	enriched := models.EnrichedPost{
		PostID:                  request.PostID,
		OriginalText:            request.TextToAnalyze,
		Sentiment:               sentiment.Label,
		SentimentScoresPositive: sentiment.Scores.Positive,
		SentimentScoresNegative: sentiment.Scores.Negative,
		SentimentScoresNeutral:  sentiment.Scores.Neutral,
		SentimentScoresMixed:    sentiment.Scores.Mixed,
		KeyPhrases:              keyPhrases,
		Author:                  request.Author,
		SourcePlatform:          request.SourcePlatform,
		IngestionTimestampMS:    request.IngestionTimestampMS,
		ProcessingTimestampMS:   s.now().UnixMilli(),
		OriginalSourceKey:       request.OriginalKey,
	}

	body, err := json.MarshalIndent(enriched, "", "  ")
	if err != nil {
		slog.Error("[EnrichmentStage] Failed to serialize enriched post",
			slog.String("post_id", request.PostID),
			slog.String("error", err.Error()))
		return serverError(fmt.Sprintf("Error during sentiment analysis: %v", err))
	}

	archiveKey := PartitionKey(request.IngestionTimestampMS, request.PostID, s.zone)
	if err := s.archive.Put(ctx, archiveKey, body); err != nil {
		slog.Error("[EnrichmentStage] Failed to archive enriched post",
			slog.String("post_id", request.PostID),
			slog.String("archive_key", archiveKey),
			slog.String("error", err.Error()))
		return serverError(fmt.Sprintf("Error during sentiment analysis: %v", err))
	}

	slog.Info("[EnrichmentStage] Stored enriched post",
		slog.String("post_id", request.PostID),
		slog.String("sentiment", sentiment.Label),
		slog.String("archive_key", archiveKey))

	return success("Sentiment analysis completed and data stored.")
}

// PartitionKey derives the archive path from the ingestion timestamp,
// not processing time, so retried writes land on the same object.
func PartitionKey(ingestionTimestampMS int64, postID string, zone *time.Location) string {
	t := time.UnixMilli(ingestionTimestampMS).In(zone)
	return fmt.Sprintf("year=%04d/month=%02d/day=%02d/%s.json", t.Year(), int(t.Month()), t.Day(), postID)
}
