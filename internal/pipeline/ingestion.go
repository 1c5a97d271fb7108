package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/postpulse/internal/models"
)

type ObjectFetcher interface {
	Fetch(ctx context.Context, bucket string, key string) ([]byte, error)
}

type RawStore interface {
	PutRawPost(ctx context.Context, post models.RawPost) error
}

type Dispatcher interface {
	Send(ctx context.Context, request models.EnrichmentRequest) error
}

// ProcessedCache short-circuits redelivered notifications. Lookups are
// advisory: a miss only costs a duplicate RawPost under a fresh id.
type ProcessedCache interface {
	IsProcessed(ctx context.Context, bucket string, key string) bool
	MarkProcessed(ctx context.Context, bucket string, key string) error
}

// IngestionStage turns object-arrival notifications into durable
// RawPosts and fire-and-forget enrichment requests. One instance
// handles one batch at a time and keeps no state between batches.
type IngestionStage struct {
	fetcher    ObjectFetcher
	store      RawStore
	dispatcher Dispatcher
	seen       ProcessedCache

	now   func() time.Time
	newID func() string
}

func NewIngestionStage(fetcher ObjectFetcher, store RawStore, dispatcher Dispatcher) *IngestionStage {
	return &IngestionStage{
		fetcher:    fetcher,
		store:      store,
		dispatcher: dispatcher,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (s *IngestionStage) WithProcessedCache(cache ProcessedCache) *IngestionStage {
	s.seen = cache
	return s
}

// Handle processes every notification in the batch. A failing
// notification is logged and skipped; it never aborts its siblings,
// and the batch itself always reports success once each record has
// been attempted.
func (s *IngestionStage) Handle(ctx context.Context, batch models.NotificationBatch) Result {
	for _, record := range batch.Records {
		if err := s.processNotification(ctx, record); err != nil {
			slog.Error("[IngestionStage] Failed to process notification",
				slog.String("bucket", record.S3.Bucket.Name),
				slog.String("key", record.S3.Object.Key),
				slog.String("error", err.Error()))
		}
	}

	return success("Successfully processed object notifications.")
}

func (s *IngestionStage) processNotification(ctx context.Context, record models.FileArrivalNotification) error {
	bucket := record.S3.Bucket.Name
	key := record.S3.Object.Key

	if s.seen != nil && s.seen.IsProcessed(ctx, bucket, key) {
		slog.Info("[IngestionStage] Skipping already processed object",
			slog.String("bucket", bucket),
			slog.String("key", key))
		return nil
	}

	content, err := s.fetcher.Fetch(ctx, bucket, key)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	text, author, platform := parsePostContent(content)
	if strings.TrimSpace(text) == "" {
		slog.Info("[IngestionStage] Skipping empty or whitespace-only text",
			slog.String("bucket", bucket),
			slog.String("key", key))
		return nil
	}

	post := models.RawPost{
		PostID:               s.newID(),
		SourceBucket:         bucket,
		SourceKey:            key,
		RawContent:           text,
		Author:               author,
		SourcePlatform:       platform,
		IngestionTimestampMS: s.now().UnixMilli(),
	}

	if err := s.store.PutRawPost(ctx, post); err != nil {
		return fmt.Errorf("raw store write failed: %w", err)
	}

	request := models.EnrichmentRequest{
		PostID:               post.PostID,
		TextToAnalyze:        post.RawContent,
		OriginalBucket:       post.SourceBucket,
		OriginalKey:          post.SourceKey,
		Author:               post.Author,
		SourcePlatform:       post.SourcePlatform,
		IngestionTimestampMS: post.IngestionTimestampMS,
	}

	if err := s.dispatcher.Send(ctx, request); err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}

	if s.seen != nil {
		if err := s.seen.MarkProcessed(ctx, bucket, key); err != nil {
			slog.Warn("[IngestionStage] Failed to mark object processed",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
	}

	slog.Info("[IngestionStage] Ingested post",
		slog.String("post_id", post.PostID),
		slog.String("source_platform", post.SourcePlatform))

	return nil
}

// parsePostContent expects a JSON object with optional text, author and
// source fields. Anything that does not parse that way is treated as a
// plain text file, never as an error.
func parsePostContent(content []byte) (text, author, platform string) {
	author = "anonymous"
	platform = "unknown"

	var post struct {
		Text   string `json:"text"`
		Author string `json:"author"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal(content, &post); err != nil {
		return string(content), author, "plain_text_file"
	}

	if post.Author != "" {
		author = post.Author
	}
	if post.Source != "" {
		platform = post.Source
	}
	return post.Text, author, platform
}
