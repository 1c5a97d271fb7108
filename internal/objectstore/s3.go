package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Fetcher reads inbound post files from whatever bucket the arrival
// notification names.
type Fetcher struct {
	client *s3.Client
}

func NewFetcher(client *s3.Client) *Fetcher {
	return &Fetcher{client: client}
}

func (f *Fetcher) Fetch(ctx context.Context, bucket string, key string) ([]byte, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("[ObjectStore] Failed to fetch s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("[ObjectStore] Failed to read s3://%s/%s: %w", bucket, key, err)
	}

	return body, nil
}

// ArchiveStore writes enriched documents into the processed bucket.
// Writes at the same key overwrite, which keeps enrichment retries
// idempotent by path.
type ArchiveStore struct {
	client *s3.Client
	bucket string
}

func NewArchiveStore(client *s3.Client, bucket string) *ArchiveStore {
	return &ArchiveStore{client: client, bucket: bucket}
}

func (a *ArchiveStore) Put(ctx context.Context, key string, body []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("[ObjectStore] Failed to write s3://%s/%s: %w", a.bucket, key, err)
	}

	slog.Info("[ObjectStore] Stored archive document",
		slog.String("bucket", a.bucket),
		slog.String("key", key))
	return nil
}
