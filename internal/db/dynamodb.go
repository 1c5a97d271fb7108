package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spacesedan/postpulse/internal/models"
)

// RawPostStore persists one RawPost per post_id. PutItem gives
// create-or-overwrite semantics on the partition key.
type RawPostStore struct {
	client *dynamodb.Client
	table  string
}

func NewRawPostStore(client *dynamodb.Client, table string) *RawPostStore {
	return &RawPostStore{client: client, table: table}
}

func (s *RawPostStore) PutRawPost(ctx context.Context, post models.RawPost) error {
	item, err := attributevalue.MarshalMap(post)
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to marshal raw post: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to store raw post %s: %w", post.PostID, err)
	}

	slog.Info("[DynamoDB] Stored raw post",
		slog.String("post_id", post.PostID),
		slog.String("table", s.table))
	return nil
}
