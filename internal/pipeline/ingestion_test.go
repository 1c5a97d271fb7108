package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spacesedan/postpulse/internal/models"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	objects map[string][]byte
}

func (f *fakeFetcher) Fetch(_ context.Context, bucket, key string) ([]byte, error) {
	body, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("no such object")
	}
	return body, nil
}

type fakeStore struct {
	posts []models.RawPost
	err   error
}

func (s *fakeStore) PutRawPost(_ context.Context, post models.RawPost) error {
	if s.err != nil {
		return s.err
	}
	s.posts = append(s.posts, post)
	return nil
}

type fakeDispatcher struct {
	sent []models.EnrichmentRequest
	err  error
}

func (d *fakeDispatcher) Send(_ context.Context, request models.EnrichmentRequest) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, request)
	return nil
}

type fakeCache struct {
	seen   map[string]bool
	marked []string
}

func (c *fakeCache) IsProcessed(_ context.Context, bucket, key string) bool {
	return c.seen[bucket+"/"+key]
}

func (c *fakeCache) MarkProcessed(_ context.Context, bucket, key string) error {
	c.marked = append(c.marked, bucket+"/"+key)
	return nil
}

func batchFor(keys ...string) models.NotificationBatch {
	var batch models.NotificationBatch
	for _, key := range keys {
		batch.Records = append(batch.Records, models.FileArrivalNotification{
			S3: models.S3Entity{
				Bucket: models.S3Bucket{Name: "inbound"},
				Object: models.S3Object{Key: key},
			},
		})
	}
	return batch
}

func newTestStage(fetcher *fakeFetcher, store *fakeStore, dispatcher *fakeDispatcher) *IngestionStage {
	stage := NewIngestionStage(fetcher, store, dispatcher)
	stage.now = func() time.Time { return time.UnixMilli(1709800000000) }
	return stage
}

func TestIngestValidJSONPost(t *testing.T) {
	fetcher := &fakeFetcher{objects: map[string][]byte{
		"inbound/post1.json": []byte(`{"text": "Great service!", "author": "alice", "source": "Twitter"}`),
	}}
	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	stage := newTestStage(fetcher, store, dispatcher)

	result := stage.Handle(context.Background(), batchFor("post1.json"))

	require.Equal(t, 200, result.StatusCode)
	require.Len(t, store.posts, 1)

	post := store.posts[0]
	require.NotEmpty(t, post.PostID)
	require.Equal(t, "Great service!", post.RawContent)
	require.Equal(t, "alice", post.Author)
	require.Equal(t, "Twitter", post.SourcePlatform)
	require.Equal(t, "inbound", post.SourceBucket)
	require.Equal(t, "post1.json", post.SourceKey)
	require.Equal(t, int64(1709800000000), post.IngestionTimestampMS)

	require.Len(t, dispatcher.sent, 1)
	request := dispatcher.sent[0]
	require.Equal(t, post.PostID, request.PostID)
	require.Equal(t, post.RawContent, request.TextToAnalyze)
	require.Equal(t, post.IngestionTimestampMS, request.IngestionTimestampMS)
}

func TestIngestPlainTextFallback(t *testing.T) {
	content := "this is not json, just a plain post"
	fetcher := &fakeFetcher{objects: map[string][]byte{
		"inbound/note.txt": []byte(content),
	}}
	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	stage := newTestStage(fetcher, store, dispatcher)

	stage.Handle(context.Background(), batchFor("note.txt"))

	require.Len(t, store.posts, 1)
	require.Equal(t, content, store.posts[0].RawContent)
	require.Equal(t, "plain_text_file", store.posts[0].SourcePlatform)
	require.Equal(t, "anonymous", store.posts[0].Author)
}

func TestIngestDefaultsForMissingFields(t *testing.T) {
	fetcher := &fakeFetcher{objects: map[string][]byte{
		"inbound/bare.json": []byte(`{"text": "hello there"}`),
	}}
	store := &fakeStore{}
	stage := newTestStage(fetcher, store, &fakeDispatcher{})

	stage.Handle(context.Background(), batchFor("bare.json"))

	require.Len(t, store.posts, 1)
	require.Equal(t, "anonymous", store.posts[0].Author)
	require.Equal(t, "unknown", store.posts[0].SourcePlatform)
}

func TestIngestSkipsEmptyText(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty object body", body: ""},
		{name: "whitespace only body", body: "   \n\t "},
		{name: "json with whitespace text", body: `{"text": "   "}`},
		{name: "json without text field", body: `{"author": "bob"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{objects: map[string][]byte{
				"inbound/empty": []byte(tt.body),
			}}
			store := &fakeStore{}
			dispatcher := &fakeDispatcher{}
			stage := newTestStage(fetcher, store, dispatcher)

			result := stage.Handle(context.Background(), batchFor("empty"))

			require.Equal(t, 200, result.StatusCode)
			require.Empty(t, store.posts)
			require.Empty(t, dispatcher.sent)
		})
	}
}

func TestIngestIsolatesPerNotificationFailures(t *testing.T) {
	fetcher := &fakeFetcher{objects: map[string][]byte{
		"inbound/a.json": []byte(`{"text": "first"}`),
		"inbound/c.json": []byte(`{"text": "third"}`),
	}}
	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	stage := newTestStage(fetcher, store, dispatcher)

	// b.json does not exist; its fetch failure must not abort a or c.
	result := stage.Handle(context.Background(), batchFor("a.json", "b.json", "c.json"))

	require.Equal(t, 200, result.StatusCode)
	require.Len(t, store.posts, 2)
	require.Len(t, dispatcher.sent, 2)
	require.Equal(t, "first", store.posts[0].RawContent)
	require.Equal(t, "third", store.posts[1].RawContent)
}

func TestIngestStoreFailureSkipsDispatch(t *testing.T) {
	fetcher := &fakeFetcher{objects: map[string][]byte{
		"inbound/a.json": []byte(`{"text": "hello"}`),
	}}
	store := &fakeStore{err: errors.New("table unavailable")}
	dispatcher := &fakeDispatcher{}
	stage := newTestStage(fetcher, store, dispatcher)

	result := stage.Handle(context.Background(), batchFor("a.json"))

	require.Equal(t, 200, result.StatusCode)
	require.Empty(t, dispatcher.sent)
}

func TestIngestDispatchFailureDoesNotFailBatch(t *testing.T) {
	fetcher := &fakeFetcher{objects: map[string][]byte{
		"inbound/a.json": []byte(`{"text": "hello"}`),
	}}
	store := &fakeStore{}
	dispatcher := &fakeDispatcher{err: errors.New("broker down")}
	stage := newTestStage(fetcher, store, dispatcher)

	result := stage.Handle(context.Background(), batchFor("a.json"))

	require.Equal(t, 200, result.StatusCode)
	require.Len(t, store.posts, 1, "raw post stays durably stored even when dispatch fails")
}

func TestIngestGeneratesFreshIdentityPerPost(t *testing.T) {
	fetcher := &fakeFetcher{objects: map[string][]byte{
		"inbound/a.json": []byte(`{"text": "one"}`),
		"inbound/b.json": []byte(`{"text": "two"}`),
	}}
	store := &fakeStore{}
	stage := newTestStage(fetcher, store, &fakeDispatcher{})

	stage.Handle(context.Background(), batchFor("a.json", "b.json"))

	require.Len(t, store.posts, 2)
	require.NotEmpty(t, store.posts[0].PostID)
	require.NotEmpty(t, store.posts[1].PostID)
	require.NotEqual(t, store.posts[0].PostID, store.posts[1].PostID)
}

func TestIngestSkipsAlreadyProcessedObjects(t *testing.T) {
	fetcher := &fakeFetcher{objects: map[string][]byte{
		"inbound/a.json": []byte(`{"text": "hello"}`),
		"inbound/b.json": []byte(`{"text": "world"}`),
	}}
	store := &fakeStore{}
	dispatcher := &fakeDispatcher{}
	cache := &fakeCache{seen: map[string]bool{"inbound/a.json": true}}
	stage := newTestStage(fetcher, store, dispatcher).WithProcessedCache(cache)

	stage.Handle(context.Background(), batchFor("a.json", "b.json"))

	require.Len(t, store.posts, 1)
	require.Equal(t, "world", store.posts[0].RawContent)
	require.Equal(t, []string{"inbound/b.json"}, cache.marked)
}

func TestParsePostContent(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantText     string
		wantAuthor   string
		wantPlatform string
	}{
		{
			name:         "full json",
			content:      `{"text": "hi", "author": "bob", "source": "Mastodon"}`,
			wantText:     "hi",
			wantAuthor:   "bob",
			wantPlatform: "Mastodon",
		},
		{
			name:         "json defaults",
			content:      `{"text": "hi"}`,
			wantText:     "hi",
			wantAuthor:   "anonymous",
			wantPlatform: "unknown",
		},
		{
			name:         "malformed json",
			content:      `{"text": "hi"`,
			wantText:     `{"text": "hi"`,
			wantAuthor:   "anonymous",
			wantPlatform: "plain_text_file",
		},
		{
			name:         "plain text",
			content:      "hello world",
			wantText:     "hello world",
			wantAuthor:   "anonymous",
			wantPlatform: "plain_text_file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, author, platform := parsePostContent([]byte(tt.content))
			require.Equal(t, tt.wantText, text)
			require.Equal(t, tt.wantAuthor, author)
			require.Equal(t, tt.wantPlatform, platform)
		})
	}
}
