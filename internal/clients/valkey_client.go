package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

// ValkeyClient tracks which (bucket, key) pairs the ingestor has already
// handled. Best effort only: a missed lookup means a duplicate RawPost
// under a fresh post_id, which at-least-once ingestion already permits.
type ValkeyClient struct {
	Client valkey.Client
}

const (
	VALKEY_PROCESSED_KEY = "ingest:processed_objects"
	processedTTLSeconds  = 86400
)

func InitValkey() *ValkeyClient {
	valkeyOnce.Do(func() {
		valkeyAddr := os.Getenv("VALKEY_INIT_ADDRESS")
		valkeyPassword := os.Getenv("VALKEY_PASSWORD")
		useTLS := os.Getenv("VALKEY_TLS") == "true"

		opts := valkey.ClientOption{
			InitAddress: []string{
				valkeyAddr,
			},
			Password:         valkeyPassword,
			ConnWriteTimeout: 5 * time.Second,
			SelectDB:         0,
		}

		if useTLS {
			opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
		}

		client, err := valkey.NewClient(opts)
		if err != nil {
			panic(fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err))
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()

		c := client.Do(ctx, client.B().Ping().Build())
		if c.Error() != nil {
			panic(fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", c.Error()))
		}

		slog.Info("[ValkeyClient] Successfully connected to valkey")

		valkeyInstance = &ValkeyClient{Client: client}
	})
	return valkeyInstance
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

func GetValkeyClient() *ValkeyClient {
	if valkeyInstance == nil {
		panic("[ValkeyClient] Error: Valkey client is not initialized")
	}
	return valkeyInstance
}

func (vc *ValkeyClient) MarkProcessed(ctx context.Context, bucket string, key string) error {
	member := objectMember(bucket, key)
	completed := []valkey.Completed{
		vc.Client.B().Sadd().Key(VALKEY_PROCESSED_KEY).Member(member).Build(),
		vc.Client.B().Expire().Key(VALKEY_PROCESSED_KEY).Seconds(processedTTLSeconds).Build(),
	}

	for _, res := range vc.Client.DoMulti(ctx, completed...) {
		if err := res.Error(); err != nil {
			return fmt.Errorf("[ValkeyClient] failed to mark object processed: %w", err)
		}
	}

	slog.Debug("[ValkeyClient] Marked object as processed",
		slog.String("object", member))
	return nil
}

func (vc *ValkeyClient) IsProcessed(ctx context.Context, bucket string, key string) bool {
	member := objectMember(bucket, key)
	res := vc.Client.Do(ctx, vc.Client.B().Sismember().Key(VALKEY_PROCESSED_KEY).Member(member).Build())

	ok, err := res.AsBool()
	if err != nil {
		return false
	}

	return ok
}

func objectMember(bucket, key string) string {
	return bucket + "/" + key
}
