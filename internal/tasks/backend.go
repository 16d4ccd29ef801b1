package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	scouterrors "github.com/flockwood/Offside-Tool/internal/errors"
)

// defaultResultTTL is how long stored task results stay readable.
const defaultResultTTL = time.Hour

// ResultBackend stores task results for later retrieval by task id.
type ResultBackend interface {
	Store(ctx context.Context, result Result) error
}

// RedisBackend stores task results as JSON values with a TTL.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBackend connects to the result backend at redisURL and verifies
// connectivity. A non-positive ttl falls back to the default.
func NewRedisBackend(ctx context.Context, redisURL string, ttl time.Duration) (*RedisBackend, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, scouterrors.NewStoreError("result backend", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, scouterrors.NewStoreError("result backend", err)
	}
	if ttl <= 0 {
		ttl = defaultResultTTL
	}
	return &RedisBackend{client: client, ttl: ttl}, nil
}

func (b *RedisBackend) Store(ctx context.Context, result Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return scouterrors.NewStoreError("result backend", err)
	}
	if err := b.client.Set(ctx, resultKey(result.TaskID), payload, b.ttl).Err(); err != nil {
		return scouterrors.NewStoreError("result backend", err)
	}
	return nil
}

// Fetch reads a stored result back by task id, (nil, nil) when the id is
// unknown or already expired.
func (b *RedisBackend) Fetch(ctx context.Context, taskID string) (*Result, error) {
	payload, err := b.client.Get(ctx, resultKey(taskID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, scouterrors.NewStoreError("result backend", err)
	}
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, scouterrors.NewStoreError("result backend", err)
	}
	return &result, nil
}

// Close releases the backend connection.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}

func resultKey(taskID string) string {
	return "task:" + taskID
}
