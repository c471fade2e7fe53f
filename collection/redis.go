package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/raushankrgupta/stylis/models"
)

// KeyValue is the subset of redis.Cmdable the backend needs.
type KeyValue interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisBackend keeps the collection as a JSON string under one key.
type RedisBackend struct {
	client KeyValue
	key    string
}

func NewRedisBackend(client KeyValue, key string) *RedisBackend {
	return &RedisBackend{client: client, key: key}
}

func (b *RedisBackend) Name() string { return "redis" }

func (b *RedisBackend) Load(ctx context.Context) ([]models.SavedOutfit, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.SavedOutfit{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection key: %w", err)
	}
	return Decode(data)
}

func (b *RedisBackend) Replace(ctx context.Context, outfits []models.SavedOutfit) error {
	data, err := Encode(outfits)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set collection key: %w", err)
	}
	return nil
}
