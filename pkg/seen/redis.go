package seen

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "wbot:seen:"

// RedisTracker shares seen chats between bot instances.
type RedisTracker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisTracker connects to the redis:// URL and verifies the connection.
func NewRedisTracker(ctx context.Context, url string, ttl time.Duration) (*RedisTracker, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = client.Ping(pingCtx).Err()
	if err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTracker{client: client, prefix: defaultKeyPrefix, ttl: ttl}, nil
}

func (r *RedisTracker) MarkSeen(ctx context.Context, jid string) (bool, error) {
	first, err := r.client.SetNX(ctx, r.prefix+jid, time.Now().UnixMilli(), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark %s as seen: %w", jid, err)
	}

	return first, nil
}

func (r *RedisTracker) Close() error {
	return r.client.Close()
}
