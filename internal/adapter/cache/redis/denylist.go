package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"todolist/internal/core/port"
)

const keyPrefix = "todolist:revoked:"

// TokenDenylist shares revoked token ids between instances through Redis.
type TokenDenylist struct {
	client *redis.Client
}

// NewClient parses a redis:// url and checks the server is reachable.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	options, err := redis.ParseURL(url)

	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(options)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

func NewTokenDenylist(client *redis.Client) port.TokenDenylist {
	return &TokenDenylist{client: client}
}

func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)

	if tokenID == "" || ttl <= 0 {
		return nil
	}

	return d.client.Set(ctx, keyPrefix+tokenID, 1, ttl).Err()
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	count, err := d.client.Exists(ctx, keyPrefix+tokenID).Result()

	if err != nil {
		return false, err
	}

	return count > 0, nil
}
