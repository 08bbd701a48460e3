package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"todolist/internal/core/port"
)

// TokenDenylist keeps revoked token ids in process memory. Entries vanish
// once the token would have expired anyway.
type TokenDenylist struct {
	cache *cache.Cache
}

func NewTokenDenylist() port.TokenDenylist {
	return &TokenDenylist{
		cache: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)

	if tokenID == "" || ttl <= 0 {
		return nil
	}

	d.cache.Set(tokenID, struct{}{}, ttl)

	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, found := d.cache.Get(tokenID)

	return found, nil
}
