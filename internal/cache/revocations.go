package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations is the deny list of logged-out access tokens, keyed by jti.
// Entries expire together with the token they block.
type Revocations struct{ R *redis.Client }

func revokedKey(jti string) string { return "revoked:" + jti }

func (c *Revocations) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return c.R.Set(ctx, revokedKey(jti), 1, ttl).Err()
}

func (c *Revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := c.R.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
