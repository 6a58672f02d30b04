package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xcel/profile/internal/model"
)

const profileTTL = time.Hour

// ProfileCache keeps serialized profiles keyed by user id.
type ProfileCache struct{ R *redis.Client }

func profileKey(id string) string { return "profile:" + id }

// Get returns redis.Nil on a miss.
func (c *ProfileCache) Get(ctx context.Context, id string) (*model.Profile, error) {
	b, err := c.R.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		return nil, err
	}
	var p model.Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Set overwrites the cached profile.
func (c *ProfileCache) Set(ctx context.Context, p *model.Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, profileKey(p.UserID), b, profileTTL).Err()
}

// Fill caches p only when nothing is cached for the user yet.
func (c *ProfileCache) Fill(ctx context.Context, p *model.Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.R.SetNX(ctx, profileKey(p.UserID), b, profileTTL).Err()
}

func (c *ProfileCache) Delete(ctx context.Context, id string) error {
	return c.R.Del(ctx, profileKey(id)).Err()
}

// IsMiss distinguishes an absent key from a redis failure.
func IsMiss(err error) bool { return err == redis.Nil }
