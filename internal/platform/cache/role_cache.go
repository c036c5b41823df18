package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RoleCache is a short-lived cache of user roles keyed by email. The role
// gate consults it before hitting the store; the role-change write must
// invalidate the entry so the change takes effect on the very next request.
type RoleCache interface {
	Get(ctx context.Context, email string) (string, bool)
	Set(ctx context.Context, email, role string)
	Invalidate(ctx context.Context, email string)
}

type redisRoleCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRoleCache(rdb *redis.Client, ttl time.Duration) RoleCache {
	return &redisRoleCache{rdb: rdb, ttl: ttl}
}

func roleKey(email string) string {
	return "role:" + email
}

func (c *redisRoleCache) Get(ctx context.Context, email string) (string, bool) {
	role, err := c.rdb.Get(ctx, roleKey(email)).Result()
	if err != nil {
		// Misses and redis failures both fall through to the store.
		return "", false
	}
	return role, true
}

func (c *redisRoleCache) Set(ctx context.Context, email, role string) {
	c.rdb.Set(ctx, roleKey(email), role, c.ttl)
}

func (c *redisRoleCache) Invalidate(ctx context.Context, email string) {
	c.rdb.Del(ctx, roleKey(email))
}
