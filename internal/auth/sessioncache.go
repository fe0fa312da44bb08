package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL bounds how long a token→email mapping may outlive its
// Mongo session. Kept short so a logout elsewhere converges quickly even
// if invalidation was missed.
const DefaultCacheTTL = 15 * time.Minute

// TokenCache caches token→email lookups for the auth middleware hot path.
type TokenCache interface {
	Lookup(ctx context.Context, token string) (string, error)
	Put(ctx context.Context, token, email string) error
	Invalidate(ctx context.Context, token string) error
}

// SessionCache is the Redis-backed TokenCache. The Mongo session store
// stays authoritative; a miss or a Redis outage falls through to it.
type SessionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionCache(rdb *redis.Client, ttl time.Duration) *SessionCache {
	return &SessionCache{rdb: rdb, ttl: ttl}
}

// Lookup returns the cached email for a token, or "" on a miss.
func (c *SessionCache) Lookup(ctx context.Context, token string) (string, error) {
	val, err := c.rdb.Get(ctx, "session:"+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// Put caches the mapping with the configured TTL.
func (c *SessionCache) Put(ctx context.Context, token, email string) error {
	return c.rdb.Set(ctx, "session:"+token, email, c.ttl).Err()
}

// Invalidate drops the cached mapping.
func (c *SessionCache) Invalidate(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, "session:"+token).Err()
}
