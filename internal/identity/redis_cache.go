package identity

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache wraps a Map and caches positive translations in Redis under
// "<prefix><locale>:<id>" with a fixed TTL. Misses are not cached, since the
// counterpart may be created at any time.
type RedisCache struct {
	next   Map
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a cache in front of next. Prefix may be empty.
func NewRedisCache(next Map, client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = "identity:"
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{next: next, client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) key(locale, id string) string {
	return c.prefix + locale + ":" + id
}

func (c *RedisCache) Translate(ctx context.Context, ids []string, locale string) (map[string]string, error) {
	ids = dedupe(ids)
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(locale, id)
	}

	var missing []string
	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		// the cache is an optimisation; fall through to the store
		missing = ids
	} else {
		for i, v := range vals {
			if s, ok := v.(string); ok && s != "" {
				out[ids[i]] = s
				continue
			}
			missing = append(missing, ids[i])
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	fresh, err := c.next.Translate(ctx, missing, locale)
	if err != nil {
		return nil, err
	}
	pipe := c.client.Pipeline()
	for id, target := range fresh {
		out[id] = target
		pipe.Set(ctx, c.key(locale, id), target, c.ttl)
	}
	if len(fresh) > 0 {
		_, _ = pipe.Exec(ctx)
	}
	return out, nil
}

var _ Map = (*RedisCache)(nil)
