package spotify

import (
	"context"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
)

type TokenCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type RedisTokenCache struct {
	Cache *cache.Cache[string]
}

func NewRedisTokenCache(client *redis.Client) *RedisTokenCache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(55*time.Minute))

	return &RedisTokenCache{
		Cache: cache.New[string](redisStore),
	}
}

func (r *RedisTokenCache) Get(ctx context.Context, key string) (string, error) {
	return r.Cache.Get(ctx, key)
}

func (r *RedisTokenCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.Cache.Set(ctx, key, value, store.WithExpiration(ttl))
}
