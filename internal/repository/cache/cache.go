package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a namespaced view over a Redis client.
type Cache struct {
	Redis     redis.UniversalClient
	Namespace string
}

func NewCache(namespace string, redisCl redis.UniversalClient) *Cache {
	return &Cache{
		Namespace: namespace,
		Redis:     redisCl,
	}
}

// Get returns redis.Nil when key is absent.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.Redis.Get(ctx, c.key(key)).Bytes()
}

func (c *Cache) Store(ctx context.Context, key string, ttl time.Duration, value []byte) error {
	return c.Redis.Set(ctx, c.key(key), value, ttl).Err()
}

// StoreIfAbsent never replaces an existing entry. It reports whether value was written.
func (c *Cache) StoreIfAbsent(ctx context.Context, key string, ttl time.Duration, value []byte) (bool, error) {
	return c.Redis.SetNX(ctx, c.key(key), value, ttl).Result()
}

func (c *Cache) Remove(ctx context.Context, key string) error {
	return c.Redis.Del(ctx, c.key(key)).Err()
}

// Flush drops every key of the namespace.
func (c *Cache) Flush(ctx context.Context) error {
	var cursor uint64
	pl := c.Redis.Pipeline()
	for {
		keys, next, err := c.Redis.Scan(ctx, cursor, c.Namespace+":*", 100).Result()
		if err != nil {
			return err
		}
		for _, key := range keys {
			pl.Del(ctx, key)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	if pl.Len() == 0 {
		return nil
	}
	_, err := pl.Exec(ctx)
	return err
}

func (c *Cache) key(k string) string {
	return c.Namespace + ":" + k
}
