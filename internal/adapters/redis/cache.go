package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hotel_merge/internal/adapters/observability"
)

// Cache stores query results as JSON under a common key prefix.
type Cache struct {
	c      *redis.Client
	prefix string
}

func New(addr, pass string, db int) *Cache {
	return NewFromClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewFromClient(c *redis.Client) *Cache {
	return &Cache{c: c, prefix: "hotel_merge:"}
}

func (r *Cache) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Cache) Close() error { return r.c.Close() }

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		observability.ObserveCache("redis", "error")
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(v, dst); err != nil {
		// an entry that no longer decodes is dropped and treated as a miss
		_ = r.c.Del(ctx, r.prefix+key).Err()
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	observability.ObserveCache("redis", "hit")
	return true, nil
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, r.prefix+key, b, time.Duration(ttlSec)*time.Second).Err()
}

// Purge deletes every key under the cache prefix that matches pattern
// (e.g. "hotels:*") and returns how many were removed.
func (r *Cache) Purge(ctx context.Context, pattern string) (int, error) {
	var n int
	iter := r.c.Scan(ctx, 0, r.prefix+pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.c.Del(ctx, iter.Val()).Err(); err != nil {
			return n, err
		}
		n++
	}
	if err := iter.Err(); err != nil {
		return n, err
	}
	observability.ObserveCache("redis", "purge")
	return n, nil
}
