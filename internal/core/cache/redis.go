package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Connect dials Redis and pings it once.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

// Cache is a read-through byte cache. A nil *Cache, or one without a
// client, always calls the loader.
type Cache struct {
	RDB    *redis.Client
	prefix string
	sf     singleflight.Group
}

func New(rdb *redis.Client, prefix string) *Cache {
	return &Cache{RDB: rdb, prefix: prefix}
}

func (c *Cache) key(k string) string { return c.prefix + k }

func (c *Cache) enabled() bool { return c != nil && c.RDB != nil }

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if !c.enabled() {
		return load(ctx)
	}
	if b, err := c.RDB.Get(ctx, c.key(key)).Bytes(); err == nil {
		return b, nil
	}
	// collapse concurrent misses into one load
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, c.key(key), b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Delete drops cached keys; a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.enabled() || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.RDB.Del(ctx, full...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
