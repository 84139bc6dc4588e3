package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// FixedWindow counts hits per key in Redis so every replica shares the quota.
// It fails closed when Redis is unavailable.
type FixedWindow struct {
	limit  int
	window time.Duration
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewFixedWindow(client *redis.Client, prefix string, limit int, window time.Duration) (*FixedWindow, error) {
	if limit <= 0 || window <= 0 {
		return nil, errors.New("rate limiter requires positive limit and window")
	}
	if client == nil {
		return nil, errors.New("rate limiter requires a redis client")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "techzon:ratelimit"
	}
	return &FixedWindow{limit: limit, window: window, client: client, prefix: prefix, now: time.Now}, nil
}

func (l *FixedWindow) Allow(ctx context.Context, key string) bool {
	if l == nil {
		return false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = "unknown"
	}
	windowMs := l.window.Milliseconds()
	if windowMs <= 0 {
		return true
	}
	slot := l.now().UTC().UnixMilli() / windowMs
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	n, err := fixedWindowScript.Run(ctx, l.client, []string{redisKey}, windowMs).Int64()
	if err != nil {
		return false
	}
	return n <= int64(l.limit)
}
