package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestFixedWindowRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	lim, err := NewFixedWindow(rdb, "test:ratelimit", 2, time.Minute)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	fixed := time.Date(2026, 1, 1, 0, 0, 10, 0, time.UTC)
	lim.now = func() time.Time { return fixed }

	ctx := context.Background()
	if !lim.Allow(ctx, "ip-1") || !lim.Allow(ctx, "ip-1") {
		t.Fatalf("first two requests should pass")
	}
	if lim.Allow(ctx, "ip-1") {
		t.Fatalf("third request should be blocked")
	}
	if !lim.Allow(ctx, "ip-2") {
		t.Fatalf("keys must not share a quota")
	}
	fixed = fixed.Add(time.Minute)
	if !lim.Allow(ctx, "ip-1") {
		t.Fatalf("next window should reset the count")
	}
}

func TestFixedWindowFailsClosed(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	lim, err := NewFixedWindow(rdb, "", 1, time.Second)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	mr.Close()
	if lim.Allow(context.Background(), "ip-1") {
		t.Fatalf("limiter should fail closed on redis errors")
	}
}

func TestFixedWindowRequiresClient(t *testing.T) {
	if _, err := NewFixedWindow(nil, "", 1, time.Second); err == nil {
		t.Fatalf("expected error without client")
	}
	if _, err := NewFixedWindow(&redis.Client{}, "", 0, time.Second); err == nil {
		t.Fatalf("expected error for zero limit")
	}
}

func TestMemoryLimiter(t *testing.T) {
	m := NewMemory(2, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()
	if !m.Allow(ctx, "a") || !m.Allow(ctx, "a") {
		t.Fatalf("burst should pass")
	}
	if m.Allow(ctx, "a") {
		t.Fatalf("third request should be blocked")
	}
	if !m.Allow(ctx, "b") {
		t.Fatalf("other key should pass")
	}
	now = now.Add(30 * time.Second)
	if !m.Allow(ctx, "a") {
		t.Fatalf("token should refill after half the window")
	}
}
