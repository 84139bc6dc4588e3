package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Memory is a per-key token bucket for single-instance deployments.
type Memory struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	buckets map[string]*bucket
	ttl     time.Duration
	now     func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewMemory allows limit events per window with an equal burst.
func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		rps:     rate.Limit(float64(limit) / window.Seconds()),
		burst:   limit,
		buckets: make(map[string]*bucket),
		ttl:     10 * window,
		now:     time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	b, ok := m.buckets[key]
	if !ok {
		if len(m.buckets) > 10000 {
			m.sweep(now)
		}
		b = &bucket{lim: rate.NewLimiter(m.rps, m.burst)}
		m.buckets[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

func (m *Memory) sweep(now time.Time) {
	for k, b := range m.buckets {
		if now.Sub(b.seen) > m.ttl {
			delete(m.buckets, k)
		}
	}
}
