// Package ratelimit throttles requests per key (usually the client IP).
package ratelimit

import "context"

type Limiter interface {
	Allow(ctx context.Context, key string) bool
}
