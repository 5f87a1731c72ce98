package ratelimit

import (
	"context"
	"time"
)

// Limit allows Requests events per sliding Window.
type Limit struct {
	Requests int
	Window   time.Duration
}

type RateLimiter interface {
	// Allow records an attempt for key and reports whether it is within limit.
	Allow(ctx context.Context, key string, limit Limit) (bool, error)
	// Count returns the attempts recorded for key inside window.
	Count(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
