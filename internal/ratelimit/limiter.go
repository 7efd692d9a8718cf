// Package ratelimit bounds lead submissions per client address with a fixed-window counter.
//
// Two backends implement Limiter: MemoryLimiter keeps the counters in process memory,
// RedisLimiter keeps them in Redis so every instance shares the same window.
package ratelimit

import (
	"context"
	"time"
)

const (
	DefaultLimit  = 5
	DefaultWindow = time.Hour
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// RetryAfter is the time left in the current window. Zero when allowed.
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

func remaining(limit, count int) int {
	if count >= limit {
		return 0
	}
	return limit - count
}
