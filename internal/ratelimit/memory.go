package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is a process-local fixed-window counter.
// State is lost on restart and not shared between instances.
type MemoryLimiter struct {
	mu           sync.Mutex
	entries      map[string]*window
	limit        int
	window       time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

type MemoryOption func(*MemoryLimiter)

func WithClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) { l.now = now }
}

func WithCleanupEvery(d time.Duration) MemoryOption {
	return func(l *MemoryLimiter) { l.cleanupEvery = d }
}

func NewMemoryLimiter(limit int, win time.Duration, opts ...MemoryOption) *MemoryLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if win <= 0 {
		win = DefaultWindow
	}
	l := &MemoryLimiter{
		entries:      make(map[string]*window),
		limit:        limit,
		window:       win,
		cleanupEvery: 10 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.entries[key]
	if !ok || !now.Before(w.resetAt) {
		l.entries[key] = &window{count: 1, resetAt: now.Add(l.window)}
		return Decision{Allowed: true, Limit: l.limit, Remaining: remaining(l.limit, 1)}, nil
	}

	if w.count >= l.limit {
		return Decision{Allowed: false, Limit: l.limit, RetryAfter: w.resetAt.Sub(now)}, nil
	}

	w.count++
	return Decision{Allowed: true, Limit: l.limit, Remaining: remaining(l.limit, w.count)}, nil
}

// Len reports how many addresses are currently tracked.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Cleanup drops entries whose window has elapsed.
func (l *MemoryLimiter) Cleanup() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, w := range l.entries {
		if !now.Before(w.resetAt) {
			delete(l.entries, key)
		}
	}
}

// StartJanitor evicts expired windows periodically until ctx is done.
func (l *MemoryLimiter) StartJanitor(ctx context.Context) {
	if l.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(l.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}
