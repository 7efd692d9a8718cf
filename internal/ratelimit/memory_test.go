package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryLimiter_SixthRequestInWindowIsRejected(t *testing.T) {
	clock := newFakeClock()
	l := NewMemoryLimiter(5, time.Hour, WithClock(clock.Now))
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		dec, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, dec.Allowed, "request %d should pass", i)
		assert.Equal(t, 5-i, dec.Remaining)
		clock.Advance(time.Minute)
	}

	dec, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, 55*time.Minute, dec.RetryAfter)
}

func TestMemoryLimiter_WindowResetsFromFirstRequest(t *testing.T) {
	clock := newFakeClock()
	l := NewMemoryLimiter(5, time.Hour, WithClock(clock.Now))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = l.Allow(ctx, "10.0.0.1")
	}
	dec, _ := l.Allow(ctx, "10.0.0.1")
	require.False(t, dec.Allowed)

	clock.Advance(59*time.Minute + 59*time.Second)
	dec, _ = l.Allow(ctx, "10.0.0.1")
	assert.False(t, dec.Allowed, "window still open one second before reset")

	clock.Advance(time.Second)
	dec, _ = l.Allow(ctx, "10.0.0.1")
	assert.True(t, dec.Allowed, "window elapsed exactly at reset time")
	assert.Equal(t, 4, dec.Remaining)
}

func TestMemoryLimiter_BurstAcrossBoundary(t *testing.T) {
	clock := newFakeClock()
	l := NewMemoryLimiter(5, time.Hour, WithClock(clock.Now))
	ctx := context.Background()

	_, _ = l.Allow(ctx, "10.0.0.1")
	clock.Advance(59 * time.Minute)
	for i := 0; i < 4; i++ {
		dec, _ := l.Allow(ctx, "10.0.0.1")
		require.True(t, dec.Allowed)
	}

	clock.Advance(time.Minute)
	for i := 0; i < 5; i++ {
		dec, _ := l.Allow(ctx, "10.0.0.1")
		assert.True(t, dec.Allowed, "fixed window admits a fresh burst after the boundary")
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Hour)
	ctx := context.Background()

	dec, _ := l.Allow(ctx, "a")
	assert.True(t, dec.Allowed)
	dec, _ = l.Allow(ctx, "a")
	assert.False(t, dec.Allowed)

	dec, _ = l.Allow(ctx, "b")
	assert.True(t, dec.Allowed)
}

func TestMemoryLimiter_Defaults(t *testing.T) {
	l := NewMemoryLimiter(0, 0)
	assert.Equal(t, DefaultLimit, l.limit)
	assert.Equal(t, DefaultWindow, l.window)
}

func TestMemoryLimiter_CleanupDropsExpired(t *testing.T) {
	clock := newFakeClock()
	l := NewMemoryLimiter(5, time.Hour, WithClock(clock.Now))
	ctx := context.Background()

	_, _ = l.Allow(ctx, "old")
	clock.Advance(30 * time.Minute)
	_, _ = l.Allow(ctx, "new")
	require.Equal(t, 2, l.Len())

	clock.Advance(30 * time.Minute)
	l.Cleanup()

	assert.Equal(t, 1, l.Len())
}

func TestMemoryLimiter_ConcurrentAllowNeverExceedsLimit(t *testing.T) {
	l := NewMemoryLimiter(5, time.Hour)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dec, _ := l.Allow(ctx, "10.0.0.1")
			if dec.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, allowed)
}

func TestMemoryLimiter_JanitorStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	clock := newFakeClock()
	l := NewMemoryLimiter(5, time.Minute, WithClock(clock.Now), WithCleanupEvery(5*time.Millisecond))
	_, _ = l.Allow(context.Background(), "10.0.0.1")
	clock.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	l.StartJanitor(ctx)

	assert.Eventually(t, func() bool { return l.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(20 * time.Millisecond)
}
