package utils

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterBoundsConcurrency(t *testing.T) {
	l := NewLimiter(2, 0)
	var running, peak int64
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Do(context.Background(), func(context.Context) error {
				n := atomic.AddInt64(&running, 1)
				for {
					p := atomic.LoadInt64(&peak)
					if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt64(&running, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak, int64(2))
}

func TestLimiterRateLimit(t *testing.T) {
	rateLimitMs := 50
	l := NewLimiter(1, rateLimitMs)

	var timestamps []time.Time
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Do(context.Background(), func(context.Context) error {
			timestamps = append(timestamps, time.Now())
			return nil
		}))
	}

	min := time.Duration(rateLimitMs) * time.Millisecond
	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		assert.GreaterOrEqual(t, gap, min, "gap between job %d and %d", i-1, i)
	}
}

func TestLimiterCancelledWhileWaiting(t *testing.T) {
	l := NewLimiter(1, 0)
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = l.Do(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := l.Do(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	close(release)
}
