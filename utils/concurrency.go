package utils

import (
	"context"
	"sync"
	"time"
)

// Limiter bounds how many jobs run at once and spaces out their start times.
type Limiter struct {
	rateLimitMs int
	semaphore   chan struct{}
	mu          sync.Mutex
	lastStart   time.Time
}

// NewLimiter creates a Limiter with the given concurrency and rate limit.
func NewLimiter(maxWorkers, rateLimitMs int) *Limiter {
	return &Limiter{
		rateLimitMs: rateLimitMs,
		semaphore:   make(chan struct{}, max(maxWorkers, 1)),
	}
}

// Do runs job once a slot is free, or returns ctx.Err() if ctx ends first.
func (l *Limiter) Do(ctx context.Context, job func(context.Context) error) error {
	select {
	case l.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l.semaphore }()

	if err := l.enforceRateLimit(ctx); err != nil {
		return err
	}
	return job(ctx)
}

func (l *Limiter) enforceRateLimit(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	minInterval := time.Duration(l.rateLimitMs) * time.Millisecond
	if !l.lastStart.IsZero() {
		if wait := minInterval - time.Since(l.lastStart); wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	l.lastStart = time.Now()
	return nil
}
