package ratelimit

import "time"

// RateLimiter runs submitted functions until threshold of them have run
// within the time window. Extra submissions are dropped, not queued.
type RateLimiter struct {
	reservoir *reservoir
	threshold int64
}

// New creates a RateLimiter allowing threshold calls per timeWindow.
func New(threshold int64, timeWindow time.Duration) *RateLimiter {
	return &RateLimiter{
		reservoir: newReservoir(timeWindow),
		threshold: threshold,
	}
}

// Submit runs function if the budget allows it and reports whether it ran.
func (l *RateLimiter) Submit(function func()) bool {
	l.reservoir.mu.Lock()
	execute := l.reservoir.sum() < l.threshold
	if execute {
		l.reservoir.increment()
	}
	l.reservoir.mu.Unlock()

	if execute {
		function()
	}
	return execute
}

// Remaining returns how many more submissions fit in the current window.
func (l *RateLimiter) Remaining() int64 {
	l.reservoir.mu.Lock()
	left := l.threshold - l.reservoir.sum()
	l.reservoir.mu.Unlock()
	if left < 0 {
		return 0
	}
	return left
}
