package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Submit_should_run_function(t *testing.T) {
	rateLimiter := New(1000, time.Hour)

	var triggered = false
	executed := rateLimiter.Submit(func() {
		triggered = true
	})

	assert.True(t, triggered)
	assert.True(t, executed)
}

func Test_Submit_should_run_function_until_threshold_is_reached(t *testing.T) {
	threshold := int64(3)
	rateLimiter := New(threshold, time.Hour)

	var triggerCount = 0
	var dropped = 0
	for i := int64(0); i < threshold+1; i++ {
		if !rateLimiter.Submit(func() { triggerCount++ }) {
			dropped++
		}
	}

	assert.Equal(t, int(threshold), triggerCount)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, int64(0), rateLimiter.Remaining())
}

func Test_Submit_should_allow_again_once_the_window_has_passed(t *testing.T) {
	rateLimiter := New(1, time.Hour)
	now, advance := fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	rateLimiter.reservoir.now = now

	assert.True(t, rateLimiter.Submit(func() {}))
	assert.False(t, rateLimiter.Submit(func() {}))

	advance(time.Hour + time.Second)
	assert.Equal(t, int64(1), rateLimiter.Remaining())
	assert.True(t, rateLimiter.Submit(func() {}))
}

func Test_concurrent_calls(t *testing.T) {
	const iterations = 2000
	threshold := int64(1000)
	rateLimiter := New(threshold, time.Hour)

	var ran atomic.Int64
	wg := sync.WaitGroup{}
	wg.Add(iterations)
	for i := 0; i < iterations; i++ {
		go func() {
			defer wg.Done()
			rateLimiter.Submit(func() {
				ran.Add(1)
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(0), rateLimiter.Remaining())
	assert.Equal(t, threshold, rateLimiter.reservoir.sum())
	assert.Equal(t, threshold, ran.Load())
}
