package ratelimit

import (
	"sync"
	"time"
)

// trimThreshold is the number of increments between two trims of expired
// measurements.
const trimThreshold = 10

// reservoir counts events over a sliding time window. Callers hold mu.
type reservoir struct {
	mu           sync.Mutex
	window       time.Duration
	measurements map[time.Time]int64
	count        int
	now          func() time.Time
}

func newReservoir(window time.Duration) *reservoir {
	return &reservoir{
		window:       window,
		measurements: make(map[time.Time]int64),
		now:          time.Now,
	}
}

func (r *reservoir) increment() {
	r.count++
	if r.count%trimThreshold == 0 {
		r.trim()
	}
	r.measurements[r.now()]++
}

func (r *reservoir) trim() {
	now := r.now()
	for key := range r.measurements {
		if now.Sub(key) > r.window {
			delete(r.measurements, key)
		}
	}
}

// values returns the per-timestamp counts still inside the window.
func (r *reservoir) values() []int64 {
	r.trim()
	values := make([]int64, 0, len(r.measurements))
	for _, v := range r.measurements {
		values = append(values, v)
	}
	return values
}

func (r *reservoir) sum() int64 {
	r.trim()
	var total int64
	for _, v := range r.measurements {
		total += v
	}
	return total
}
