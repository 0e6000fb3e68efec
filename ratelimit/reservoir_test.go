package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(t time.Time) (func() time.Time, func(time.Duration)) {
	now := t
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func Test_newReservoir_should_create_an_empty_reservoir(t *testing.T) {
	reservoir := newReservoir(time.Hour)

	assert.NotNil(t, reservoir)
	assert.Equal(t, 0, reservoir.count)
	assert.Empty(t, reservoir.values())
}

func Test_increment_should_add_a_measurement(t *testing.T) {
	reservoir := newReservoir(time.Hour)
	reservoir.now, _ = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	reservoir.increment()

	assert.Equal(t, []int64{1}, reservoir.values())
}

func Test_increment_should_group_events_with_the_same_timestamp(t *testing.T) {
	reservoir := newReservoir(time.Hour)
	reservoir.now, _ = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	reservoir.increment()
	reservoir.increment()

	assert.Equal(t, []int64{2}, reservoir.values())
}

func Test_values_should_provide_one_value_per_timestamp(t *testing.T) {
	reservoir := newReservoir(time.Hour)
	now, advance := fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	reservoir.now = now

	reservoir.increment()
	advance(time.Second)
	reservoir.increment()

	assert.ElementsMatch(t, []int64{1, 1}, reservoir.values())
}

func Test_sum_should_sum_all_values(t *testing.T) {
	reservoir := newReservoir(time.Hour)

	reservoir.increment()
	reservoir.increment()
	reservoir.increment()

	assert.Equal(t, int64(3), reservoir.sum())
}

func Test_sum_should_forget_events_outside_the_window(t *testing.T) {
	reservoir := newReservoir(time.Hour)
	now, advance := fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	reservoir.now = now

	reservoir.increment()
	reservoir.increment()
	advance(30 * time.Minute)
	reservoir.increment()
	assert.Equal(t, int64(3), reservoir.sum())

	advance(31 * time.Minute)
	assert.Equal(t, int64(1), reservoir.sum())

	advance(time.Hour)
	assert.Equal(t, int64(0), reservoir.sum())
}

func Test_increment_should_trim_every_threshold_events(t *testing.T) {
	reservoir := newReservoir(time.Minute)
	now, advance := fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	reservoir.now = now

	reservoir.increment()
	advance(2 * time.Minute)
	for i := 1; i < trimThreshold; i++ {
		reservoir.increment()
	}

	assert.Len(t, reservoir.measurements, 1, "the expired measurement should be dropped on the tenth increment")
}
