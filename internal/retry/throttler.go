package retry

import (
	"math/rand"
	"time"
)

const (
	initialThrottleDelay = 50 * time.Millisecond
	maxThrottleDelay     = 10 * time.Second
)

// Throttler computes the pause before the next attempt: exponential doubling
// with jitter, capped, so a recovering server is not stampeded by clients
// retrying in lockstep.
type Throttler time.Duration

func (t Throttler) next() Throttler {
	if t == 0 {
		return Throttler(initialThrottleDelay)
	}

	delay := 2 * time.Duration(t)
	if delay > maxThrottleDelay {
		delay = maxThrottleDelay
	}
	jitter := delay / 5
	if jitter <= 0 {
		return Throttler(delay)
	}
	return Throttler(delay - jitter/2 + time.Duration(rand.Int63n(int64(jitter))))
}

func (t Throttler) delay() time.Duration {
	return time.Duration(t)
}
