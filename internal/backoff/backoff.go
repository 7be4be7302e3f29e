// Package backoff builds wait-duration schedules for bounded retry loops.
package backoff

import "time"

// Schedule returns n waits growing exponentially from base, each at most
// max. With n=3, base=250ms, max=2s the schedule is 250ms, 500ms, 1s.
// A max of 0 leaves growth uncapped. Returns nil when n or base is
// non-positive.
func Schedule(n int, base, max time.Duration) []time.Duration {
	if n <= 0 || base <= 0 {
		return nil
	}
	waits := make([]time.Duration, n)
	d := base
	for i := range waits {
		if max > 0 && d > max {
			d = max
		}
		waits[i] = d
		d *= 2
	}
	return waits
}
