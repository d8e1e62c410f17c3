package utils

import "time"

// BackoffDelay returns the wait before retry number attempt (0-based):
// base, 2*base, 4*base... capped at max.
func BackoffDelay(attempt int, base, max time.Duration) time.Duration {
	d := base << uint(attempt)
	if d > max || d <= 0 {
		return max
	}
	return d
}
