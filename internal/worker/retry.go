package worker

import (
	"math"
	"time"
)

// RetryPolicy shapes the reschedule delays for failed export tasks. Delays
// grow geometrically from InitialDelay and are capped at MaxDelay; a task
// that exhausts MaxRetries goes to the dead-letter queue instead.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay returns the wait before retry number attempt (1-based).
// Unset policy fields fall back to a one-second doubling schedule so a
// half-filled config never turns the export loop into a busy spin.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	initial := r.InitialDelay
	if initial <= 0 {
		initial = time.Second
	}
	factor := r.BackoffFactor
	if factor <= 0 {
		factor = 2
	}

	d := time.Duration(float64(initial) * math.Pow(factor, float64(attempt-1)))
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		// float overflow on absurd attempt counts
		d = time.Second
	}
	return d
}
