package aputil

import (
	"fmt"
	"time"
)

// PaceTracker tracks how frequently an event occurs. Once limit events have
// been seen within period, Tick starts returning an error — used to catch a
// retry loop (WPS_FAIL, deauth, association failure) spinning far faster
// than a real AP interaction ever would.
type PaceTracker struct {
	limit  int
	period time.Duration
	starts []time.Time
}

// NewPaceTracker builds a tracker that rejects the limit-th event (and every
// later one) that lands within a period-wide sliding window.
func NewPaceTracker(limit int, period time.Duration) *PaceTracker {
	return &PaceTracker{
		limit:  limit,
		period: period,
		starts: make([]time.Time, limit),
	}
}

// Tick records one more occurrence of the event. It returns an error once
// limit occurrences have landed inside period.
func (p *PaceTracker) Tick() error {
	now := time.Now()
	p.starts = append(p.starts[1:p.limit], now)
	if delta := now.Sub(p.starts[0]); delta < p.period {
		return fmt.Errorf("%d retries in %v", p.limit, delta)
	}
	return nil
}
