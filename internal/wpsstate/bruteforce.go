package wpsstate

import (
	"strconv"
	"time"

	"go.uber.org/zap"
)

// intervalWindowSize is the number of recent per-pin attempt durations
// averaged into the seconds/pin estimate, matching the original's
// collections.deque(maxlen=15).
const intervalWindowSize = 15

// statisticsPeriod is how many attempts pass between progress reports.
const statisticsPeriod = 5

// intervalRing is a fixed-capacity ring of the most recent attempt
// durations, structured after aputil's circularBuf: a slice, a write
// cursor, and a running total count, but sized in fixed slots of
// time.Duration rather than bytes.
type intervalRing struct {
	data  []time.Duration
	ptr   int
	count int
}

func newIntervalRing(capacity int) *intervalRing {
	return &intervalRing{data: make([]time.Duration, capacity)}
}

func (r *intervalRing) push(d time.Duration) {
	r.data[r.ptr] = d
	r.ptr = (r.ptr + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

func (r *intervalRing) mean() time.Duration {
	if r.count == 0 {
		return 0
	}
	var total time.Duration
	for i := 0; i < r.count; i++ {
		total += r.data[i]
	}
	return total / time.Duration(r.count)
}

// Bruteforce tracks progress through the smart_bruteforce PIN-space walk:
// the current cursor ("mask"), attempt count, and a rolling estimate of
// seconds per attempt for ETA reporting.
type Bruteforce struct {
	StartTime time.Time
	Mask      string

	lastAttempt time.Time
	intervals   *intervalRing
	counter     int

	log *zap.SugaredLogger
}

// NewBruteforce starts a fresh bruteforce progress tracker.
func NewBruteforce(log *zap.SugaredLogger) *Bruteforce {
	return &Bruteforce{
		StartTime:   time.Now(),
		lastAttempt: time.Now(),
		intervals:   newIntervalRing(intervalWindowSize),
		log:         log,
	}
}

// RegisterAttempt records that mask was just tried, updating the rolling
// interval estimate and emitting a progress report every statisticsPeriod
// attempts.
func (b *Bruteforce) RegisterAttempt(mask string) {
	b.Mask = mask
	b.counter++

	now := time.Now()
	b.intervals.push(now.Sub(b.lastAttempt))
	b.lastAttempt = now

	if b.counter == statisticsPeriod {
		b.counter = 0
		b.logStatus()
	}
}

// PercentComplete estimates progress through the full 7-digit PIN space
// (10,000 first-half values plus, once the first half is fixed, 1,000
// second-half values), matching the original's percentage formula.
func (b *Bruteforce) PercentComplete() (float64, error) {
	if len(b.Mask) == 4 {
		firstHalf, err := strconv.Atoi(b.Mask)
		if err != nil {
			return 0, err
		}
		return float64(firstHalf) / 11000 * 100, nil
	}

	secondHalf, err := strconv.Atoi(b.Mask[4:])
	if err != nil {
		return 0, err
	}
	return ((10000.0 / 11000) + (float64(secondHalf) / 11000)) * 100, nil
}

func (b *Bruteforce) logStatus() {
	pct, err := b.PercentComplete()
	if err != nil || b.log == nil {
		return
	}
	b.log.Infof("%.2f%% complete @ %s (%.2f seconds/pin)",
		pct, b.StartTime.Format("2006-01-02 15:04:05"), b.intervals.mean().Seconds())
}
