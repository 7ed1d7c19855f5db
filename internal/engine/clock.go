package engine

import "sync/atomic"

// Clock is a monotonic logical clock for trace ordering.
//
// Every executed node is stamped with a strictly increasing seq number
// from this clock, so a trace totally orders one run without reference to
// wall time and replays compare byte-for-byte.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though the scheduler's single-threaded design means only one goroutine
// calls Next() per run.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
// Used when resuming from a persisted snapshot.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
