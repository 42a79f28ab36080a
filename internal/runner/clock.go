package runner

import "sync/atomic"

// Clock is a monotonic logical clock for trace event ordering.
//
// Every trace event is stamped with a strictly increasing seq number
// from this clock, never a wall-clock timestamp, so runs of the same
// scenario produce identical traces.
//
// Thread-safety: Clock is safe for concurrent use, though the runner's
// single-threaded loop means only one goroutine calls Next in practice.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and advances the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without advancing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
