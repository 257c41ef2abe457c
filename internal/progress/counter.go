package progress

import "sync/atomic"

// Counter tracks how many items of a batch are still outstanding.
//
// The zero value is a drained counter. A Counter must not be copied after
// first use.
type Counter struct {
	total     int64
	remaining atomic.Int64
}

// NewCounter returns a Counter seeded with n outstanding items.
// Negative values are treated as zero.
func NewCounter(n int) *Counter {
	c := &Counter{total: int64(max(n, 0))}
	c.remaining.Store(c.total)
	return c
}

// Decrement marks one item as done and returns the number still outstanding.
//
// The decrement and the read of the new value happen atomically with respect
// to every other Decrement. The counter never goes below zero: when it is
// already drained, Decrement leaves it at zero and reports ok == false.
func (c *Counter) Decrement() (remaining int, ok bool) {
	for {
		cur := c.remaining.Load()
		if cur <= 0 {
			return 0, false
		}
		if c.remaining.CompareAndSwap(cur, cur-1) {
			return int(cur - 1), true
		}
	}
}

// Remaining returns the number of outstanding items.
func (c *Counter) Remaining() int {
	return int(c.remaining.Load())
}

// Total returns the value the counter was seeded with.
func (c *Counter) Total() int {
	return int(c.total)
}
