package engine

import "time"

// Clock supplies the logical timestamps recorded on intents and executions.
// Implementations must return strictly increasing values across calls; the
// engine serializes access, so no internal locking is needed.
type Clock interface {
	Now() uint64
}

// logicalClock wraps the system clock and enforces strict monotonicity even
// when time.Now repeats at nanosecond granularity.
type logicalClock struct {
	last uint64
}

func (c *logicalClock) Now() uint64 {
	t := uint64(time.Now().UnixNano())
	if t <= c.last {
		t = c.last + 1
	}
	c.last = t
	return t
}
