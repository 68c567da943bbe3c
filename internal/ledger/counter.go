// Package ledger holds the in-memory state components of the arbitrage intent
// ledger: monotonic id counters, per-user indices, the intent registry, the
// execution ledger, profit accumulators, and the cross-chain signature store.
// None of these types lock; the engine serializes all access behind a single
// mutex so that every operation is call-atomic.
package ledger

import "strconv"

// Counter issues ever-increasing numeric identifiers rendered as decimal
// strings. Each counter space (intents, executions) gets its own instance;
// issued ids are never reused and have no gaps under normal operation.
type Counter struct {
	next uint64
}

// NewCounter returns a counter whose first issued id is "1".
func NewCounter() *Counter {
	return &Counter{next: 1}
}

// Next returns the current counter value as a string, then increments.
func (c *Counter) Next() string {
	id := strconv.FormatUint(c.next, 10)
	c.next++
	return id
}

// Issued returns how many ids have been handed out so far.
func (c *Counter) Issued() uint64 {
	return c.next - 1
}
