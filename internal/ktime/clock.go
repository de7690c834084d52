package ktime

import "sync"

// Clock owns the two global counters: clock_realtime and clock_monotonic.
// Both advance by exactly one tick interval per hardware tick;
// clock_monotonic never decreases; clock_realtime is seeded from the
// platform boot epoch and advances in lockstep with clock_monotonic.
//
// The mutex stands in for the interrupt mask the tick handler runs under
// on real hardware: readers never observe a torn {sec, nsec} pair.
type Clock struct {
	mu        sync.Mutex
	realtime  Timespec
	monotonic Timespec
}

// NewClock returns an unseeded clock at the zero timespec.
func NewClock() *Clock {
	return &Clock{}
}

// Seed sets both clocks to the platform boot-time epoch.
func (c *Clock) Seed(epochSeconds int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := Timespec{Sec: epochSeconds}
	c.realtime = ts
	c.monotonic = ts
}

// Tick advances both clocks by interval. Called once per hardware tick
// from the timer driver's handler.
func (c *Clock) Tick(interval Timespec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.realtime = c.realtime.Add(interval)
	c.monotonic = c.monotonic.Add(interval)
}

// Now returns a consistent snapshot of both clocks.
func (c *Clock) Now() (realtime, monotonic Timespec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.realtime, c.monotonic
}

// Monotonic returns just the monotonic clock, the one callers compute
// elapsed-time deltas against.
func (c *Clock) Monotonic() Timespec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.monotonic
}
