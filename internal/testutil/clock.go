package testutil

import (
	"sync"
	"time"
)

// DefaultTestTime is the instant a ManualClock starts at unless told otherwise.
var DefaultTestTime = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

// ManualClock is a settable wall clock for tests.
//
// Time only moves when the test calls Advance or Set, so timestamps written
// by services are exact and token expiry can be simulated without sleeping.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock reading DefaultTestTime.
func NewManualClock() *ManualClock {
	return &ManualClock{now: DefaultTestTime}
}

// NewManualClockAt creates a clock reading t.
func NewManualClockAt(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

// Now returns the current reading. Implements store.Clock.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new reading.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
