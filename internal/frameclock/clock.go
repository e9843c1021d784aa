// Package frameclock converts irregular display-refresh intervals into
// stable, bounded simulation deltas.
//
// A Scheduler owns an ordered listener registry and is driven by a Driver
// that fires once per display refresh. Each tick it samples a monotonic
// Clock, smooths and clamps the interval per listener, and delivers the
// corrected delta plus an fps estimate to every callback, synchronously and
// in registration order.
package frameclock

import "time"

// Clock is a monotonic time source reporting milliseconds.
type Clock interface {
	Now() float64
}

// SystemClock reports milliseconds elapsed since its construction, backed
// by the runtime's monotonic clock.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a SystemClock anchored at the current instant.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now returns milliseconds since the clock was created.
func (c *SystemClock) Now() float64 {
	return float64(time.Since(c.start)) / float64(time.Millisecond)
}

// ManualClock is a test clock advanced by hand.
type ManualClock struct {
	now float64
}

// NewManualClock returns a clock reading zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Now returns the current reading in milliseconds.
func (c *ManualClock) Now() float64 { return c.now }

// Advance moves the clock forward by ms milliseconds.
func (c *ManualClock) Advance(ms float64) { c.now += ms }

// SetNow sets the absolute reading in milliseconds.
func (c *ManualClock) SetNow(ms float64) { c.now = ms }
