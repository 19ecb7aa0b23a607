package clock

import "time"

// FakeClock pins Now to a fixed instant so quote timestamps and rendered
// order summaries stay deterministic in tests.
type FakeClock struct {
	now time.Time
}

// NewFakeClock starts the clock at t, normalized to UTC to match the
// system clock.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

// Now returns the pinned instant.
func (c *FakeClock) Now() time.Time { return c.now }

// Advance moves the pinned instant forward by d.
func (c *FakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
