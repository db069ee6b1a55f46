// Package clock abstracts the current time so task queries can be pinned to
// a known day in tests and reproducible sessions.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current instant. Production code injects Real(); tests
// and pinned sessions inject Fake().
type Clock interface {
	Now() time.Time
}

// Real returns a Clock backed by the standard time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Fake returns a FakeClock that stands still at initial until Set or
// Advance is called. FakeClock is safe for concurrent use.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock is a deterministic Clock.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set moves the clock to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Pinned returns a clock whose calendar day is fixed to day while the time
// of day keeps moving with the real clock. Created-at stamps stay distinct
// but every query sees the same "today".
func Pinned(day time.Time) Clock {
	start := time.Now()
	base := time.Date(day.Year(), day.Month(), day.Day(),
		start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), time.Local)
	return pinnedClock{base: base, start: start}
}

type pinnedClock struct {
	base  time.Time
	start time.Time
}

func (p pinnedClock) Now() time.Time {
	elapsed := time.Since(p.start)
	now := p.base.Add(elapsed)
	// Stay on the pinned day.
	if now.YearDay() != p.base.YearDay() || now.Year() != p.base.Year() {
		y, m, d := p.base.Date()
		return time.Date(y, m, d, 23, 59, 59, 0, time.Local)
	}
	return now
}
