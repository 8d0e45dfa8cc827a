package shared

import "time"

// Clock is an abstraction over time so that simulated time can replace the wall clock
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the actual system time
type RealClock struct{}

// Now returns the current system time in UTC
func (r *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// NewRealClock creates a RealClock instance
func NewRealClock() Clock {
	return &RealClock{}
}

// ManualClock is a Clock that only moves when told to.
// The simulation runner advances it by the tick delta; tests use it to pin timestamps.
type ManualClock struct {
	current time.Time
}

// NewManualClock creates a ManualClock starting at the given time.
// A zero start time is replaced by the current UTC time.
func NewManualClock(start time.Time) *ManualClock {
	if start.IsZero() {
		start = time.Now().UTC()
	}
	return &ManualClock{current: start}
}

// Now returns the clock's current time
func (m *ManualClock) Now() time.Time {
	return m.current
}

// Advance moves the clock forward by d. Negative durations are ignored.
func (m *ManualClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	m.current = m.current.Add(d)
}

// Set pins the clock to a specific time
func (m *ManualClock) Set(t time.Time) {
	m.current = t
}
