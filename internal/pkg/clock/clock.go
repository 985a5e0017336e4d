package clock

import "time"

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	Now() time.Time
}

// TimeClocker is the production clock backed by time.Now.
type TimeClocker struct {
	loc *time.Location
}

// New returns a TimeClocker in the process local timezone.
func New() *TimeClocker {
	return &TimeClocker{}
}

// NewIn returns a TimeClocker that reports time in loc.
func NewIn(loc *time.Location) *TimeClocker {
	return &TimeClocker{loc: loc}
}

// Now returns the current system time.
func (c *TimeClocker) Now() time.Time {
	if c.loc != nil {
		return time.Now().In(c.loc)
	}
	return time.Now()
}

// Fixed always reports the same instant.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
