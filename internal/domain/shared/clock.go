package shared

import "time"

// Clock supplies the current time; tests pin it
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns T
type FixedClock struct{ T time.Time }

// Now returns the pinned time
func (c FixedClock) Now() time.Time { return c.T }
