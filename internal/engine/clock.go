package engine

import "time"

// Clock supplies the current instant and the local zone used for
// schedule comparisons.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// SystemClock reads the wall clock and the process-local zone.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Location returns time.Local.
func (SystemClock) Location() *time.Location { return time.Local }

// FixedClock always reports the same instant. A nil Loc means UTC.
type FixedClock struct {
	At  time.Time
	Loc *time.Location
}

// Now returns At.
func (c FixedClock) Now() time.Time { return c.At }

// Location returns Loc, or UTC when unset.
func (c FixedClock) Location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}
