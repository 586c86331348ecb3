package animation

import (
	"sync/atomic"
	"time"
)

// Clock is a time source. Frames read it to compute ticker elapsed time, so
// tests can drive animations deterministically with a fake clock.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads wall time.
var SystemClock Clock = ClockFunc(time.Now)

type clockHolder struct{ Clock }

var packageClock atomic.Pointer[clockHolder]

func init() { packageClock.Store(&clockHolder{SystemClock}) }

// SetClock replaces the package clock used by frame clocks created with a
// nil Clock, and returns the previous one for restoring. A nil c restores
// SystemClock.
func SetClock(c Clock) Clock {
	if c == nil {
		c = SystemClock
	}
	return packageClock.Swap(&clockHolder{c}).Clock
}

// Now returns the package clock's current time.
func Now() time.Time { return packageClock.Load().Now() }
