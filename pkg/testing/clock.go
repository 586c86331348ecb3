package testing

import (
	"sync/atomic"
	"time"

	"github.com/go-drift/statekit/pkg/animation"
)

// Epoch is the time every FakeClock starts at.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// FakeClock is an animation.Clock that only moves when told to. Pass it to
// animation.NewFrames, or install it with animation.SetClock. Safe for
// concurrent use.
type FakeClock struct {
	offset atomic.Int64
}

var _ animation.Clock = (*FakeClock)(nil)

// NewFakeClock returns a clock reading Epoch.
func NewFakeClock() *FakeClock { return &FakeClock{} }

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time { return Epoch.Add(c.Elapsed()) }

// Elapsed returns how far the clock has moved past Epoch.
func (c *FakeClock) Elapsed() time.Duration { return time.Duration(c.offset.Load()) }

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) { c.offset.Add(int64(d)) }

// Set jumps to t, which may lie before the current time.
func (c *FakeClock) Set(t time.Time) { c.offset.Store(int64(t.Sub(Epoch))) }
