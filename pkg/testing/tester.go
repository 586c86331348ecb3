package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-drift/statekit/pkg/animation"
	"github.com/go-drift/statekit/pkg/core"
	"github.com/go-drift/statekit/pkg/state"
)

// FrameInterval is how far PumpFrame and PumpAndSettle advance the clock.
const FrameInterval = 16 * time.Millisecond

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: state did not settle")

// Tester drives a registry, a frame clock and a build owner the way a host
// loop would, but on a fake clock and under the test's control.
type Tester struct {
	registry  *state.Registry
	owner     *core.BuildOwner
	frames    *animation.Frames
	clock     *FakeClock
	prevClock animation.Clock
	views     []*core.View
}

// NewTester creates a tester with a fresh registry. The package animation
// clock is replaced by the tester's fake clock until Cleanup.
// Call Cleanup() when done, or use NewTesterWithT() instead.
func NewTester(opts ...state.RegistryOption) *Tester {
	clk := NewFakeClock()
	t := &Tester{
		registry: state.NewRegistry(opts...),
		owner:    core.NewBuildOwner(),
		frames:   animation.NewFrames(clk),
		clock:    clk,
	}
	t.prevClock = animation.SetClock(clk)
	return t
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t *testing.T, opts ...state.RegistryOption) *Tester {
	tester := NewTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts views, disposes every registered container and restores
// the animation clock. Must be called if not using NewTesterWithT.
func (t *Tester) Cleanup() {
	for i := len(t.views) - 1; i >= 0; i-- {
		t.views[i].Unmount()
	}
	t.views = nil
	t.registry.DisposeAll()
	t.registry.Scheduler().Flush()
	animation.SetClock(t.prevClock)
}

// Registry returns the tester's registry.
func (t *Tester) Registry() *state.Registry { return t.registry }

// Frames returns the frame clock; pass it as animation.Config.Frames.
func (t *Tester) Frames() *animation.Frames { return t.frames }

// Owner returns the build owner views are mounted on.
func (t *Tester) Owner() *core.BuildOwner { return t.owner }

// Clock returns the fake clock for advancing time in tests.
func (t *Tester) Clock() *FakeClock { return t.clock }

// Mount mounts st as a root view and runs its first build.
func (t *Tester) Mount(st core.State) *core.View {
	v := core.Mount(t.owner, nil, st)
	t.views = append(t.views, v)
	return v
}

// Pump runs a single frame cycle without advancing time: scheduler tasks,
// frame tickers and post-frame callbacks, then builds.
func (t *Tester) Pump() {
	// 1. Drain the scheduler
	t.registry.Scheduler().Flush()

	// 2. Step tickers
	t.frames.Step()

	// 3. Flush build
	t.owner.FlushBuild()
}

// PumpFrame advances the clock by one FrameInterval and pumps.
func (t *Tester) PumpFrame() {
	t.clock.Advance(FrameInterval)
	t.Pump()
}

// PumpFor pumps frames until d has elapsed on the fake clock.
func (t *Tester) PumpFor(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += FrameInterval {
		t.PumpFrame()
	}
}

// PumpAndSettle runs frames until there is no pending work or the timeout
// is reached. Each frame advances the fake clock by FrameInterval.
// Returns ErrSettleTimeout if the state does not settle within timeout.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed < timeout {
		t.Pump()
		if !t.needsWork() {
			return nil
		}
		t.clock.Advance(FrameInterval)
		elapsed += FrameInterval
	}
	return ErrSettleTimeout
}

// needsWork returns true if anything has pending work.
func (t *Tester) needsWork() bool {
	return t.owner.NeedsWork() ||
		t.frames.HasScheduledFrame() ||
		t.registry.Scheduler().Pending() > 0
}
