// Package animation provides the animation automaton and the timing
// primitives it runs on.
//
// # Core Components
//
//   - [Frames]: the frame clock. Each Step advances every active [Ticker] and
//     then runs the post-frame callbacks scheduled during the previous frame.
//     The package keeps a default Frames driven by [StepTickers].
//
//   - [AnimationController]: drives a Value between LowerBound and UpperBound
//     over a Duration, with optional ReverseDuration and curves.
//
//   - [Animated]: a state container whose value is animation progress. It
//     adds repeat budgets, reverse repeats, a completion [Future], curve
//     projections and per-rebuild listeners on top of a controller.
//
//   - [Tween] and [Implicit]: interpolate typed values from progress. [LerpFor]
//     supplies built-in interpolation for common types and panics for any
//     other type.
//
// # Basic Usage
//
//	a := animation.NewAnimated(animation.Config{
//	    Duration: 300 * time.Millisecond,
//	    Curve:    animation.EaseInOut,
//	    Repeats:  2,
//	})
//	a.Listen(func() { render(a.Curved()) })
//	done := a.Trigger(false)
//	// ... frames advance ...
//	<-done.Done()
package animation

import (
	"slices"
	"sync"
	"time"
)

// Frames owns a set of tickers and post-frame callbacks and advances them
// together. All callbacks run on the goroutine calling Step.
type Frames struct {
	clock Clock

	mu        sync.Mutex
	tickers   []*Ticker
	postFrame []func()
}

// NewFrames returns a frame clock reading time from c. A nil c uses the
// package clock (see SetClock).
func NewFrames(c Clock) *Frames {
	return &Frames{clock: c}
}

var defaultFrames = NewFrames(nil)

// DefaultFrames returns the package frame clock advanced by StepTickers.
func DefaultFrames() *Frames { return defaultFrames }

// Now returns the current time of the frame clock.
func (f *Frames) Now() time.Time {
	if f.clock != nil {
		return f.clock.Now()
	}
	return Now()
}

// CreateTicker implements TickerProvider.
func (f *Frames) CreateTicker(callback func(time.Duration)) *Ticker {
	return &Ticker{frames: f, callback: callback}
}

// AddPostFrameCallback schedules fn to run once at the end of the next Step.
// Callbacks added while a Step is running wait for the following Step.
func (f *Frames) AddPostFrameCallback(fn func()) {
	f.mu.Lock()
	f.postFrame = append(f.postFrame, fn)
	f.mu.Unlock()
}

// Step advances every active ticker, then runs the post-frame callbacks that
// were pending when the step began.
func (f *Frames) Step() {
	f.mu.Lock()
	tickers := slices.Clone(f.tickers)
	post := f.postFrame
	f.postFrame = nil
	f.mu.Unlock()

	now := f.Now()
	for _, ticker := range tickers {
		if ticker.isActive && ticker.callback != nil {
			ticker.callback(now.Sub(ticker.start))
		}
	}
	for _, fn := range post {
		fn()
	}
}

// HasActiveTickers reports whether any ticker is running.
func (f *Frames) HasActiveTickers() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers) > 0
}

// HasScheduledFrame reports whether a Step would do any work.
func (f *Frames) HasScheduledFrame() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers) > 0 || len(f.postFrame) > 0
}

func (f *Frames) add(t *Ticker) {
	f.mu.Lock()
	f.tickers = append(f.tickers, t)
	f.mu.Unlock()
}

func (f *Frames) remove(t *Ticker) {
	f.mu.Lock()
	if i := slices.Index(f.tickers, t); i >= 0 {
		f.tickers = slices.Delete(f.tickers, i, i+1)
	}
	f.mu.Unlock()
}

// Ticker calls a callback on each frame while active.
//
// Ticker is the low-level timing primitive used by [AnimationController].
// The callback receives the elapsed time since Start was called.
type Ticker struct {
	frames   *Frames
	callback func(elapsed time.Duration)
	isActive bool
	start    time.Time
}

// NewTicker creates a ticker on the default frame clock.
func NewTicker(callback func(elapsed time.Duration)) *Ticker {
	return defaultFrames.CreateTicker(callback)
}

// Start activates the ticker.
func (t *Ticker) Start() {
	if t.isActive {
		return
	}
	t.isActive = true
	t.start = t.frames.Now()
	t.frames.add(t)
}

// Stop deactivates the ticker.
func (t *Ticker) Stop() {
	if !t.isActive {
		return
	}
	t.isActive = false
	t.frames.remove(t)
}

// IsActive returns whether the ticker is currently running.
func (t *Ticker) IsActive() bool {
	return t.isActive
}

// Elapsed returns the time since the ticker started.
func (t *Ticker) Elapsed() time.Duration {
	if !t.isActive {
		return 0
	}
	return t.frames.Now().Sub(t.start)
}

var _ TickerProvider = (*Frames)(nil)

// TickerProvider creates tickers.
type TickerProvider interface {
	CreateTicker(callback func(time.Duration)) *Ticker
}

// StepTickers advances the default frame clock.
// This should be called once per frame from the host loop.
func StepTickers() {
	defaultFrames.Step()
}

// HasActiveTickers returns true if any tickers on the default frame clock
// are active.
func HasActiveTickers() bool {
	return defaultFrames.HasActiveTickers()
}
