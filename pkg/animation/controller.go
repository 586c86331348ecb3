package animation

import (
	"fmt"
	"slices"
	"time"
)

// AnimationStatus represents the current state of an animation.
//
// The status follows this state machine:
//
//	                Forward()
//	Dismissed ──────────────────► Completed
//	    ▲                              │
//	    │         Reverse()            │
//	    └──────────────────────────────┘
//
// While animating, status is AnimationForward or AnimationReverse.
// When stopped, status is AnimationDismissed (at LowerBound) or
// AnimationCompleted (at UpperBound).
type AnimationStatus int

const (
	// AnimationDismissed means the animation is stopped at the lower bound.
	AnimationDismissed AnimationStatus = iota
	// AnimationForward means the animation is playing toward the upper bound.
	AnimationForward
	// AnimationReverse means the animation is playing toward the lower bound.
	AnimationReverse
	// AnimationCompleted means the animation is stopped at the upper bound.
	AnimationCompleted
)

// String returns a human-readable representation of the animation status.
func (s AnimationStatus) String() string {
	switch s {
	case AnimationDismissed:
		return "dismissed"
	case AnimationForward:
		return "forward"
	case AnimationReverse:
		return "reverse"
	case AnimationCompleted:
		return "completed"
	default:
		return fmt.Sprintf("AnimationStatus(%d)", int(s))
	}
}

type listener[F any] struct {
	id int
	fn F
}

// AnimationController drives an animation by producing values over time.
//
// The controller manages a Value that progresses from LowerBound (default 0.0)
// to UpperBound (default 1.0) over Duration, or over ReverseDuration when
// heading back if that is set. Curve (and ReverseCurve on the way back)
// transforms linear progress into eased motion; leave both nil to get linear
// progress in Value.
//
// Listeners run in registration order. Always call Dispose when done to stop
// the animation and release resources.
type AnimationController struct {
	// Value is the current animation value.
	Value float64

	// Duration is the length of a forward run.
	Duration time.Duration

	// ReverseDuration is the length of a reverse run. Zero uses Duration.
	ReverseDuration time.Duration

	// Curve transforms linear progress (optional).
	Curve func(float64) float64

	// ReverseCurve transforms progress while reversing. Nil uses Curve.
	ReverseCurve func(float64) float64

	// LowerBound is the minimum value (default 0.0).
	LowerBound float64

	// UpperBound is the maximum value (default 1.0).
	UpperBound float64

	// Frames is the frame clock driving the controller. Nil uses the
	// default frame clock.
	Frames *Frames

	status          AnimationStatus
	ticker          *Ticker
	target          float64
	startValue      float64
	listeners       []listener[func()]
	statusListeners []listener[func(AnimationStatus)]
	nextListenerID  int
}

// NewAnimationController creates an animation controller with the given duration.
func NewAnimationController(duration time.Duration) *AnimationController {
	return &AnimationController{
		Value:      0,
		Duration:   duration,
		LowerBound: 0,
		UpperBound: 1,
		Curve:      LinearCurve,
		status:     AnimationDismissed,
	}
}

func (c *AnimationController) frames() *Frames {
	if c.Frames != nil {
		return c.Frames
	}
	return defaultFrames
}

// Forward animates from the current value to the upper bound.
func (c *AnimationController) Forward() { c.run(c.UpperBound, AnimationForward) }

// Reverse animates from the current value to the lower bound.
func (c *AnimationController) Reverse() { c.run(c.LowerBound, AnimationReverse) }

// AnimateTo animates to target, forward if it lies above the current value.
func (c *AnimationController) AnimateTo(target float64) {
	dir := AnimationReverse
	if target > c.Value {
		dir = AnimationForward
	}
	c.run(target, dir)
}

func (c *AnimationController) run(target float64, dir AnimationStatus) {
	c.Stop()
	c.target = target
	c.startValue = c.Value
	c.setStatus(dir)
	c.ticker = c.frames().CreateTicker(c.tick)
	c.ticker.Start()
}

// duration and curve pick the reverse variants while heading back.
func (c *AnimationController) duration() time.Duration {
	if c.status == AnimationReverse && c.ReverseDuration > 0 {
		return c.ReverseDuration
	}
	return c.Duration
}

func (c *AnimationController) curve() func(float64) float64 {
	if c.status == AnimationReverse && c.ReverseCurve != nil {
		return c.ReverseCurve
	}
	return c.Curve
}

func (c *AnimationController) tick(elapsed time.Duration) {
	progress := 1.0
	if d := c.duration(); d > 0 {
		progress = min(1, float64(elapsed)/float64(d))
	}
	eased := progress
	if curve := c.curve(); curve != nil && progress < 1 {
		eased = curve(progress)
	}
	c.Value = c.startValue + (c.target-c.startValue)*eased
	c.notifyListeners()

	if progress >= 1 {
		c.Stop()
		c.settle()
	}
}

// settle moves to a resting status when the value sits on a bound.
func (c *AnimationController) settle() {
	switch {
	case c.Value <= c.LowerBound:
		c.setStatus(AnimationDismissed)
	case c.Value >= c.UpperBound:
		c.setStatus(AnimationCompleted)
	}
}

// SetValue stops the animation and jumps to v, clamped to the bounds. The
// status becomes AnimationDismissed or AnimationCompleted when v rests on a
// bound.
func (c *AnimationController) SetValue(v float64) {
	c.Stop()
	c.Value = max(c.LowerBound, min(c.UpperBound, v))
	c.notifyListeners()
	c.settle()
}

// Reset jumps to the lower bound.
func (c *AnimationController) Reset() {
	c.Stop()
	c.Value = c.LowerBound
	c.setStatus(AnimationDismissed)
	c.notifyListeners()
}

// Stop halts the animation at the current value without changing status.
func (c *AnimationController) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

// Status returns the current animation status.
func (c *AnimationController) Status() AnimationStatus { return c.status }

// IsAnimating reports whether a ticker is driving the value.
func (c *AnimationController) IsAnimating() bool { return c.ticker != nil }

// IsCompleted reports whether the controller rests at the upper bound.
func (c *AnimationController) IsCompleted() bool { return c.status == AnimationCompleted }

// IsDismissed reports whether the controller rests at the lower bound.
func (c *AnimationController) IsDismissed() bool { return c.status == AnimationDismissed }

// AddListener registers fn to run on every value change and returns a
// function that removes it.
func (c *AnimationController) AddListener(fn func()) (remove func()) {
	return addListener(&c.listeners, &c.nextListenerID, fn)
}

// AddStatusListener registers fn to run on every status change and returns a
// function that removes it.
func (c *AnimationController) AddStatusListener(fn func(AnimationStatus)) (remove func()) {
	return addListener(&c.statusListeners, &c.nextListenerID, fn)
}

// addListener appends fn under a fresh id. Removal copies the slice so an
// in-progress notification keeps iterating its own snapshot.
func addListener[F any](list *[]listener[F], nextID *int, fn F) func() {
	id := *nextID
	*nextID++
	*list = append(*list, listener[F]{id, fn})
	return func() {
		*list = slices.DeleteFunc(slices.Clone(*list), func(l listener[F]) bool { return l.id == id })
	}
}

func (c *AnimationController) setStatus(status AnimationStatus) {
	if c.status == status {
		return
	}
	c.status = status
	for _, l := range c.statusListeners {
		l.fn(status)
	}
}

func (c *AnimationController) notifyListeners() {
	for _, l := range c.listeners {
		l.fn()
	}
}

// Dispose stops the animation and drops every listener.
func (c *AnimationController) Dispose() {
	c.Stop()
	c.listeners = nil
	c.statusListeners = nil
}
