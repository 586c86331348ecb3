package animation

import (
	"time"

	"github.com/go-drift/statekit/pkg/errors"
	"github.com/go-drift/statekit/pkg/state"
)

// Config describes an Animated.
type Config struct {
	// Duration is the length of a forward leg.
	Duration time.Duration
	// ReverseDuration is the length of a reverse leg. Zero uses Duration.
	ReverseDuration time.Duration

	// Curve shapes Curved while moving forward. Nil is linear.
	Curve func(float64) float64
	// ReverseCurve shapes Curved while reversing. Nil uses Curve.
	ReverseCurve func(float64) float64

	// Repeats is the number of legs run before the completion future
	// resolves. Zero repeats forever.
	Repeats int
	// ReverseRepeats alternates direction between legs instead of snapping
	// back to the starting bound.
	ReverseRepeats bool
	// StartReversed makes a restart begin at UpperBound and run in reverse.
	StartReversed bool

	// InitialValue is where a restart begins when StartReversed is false.
	InitialValue float64
	// LowerBound and UpperBound default to 0 and 1 when both are zero.
	LowerBound float64
	UpperBound float64

	// OnEnd runs once each time the repeat budget is exhausted.
	OnEnd func()

	// Frames drives the animation. Nil uses the default frame clock.
	Frames *Frames
}

// Params holds the live-updatable subset of Config. Nil fields are left
// unchanged.
type Params struct {
	Duration        *time.Duration
	ReverseDuration *time.Duration
	Curve           func(float64) float64
	ReverseCurve    func(float64) float64
	Repeats         *int
	ReverseRepeats  *bool
}

const unbounded = -1

// Animated is a state container whose value is animation progress.
//
// Progress moves between the bounds on an AnimationController. Each time a
// bound is reached the repeat budget is spent: when it is exhausted the
// pending Future resolves, OnEnd runs and one extra notification is
// scheduled for the next frame so rebuilds observe the resting value;
// otherwise the next leg starts, either reversing direction or snapping back
// to the starting bound.
//
// Animated is not thread-safe. Drive its Frames and call its methods from one
// goroutine.
type Animated struct {
	n      *state.Notifier[float64]
	ctrl   *AnimationController
	frames *Frames
	cfg    Config

	budget      int
	hasBudget   bool
	isAnimating bool
	pending     *Future

	// Set while progress is snapped programmatically so the bound reached
	// by the snap is not treated as the end of a leg.
	skipDismissStatus bool

	curveCache     curveCache
	curveListeners []listener[func()]
	rebuild        []listener[func()]
	nextID         int

	disposed bool
}

type curveCache struct {
	valid    bool
	progress float64
	reverse  bool
	value    float64
}

// NewAnimated creates an animation at its initial value. Nothing moves until
// Trigger is called.
func NewAnimated(cfg Config, opts ...state.Option) *Animated {
	if cfg.LowerBound == 0 && cfg.UpperBound == 0 {
		cfg.UpperBound = 1
	}
	errors.Must(cfg.LowerBound < cfg.UpperBound, "animation.NewAnimated", "LowerBound must be below UpperBound")
	errors.Must(cfg.Repeats >= 0, "animation.NewAnimated", "Repeats must not be negative")
	frames := cfg.Frames
	if frames == nil {
		frames = defaultFrames
	}

	ctrl := &AnimationController{
		Duration:        cfg.Duration,
		ReverseDuration: cfg.ReverseDuration,
		LowerBound:      cfg.LowerBound,
		UpperBound:      cfg.UpperBound,
		Frames:          frames,
	}
	a := &Animated{ctrl: ctrl, frames: frames, cfg: cfg}
	ctrl.Value = a.restartValue()
	ctrl.status = AnimationDismissed
	if ctrl.Value >= ctrl.UpperBound {
		ctrl.status = AnimationCompleted
	}

	a.n = state.NewNotifier(ctrl.Value, opts...)
	a.n.OnDispose(a.teardown)
	ctrl.AddListener(func() { a.n.SetValue(ctrl.Value) })
	ctrl.AddStatusListener(a.onStatus)
	return a
}

func (a *Animated) restartValue() float64 {
	if a.cfg.StartReversed {
		return a.cfg.UpperBound
	}
	return max(a.cfg.LowerBound, min(a.cfg.UpperBound, a.cfg.InitialValue))
}

// Trigger starts the animation and returns the future resolved when the
// repeat budget is exhausted.
//
// With restart, progress snaps to the initial value (UpperBound when
// StartReversed) and a fresh budget starts moving forward, or in reverse when
// StartReversed. Without restart, an animation at rest moves away from the
// bound it rests on, and a running animation is left alone. Calls made while
// a run is pending share its future.
func (a *Animated) Trigger(restart bool) *Future {
	if a.disposed {
		f := newFuture()
		f.Resolve()
		return f
	}
	if a.pending == nil {
		a.pending = newFuture()
	}
	f := a.pending

	switch {
	case restart:
		a.hasBudget = false
		a.snap(a.restartValue())
		a.isAnimating = true
		if a.cfg.StartReversed {
			a.ctrl.Reverse()
		} else {
			a.ctrl.Forward()
		}
	case !a.isAnimating:
		a.isAnimating = true
		if a.ctrl.IsCompleted() {
			a.ctrl.Reverse()
		} else {
			a.ctrl.Forward()
		}
	}
	return f
}

// snap moves progress without ending a leg.
func (a *Animated) snap(v float64) {
	a.skipDismissStatus = true
	defer func() { a.skipDismissStatus = false }()
	a.ctrl.SetValue(v)
}

func (a *Animated) onStatus(s AnimationStatus) {
	if a.skipDismissStatus || !a.isAnimating {
		return
	}
	if s != AnimationCompleted && s != AnimationDismissed {
		return
	}

	if !a.hasBudget {
		a.budget = a.cfg.Repeats
		if a.budget == 0 {
			a.budget = unbounded
		}
		a.hasBudget = true
	}
	if a.budget > 0 {
		a.budget--
	}

	if a.budget == 0 {
		a.finish()
		return
	}

	if a.cfg.ReverseRepeats {
		if s == AnimationCompleted {
			a.ctrl.Reverse()
		} else {
			a.ctrl.Forward()
		}
		return
	}
	if s == AnimationCompleted {
		a.snap(a.cfg.LowerBound)
		a.ctrl.Forward()
	} else {
		a.snap(a.cfg.UpperBound)
		a.ctrl.Reverse()
	}
}

func (a *Animated) finish() {
	a.isAnimating = false
	if p := a.pending; p != nil {
		a.pending = nil
		p.Resolve()
	}
	if a.cfg.OnEnd != nil {
		a.cfg.OnEnd()
	}
	a.hasBudget = false
	a.frames.AddPostFrameCallback(func() {
		if !a.disposed {
			a.n.Notify()
		}
	})
}

// ResetParameters updates the configuration live. Changing Repeats or
// ReverseRepeats discards the remaining budget so the next completed leg
// derives a new one. Changing a curve invalidates Curved and notifies curve
// listeners.
func (a *Animated) ResetParameters(p Params) {
	if p.Duration != nil {
		a.cfg.Duration = *p.Duration
		a.ctrl.Duration = *p.Duration
	}
	if p.ReverseDuration != nil {
		a.cfg.ReverseDuration = *p.ReverseDuration
		a.ctrl.ReverseDuration = *p.ReverseDuration
	}
	if p.Repeats != nil {
		errors.Must(*p.Repeats >= 0, "animation.Animated.ResetParameters", "Repeats must not be negative")
		if *p.Repeats != a.cfg.Repeats {
			a.cfg.Repeats = *p.Repeats
			a.hasBudget = false
		}
	}
	if p.ReverseRepeats != nil && *p.ReverseRepeats != a.cfg.ReverseRepeats {
		a.cfg.ReverseRepeats = *p.ReverseRepeats
		a.hasBudget = false
	}

	curveChanged := false
	if p.Curve != nil {
		a.cfg.Curve = p.Curve
		curveChanged = true
	}
	if p.ReverseCurve != nil {
		a.cfg.ReverseCurve = p.ReverseCurve
		curveChanged = true
	}
	if curveChanged {
		a.curveCache.valid = false
		for _, l := range a.curveListeners {
			l.fn()
		}
	}
}

// Refresh replays the per-rebuild listeners so implicit tweens re-derive
// their begin and end values. A resting animation restarts from its initial
// value; a running one keeps its motion. The returned future resolves at the
// next natural completion.
func (a *Animated) Refresh() *Future {
	for _, l := range a.rebuild {
		l.fn()
	}
	if !a.isAnimating {
		return a.Trigger(true)
	}
	return a.pending
}

// Progress returns the linear progress between the bounds.
func (a *Animated) Progress() float64 { return a.ctrl.Value }

// Curved returns progress shaped by the active curve: ReverseCurve while
// reversing if set, Curve otherwise. Progress is normalized to [0, 1] before
// the curve is applied.
func (a *Animated) Curved() float64 {
	reverse := a.ctrl.Status() == AnimationReverse
	c := &a.curveCache
	if c.valid && c.progress == a.ctrl.Value && c.reverse == reverse {
		return c.value
	}

	curve := a.cfg.Curve
	if reverse && a.cfg.ReverseCurve != nil {
		curve = a.cfg.ReverseCurve
	}
	t := (a.ctrl.Value - a.cfg.LowerBound) / (a.cfg.UpperBound - a.cfg.LowerBound)
	if curve != nil {
		t = curve(t)
	}
	*c = curveCache{valid: true, progress: a.ctrl.Value, reverse: reverse, value: t}
	return t
}

// ListenCurve registers fn to run when a curve is replaced.
func (a *Animated) ListenCurve(fn func()) (unsubscribe func()) {
	return addListener(&a.curveListeners, &a.nextID, fn)
}

// OnRebuild registers fn to run on every Refresh.
func (a *Animated) OnRebuild(fn func()) (unsubscribe func()) {
	return addListener(&a.rebuild, &a.nextID, fn)
}

// IsAnimating reports whether a run is in progress.
func (a *Animated) IsAnimating() bool { return a.isAnimating }

// AnimationStatus returns the controller status.
func (a *Animated) AnimationStatus() AnimationStatus { return a.ctrl.Status() }

// Controller exposes the underlying controller.
func (a *Animated) Controller() *AnimationController { return a.ctrl }

// Notifier exposes the underlying notifier.
func (a *Animated) Notifier() *state.Notifier[float64] { return a.n }

// Status implements combine.Typed.
func (a *Animated) Status() state.Status[float64] { return a.n.Status() }

// Value implements combine.Typed. It is the linear progress.
func (a *Animated) Value() float64 { return a.n.Value() }

// Kind implements state.Source.
func (a *Animated) Kind() state.Kind { return a.n.Kind() }

// Err implements state.Source.
func (a *Animated) Err() error { return a.n.Err() }

// Listen implements state.Source.
func (a *Animated) Listen(fn func()) (unsubscribe func()) { return a.n.Listen(fn) }

// Subscribe registers an observer of progress.
func (a *Animated) Subscribe(fn state.Observer[float64]) (unsubscribe func()) {
	return a.n.Subscribe(fn)
}

// Dispose stops the animation, resolves any pending future and disposes the
// notifier. It is idempotent.
func (a *Animated) Dispose() {
	a.n.Dispose()
}

func (a *Animated) teardown() {
	if a.disposed {
		return
	}
	a.disposed = true
	a.isAnimating = false
	a.ctrl.Dispose()
	if p := a.pending; p != nil {
		a.pending = nil
		p.Resolve()
	}
	a.curveListeners = nil
	a.rebuild = nil
}
