package animation

// Implicit animates a typed value toward a target derived from current build
// parameters. Each Refresh of the driving Animated re-reads the target and
// restarts the tween from whatever value is currently shown, so a target that
// changes mid-flight is approached smoothly.
type Implicit[T any] struct {
	anim   *Animated
	tween  *Tween[T]
	target func() T
	unsub  func()
}

// NewImplicit binds a tween to a. It starts at initial and heads for target()
// on the first Refresh. The interpolation comes from LerpFor, so an
// unsupported T panics here rather than animating incorrectly.
func NewImplicit[T any](a *Animated, initial T, target func() T) *Implicit[T] {
	im := &Implicit[T]{
		anim:   a,
		tween:  &Tween[T]{Begin: initial, End: initial, Lerp: LerpFor[T]()},
		target: target,
	}
	im.unsub = a.OnRebuild(im.retarget)
	return im
}

// NewImplicitWith is NewImplicit with a caller-supplied interpolation.
func NewImplicitWith[T any](a *Animated, initial T, target func() T, lerp func(a, b T, t float64) T) *Implicit[T] {
	im := &Implicit[T]{
		anim:   a,
		tween:  &Tween[T]{Begin: initial, End: initial, Lerp: lerp},
		target: target,
	}
	im.unsub = a.OnRebuild(im.retarget)
	return im
}

func (im *Implicit[T]) retarget() {
	im.tween.Begin = im.Value()
	im.tween.End = im.target()
}

// Value returns the interpolated value at the current curved progress.
func (im *Implicit[T]) Value() T {
	return im.tween.Evaluate(im.anim.Curved())
}

// Target returns the value being approached.
func (im *Implicit[T]) Target() T { return im.tween.End }

// Close detaches the tween from its animation.
func (im *Implicit[T]) Close() {
	if im.unsub != nil {
		im.unsub()
		im.unsub = nil
	}
}
