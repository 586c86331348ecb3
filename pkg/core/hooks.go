package core

import (
	"github.com/go-drift/statekit/pkg/combine"
	"github.com/go-drift/statekit/pkg/state"
)

// UseController creates a controller and registers it for automatic disposal.
// The controller will be disposed when the state is disposed.
//
// Example:
//
//	func (s *myState) InitState() {
//	    s.fade = core.UseController(s, func() *animation.Animated {
//	        return animation.NewAnimated(animation.Config{Duration: 300 * time.Millisecond, Repeats: 1})
//	    })
//	    core.UseSource(s, s.fade)
//	}
func UseController[C Disposable](s stateBase, create func() C) C {
	base := s.state()
	controller := create()
	base.OnDispose(func() {
		controller.Dispose()
	})
	return controller
}

// UseSource rebuilds the view on every notification from src. The
// subscription counts as an observer of src and is released on dispose, so
// an auto-disposing source outlives the view only if others observe it.
func UseSource(s stateBase, src state.Source) {
	base := s.state()
	unsub := src.Listen(func() {
		base.SetState(nil)
	})
	base.OnDispose(unsub)
}

// UseCombined observes several sources through the combinator. Read the
// outcome in Build with Observer.Build. Rebuilds follow the handlers'
// DataOnly setting.
//
// Example:
//
//	func (s *profileView) InitState() {
//	    s.view = core.UseCombined(s, []state.Source{s.user, s.prefs}, combine.Handlers[combine.All, string]{
//	        OnWaiting: func() string { return "loading" },
//	        OnData:    func(combine.All) string { return s.user.Value().Name },
//	    })
//	}
func UseCombined[R any](s stateBase, sources []state.Source, h combine.Handlers[combine.All, R]) *combine.Observer[R] {
	base := s.state()
	o := combine.Many(sources, h, func(R) { base.SetState(nil) })
	base.OnDispose(o.Dispose)
	return o
}

// UseSingle is UseCombined for one typed source; OnData receives its value.
func UseSingle[T, R any](s stateBase, src combine.Typed[T], h combine.Handlers[T, R]) *combine.Observer[R] {
	base := s.state()
	o := combine.Single(src, h, func(R) { base.SetState(nil) })
	base.OnDispose(o.Dispose)
	return o
}

// Managed holds a value and triggers rebuilds when it changes.
// It is tied to a specific StateBase and is not observable by other views;
// use a state.Injected for shared state.
//
// Managed is NOT thread-safe.
type Managed[T any] struct {
	base  *StateBase
	value T
}

// NewManaged creates a new managed state value.
// Changes to this value will automatically trigger a rebuild.
func NewManaged[T any](s stateBase, initial T) *Managed[T] {
	return &Managed[T]{
		base:  s.state(),
		value: initial,
	}
}

// Value returns the current value.
func (m *Managed[T]) Value() T {
	return m.value
}

// Set updates the value and triggers a rebuild.
func (m *Managed[T]) Set(value T) {
	m.value = value
	m.base.SetState(nil)
}

// Update applies a transformation to the current value and triggers a rebuild.
func (m *Managed[T]) Update(transform func(T) T) {
	m.value = transform(m.value)
	m.base.SetState(nil)
}
