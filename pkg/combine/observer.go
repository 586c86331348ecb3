package combine

import "github.com/go-drift/statekit/pkg/state"

// Typed is a source whose status and exposed value can be read with their
// concrete type. Both *state.Notifier[T] and *state.Injected[T] satisfy it.
type Typed[T any] interface {
	state.Source
	Status() state.Status[T]
	Value() T
}

// Observer is a view-side subscription to one or more sources.
//
// Build evaluates the handlers against the current derived status. Every
// notification from any source calls Render with a fresh Build result,
// unless the handlers are DataOnly and the notifying source is not in Data.
// Dispose unsubscribes from every source; a source shared with other
// observers stays alive until its own observer count reaches zero.
type Observer[R any] struct {
	sources  []state.Source
	eval     func() R
	dataOnly bool

	// Render is the view-layer hook invoked on accepted notifications.
	Render func(R)

	unsubs   []func()
	disposed bool
}

// Many observes several sources. OnData receives the All sentinel; read
// each source for its value.
func Many[R any](sources []state.Source, h Handlers[All, R], render func(R)) *Observer[R] {
	if len(sources) == 0 {
		panic("combine.Many: no sources")
	}
	refresh := refreshErrored(sources)
	o := &Observer[R]{
		sources:  sources,
		dataOnly: h.DataOnly,
		Render:   render,
		eval: func() R {
			d := Reduce(sources)
			return Dispatch(d.Status, All{}, refresh, h)
		},
	}
	o.subscribe()
	return o
}

// Single observes one source; OnData receives the source's own value.
func Single[T, R any](src Typed[T], h Handlers[T, R], render func(R)) *Observer[R] {
	sources := []state.Source{src}
	refresh := refreshErrored(sources)
	o := &Observer[R]{
		sources:  sources,
		dataOnly: h.DataOnly,
		Render:   render,
		eval: func() R {
			return Dispatch(src.Status(), src.Value(), refresh, h)
		},
	}
	o.subscribe()
	return o
}

func (o *Observer[R]) subscribe() {
	o.unsubs = make([]func(), 0, len(o.sources))
	for _, src := range o.sources {
		o.unsubs = append(o.unsubs, src.Listen(func() { o.onNotify(src) }))
	}
}

func (o *Observer[R]) onNotify(src state.Source) {
	if o.disposed {
		return
	}
	if o.dataOnly && src.Kind() != state.KindData {
		return
	}
	if o.Render != nil {
		o.Render(o.eval())
	}
}

// Build evaluates the handlers against the current statuses.
func (o *Observer[R]) Build() R {
	return o.eval()
}

// Derived returns the current derived status.
func (o *Observer[R]) Derived() Derived {
	return Reduce(o.sources)
}

// Dispose unsubscribes from every source. It is idempotent.
func (o *Observer[R]) Dispose() {
	if o.disposed {
		return
	}
	o.disposed = true
	for _, unsub := range o.unsubs {
		unsub()
	}
	o.unsubs = nil
}
