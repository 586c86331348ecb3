package state

import "slices"

// Observer receives the new status and the exposed value of a Notifier.
type Observer[T any] func(status Status[T], value T)

type observerEntry[T any] struct {
	fn Observer[T]
}

// Notifier owns one current Status and the ordered list of observers
// interested in it.
//
// Observers are invoked synchronously, in registration order, by SetStatus.
// Each pass iterates a snapshot of the list: an observer removed during a pass
// still receives that pass, and an observer added during a pass first hears
// from the next one. A status set by an observer during a pass is delivered in
// a following pass, so every observer sees transitions in order.
//
// Notifier is NOT thread-safe. It must only be used on its Scheduler's
// goroutine; background work reaches it through Scheduler.Post.
type Notifier[T any] struct {
	name   string
	status Status[T]
	value  T

	observers []*observerEntry[T]
	notifying bool
	again     bool

	autoDispose   *Scheduler
	disposeQueued bool
	disposed      bool
	disposers     []func()
	hooks         Hooks
}

// NewNotifier creates a notifier whose status is Idle and whose exposed
// value is initial.
func NewNotifier[T any](initial T, opts ...Option) *Notifier[T] {
	cfg := newConfig(opts)
	n := &Notifier[T]{
		name:        cfg.name,
		status:      Idle[T](),
		value:       initial,
		autoDispose: cfg.autoDispose,
		hooks:       cfg.hooks,
	}
	n.hooks.Created(n.name)
	return n
}

// Name returns the diagnostic name given with WithName.
func (n *Notifier[T]) Name() string { return n.name }

// Status returns the current status.
func (n *Notifier[T]) Status() Status[T] { return n.status }

// Kind returns the tag of the current status.
func (n *Notifier[T]) Kind() Kind { return n.status.Kind() }

// Err returns the cause of the current status if it is an Error.
func (n *Notifier[T]) Err() error { return n.status.Err() }

// Value returns the exposed value: the payload of the most recent Data
// status, or the initial value if there has been none.
func (n *Notifier[T]) Value() T { return n.value }

// ObserverCount returns the number of registered observers.
func (n *Notifier[T]) ObserverCount() int { return len(n.observers) }

// IsDisposed reports whether Dispose has run.
func (n *Notifier[T]) IsDisposed() bool { return n.disposed }

// Subscribe registers fn and returns a function that removes it. Registering
// the same function twice yields two independent entries. The returned
// function is idempotent. Subscribing to a disposed notifier is a no-op.
func (n *Notifier[T]) Subscribe(fn Observer[T]) (unsubscribe func()) {
	if n.disposed || fn == nil {
		return func() {}
	}
	entry := &observerEntry[T]{fn: fn}
	n.observers = append(n.observers, entry)

	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		n.remove(entry)
	}
}

// Listen registers a status-agnostic callback. It satisfies Source.
func (n *Notifier[T]) Listen(fn func()) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	return n.Subscribe(func(Status[T], T) { fn() })
}

func (n *Notifier[T]) remove(entry *observerEntry[T]) {
	idx := slices.Index(n.observers, entry)
	if idx < 0 {
		return
	}
	// Copy so that an in-flight pass keeps iterating its own snapshot.
	next := make([]*observerEntry[T], 0, len(n.observers)-1)
	next = append(next, n.observers[:idx]...)
	next = append(next, n.observers[idx+1:]...)
	n.observers = next

	if len(n.observers) == 0 {
		n.scheduleAutoDispose()
	}
}

func (n *Notifier[T]) scheduleAutoDispose() {
	if n.autoDispose == nil || n.disposeQueued || n.disposed {
		return
	}
	n.disposeQueued = true
	n.autoDispose.Post(func() {
		n.disposeQueued = false
		if !n.disposed && len(n.observers) == 0 {
			n.Dispose()
		}
	})
}

// SetStatus replaces the current status and notifies every observer.
// It is a no-op once the notifier is disposed.
func (n *Notifier[T]) SetStatus(status Status[T]) {
	if n.disposed {
		return
	}
	n.status = status
	if v, ok := status.Data(); ok {
		n.value = v
	}
	n.Notify()
}

// SetValue is shorthand for SetStatus(Data(value)).
func (n *Notifier[T]) SetValue(value T) {
	n.SetStatus(Data(value))
}

// Notify re-delivers the current status to every observer.
func (n *Notifier[T]) Notify() {
	if n.disposed {
		return
	}
	if n.notifying {
		n.again = true
		return
	}
	n.notifying = true
	defer func() { n.notifying = false }()

	for {
		n.again = false
		snapshot := n.observers
		status, value := n.status, n.value
		for _, entry := range snapshot {
			if n.disposed {
				return
			}
			entry.fn(status, value)
		}
		n.hooks.Notified(n.name, status.Kind(), len(snapshot))
		if !n.again || n.disposed {
			return
		}
	}
}

// OnDispose registers cleanup to run when the notifier is disposed, in
// reverse registration order. If the notifier is already disposed, cleanup
// runs immediately. The returned function unregisters cleanup.
func (n *Notifier[T]) OnDispose(cleanup func()) (unregister func()) {
	if cleanup == nil {
		return func() {}
	}
	if n.disposed {
		cleanup()
		return func() {}
	}
	index := len(n.disposers)
	n.disposers = append(n.disposers, cleanup)
	return func() {
		if index < len(n.disposers) {
			n.disposers[index] = nil
		}
	}
}

// Dispose clears the observer list and releases owned resources.
// Calling Dispose more than once is a no-op.
func (n *Notifier[T]) Dispose() {
	if n.disposed {
		return
	}
	n.disposed = true
	n.observers = nil

	for i := len(n.disposers) - 1; i >= 0; i-- {
		if n.disposers[i] != nil {
			n.disposers[i]()
		}
	}
	n.disposers = nil
	n.hooks.Disposed(n.name)
}
