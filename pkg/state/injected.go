package state

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/go-drift/statekit/pkg/errors"
	"github.com/go-drift/statekit/pkg/persist"
)

// FutureFunc produces a value asynchronously. It runs on its own goroutine
// and must honour ctx, which is cancelled when the container is disposed or
// its creator is superseded.
type FutureFunc[T any] func(ctx context.Context) (T, error)

// StreamFunc produces a sequence of values. Each emit is delivered as a Data
// status; a non-nil return becomes an Error status. It runs on its own
// goroutine and must return when ctx is cancelled.
type StreamFunc[T any] func(ctx context.Context, emit func(T)) error

// MutateFunc derives a new value from the current one asynchronously.
type MutateFunc[T any] func(ctx context.Context, current T) (T, error)

// Persistence binds a container to a durable store key.
type Persistence[T any] struct {
	Store persist.Store
	Key   string
	Codec persist.Codec[T]
}

type creatorKind int

const (
	creatorValue creatorKind = iota
	creatorFuture
	creatorStream
)

// Injected is a lazily created, optionally persisted state container.
//
// Its Notifier is created on first use (any read, subscription or mutation)
// and, with AutoDispose, torn down on the next scheduler turn after its last
// observer leaves; the following use creates it again from the creator.
// Asynchronous creators are shown as Waiting until they settle; settlements
// are posted to the registry's scheduler and dropped if the container was
// disposed or the creator superseded in the meantime.
//
// Injected is NOT thread-safe. Use it from the scheduler goroutine.
type Injected[T any] struct {
	reg     *Registry
	name    string
	initial T
	opts    []Option

	kind   creatorKind
	future FutureFunc[T]
	stream StreamFunc[T]

	persistence *Persistence[T]
	seeded      *seededToken

	n      *Notifier[T]
	gen    uint64
	cancel context.CancelFunc
	onInit []func(*Notifier[T])
}

type seededToken struct {
	token string
	ok    bool
}

// Inject registers a container whose creator is a plain value.
func Inject[T any](reg *Registry, initial T, opts ...Option) *Injected[T] {
	return newInjected(reg, initial, creatorValue, opts)
}

// InjectFuture registers a container whose value comes from fn. The exposed
// value is initial until fn settles.
func InjectFuture[T any](reg *Registry, initial T, fn FutureFunc[T], opts ...Option) *Injected[T] {
	i := newInjected(reg, initial, creatorFuture, opts)
	i.future = fn
	return i
}

// InjectStream registers a container fed by fn.
func InjectStream[T any](reg *Registry, initial T, fn StreamFunc[T], opts ...Option) *Injected[T] {
	i := newInjected(reg, initial, creatorStream, opts)
	i.stream = fn
	return i
}

func newInjected[T any](reg *Registry, initial T, kind creatorKind, opts []Option) *Injected[T] {
	cfg := newConfig(opts)
	i := &Injected[T]{
		reg:     reg,
		initial: initial,
		kind:    kind,
	}
	i.name = reg.register(cfg.name, i)

	i.opts = append([]Option{WithHooks(reg.hooks)}, opts...)
	i.opts = append(i.opts, WithName(i.name))
	if cfg.autoDispose != nil || cfg.autoDisposeDefault {
		i.opts = append(i.opts, WithAutoDispose(reg.sched))
	}
	return i
}

// Persist binds the container to a store key. It must be called before the
// container is first used.
func (i *Injected[T]) Persist(p Persistence[T]) *Injected[T] {
	errors.Must(i.n == nil, "state.Injected.Persist", "container "+i.name+" is already active")
	errors.Must(p.Store != nil && p.Codec != nil && p.Key != "", "state.Injected.Persist", "store, key and codec are required")
	i.persistence = &p
	return i
}

// OnInit registers fn to run each time the notifier is (re)created, after
// hydration and before the creator starts.
func (i *Injected[T]) OnInit(fn func(n *Notifier[T])) *Injected[T] {
	i.onInit = append(i.onInit, fn)
	if i.active() {
		fn(i.n)
	}
	return i
}

// Name returns the registry name.
func (i *Injected[T]) Name() string { return i.name }

func (i *Injected[T]) active() bool {
	return i.n != nil && !i.n.IsDisposed()
}

// IsActive reports whether the notifier currently exists.
func (i *Injected[T]) IsActive() bool { return i.active() }

// Notifier returns the underlying notifier, creating it if needed.
func (i *Injected[T]) Notifier() *Notifier[T] { return i.ensure() }

func (i *Injected[T]) ensure() *Notifier[T] {
	if i.active() {
		return i.n
	}
	n := NewNotifier(i.initial, i.opts...)
	i.n = n
	n.OnDispose(func() { i.release(n) })

	hydrated := i.hydrate(n)
	for _, fn := range i.onInit {
		fn(n)
	}
	if !hydrated {
		i.start(n)
	}
	return n
}

// hydrate restores the persisted value. It reports whether the creator
// should be skipped.
func (i *Injected[T]) hydrate(n *Notifier[T]) bool {
	p := i.persistence
	if p == nil {
		return false
	}

	var token string
	var ok bool
	if i.seeded != nil {
		token, ok = i.seeded.token, i.seeded.ok
		i.seeded = nil
	} else {
		var err error
		token, ok, err = p.Store.Get(i.reg.ctx, p.Key)
		if err != nil {
			errors.Report(&errors.StateError{Op: "state.Injected.hydrate", Kind: errors.KindStore, Key: p.Key, Err: err})
			return false
		}
	}

	if !ok {
		// Write the default immediately so the store always reflects at
		// least the default token after first use.
		if i.kind == creatorValue {
			i.write(i.initial)
		}
		return false
	}

	value, err := p.Codec.Decode(token)
	if err != nil {
		errors.Report(&errors.StateError{Op: "state.Injected.hydrate", Kind: errors.KindCodec, Key: p.Key, Err: err})
		i.write(i.initial)
		return false
	}
	n.status = Data(value)
	n.value = value
	return true
}

func (i *Injected[T]) write(value T) {
	p := i.persistence
	if p == nil {
		return
	}
	if err := p.Store.Set(i.reg.ctx, p.Key, p.Codec.Encode(value)); err != nil {
		errors.Report(&errors.StateError{Op: "state.Injected.write", Kind: errors.KindStore, Key: p.Key, Err: err})
	}
}

// commit applies status, writing Data values to the store before observers
// are notified.
func (i *Injected[T]) commit(n *Notifier[T], status Status[T]) {
	if n.IsDisposed() {
		return
	}
	if v, ok := status.Data(); ok {
		i.write(v)
	}
	n.SetStatus(status)
}

func (i *Injected[T]) start(n *Notifier[T]) {
	switch i.kind {
	case creatorFuture:
		i.runFuture(n, func(ctx context.Context) (T, error) { return i.future(ctx) })
	case creatorStream:
		i.runStream(n)
	}
}

// supersede cancels any in-flight creator and returns the context and
// generation for a new one.
func (i *Injected[T]) supersede() (context.Context, uint64) {
	if i.cancel != nil {
		i.cancel()
	}
	i.gen++
	ctx, cancel := context.WithCancel(i.reg.ctx)
	i.cancel = cancel
	return ctx, i.gen
}

// settle posts fn to the scheduler, dropping it if gen is stale or n has been
// disposed by the time it runs.
func (i *Injected[T]) settle(n *Notifier[T], gen uint64, fn func()) {
	i.reg.sched.Post(func() {
		if gen != i.gen || n.IsDisposed() {
			return
		}
		fn()
	})
}

func (i *Injected[T]) runFuture(n *Notifier[T], fn FutureFunc[T]) {
	ctx, gen := i.supersede()
	n.SetStatus(Waiting[T]())

	go func() {
		value, err := callCreator(i.name, func() (T, error) { return fn(ctx) })
		i.settle(n, gen, func() {
			if err != nil {
				n.SetStatus(Failed[T](err))
				return
			}
			i.commit(n, Data(value))
		})
	}()
}

func (i *Injected[T]) runStream(n *Notifier[T]) {
	ctx, gen := i.supersede()
	n.SetStatus(Waiting[T]())

	go func() {
		emit := func(v T) {
			i.settle(n, gen, func() { i.commit(n, Data(v)) })
		}
		_, err := callCreator(i.name, func() (struct{}, error) {
			return struct{}{}, i.stream(ctx, emit)
		})
		if err == nil || stderrors.Is(err, context.Canceled) {
			return
		}
		i.settle(n, gen, func() { n.SetStatus(Failed[T](err)) })
	}()
}

// callCreator runs fn, converting a panic into a reported PanicError.
func callCreator[R any](name string, fn func() (R, error)) (result R, err error) {
	defer errors.RecoverWithCallback("state.Injected.create", func(p *errors.PanicError) {
		err = fmt.Errorf("creator %s: %w", name, p)
	})
	return fn()
}

func (i *Injected[T]) release(n *Notifier[T]) {
	if i.n != n {
		return
	}
	if i.cancel != nil {
		i.cancel()
		i.cancel = nil
	}
	i.gen++
}

// Status returns the current status, creating the container if needed.
func (i *Injected[T]) Status() Status[T] { return i.ensure().Status() }

// Value returns the exposed value, creating the container if needed.
func (i *Injected[T]) Value() T { return i.ensure().Value() }

// Kind implements Source.
func (i *Injected[T]) Kind() Kind { return i.ensure().Kind() }

// Err implements Source.
func (i *Injected[T]) Err() error { return i.ensure().Err() }

// Subscribe registers an observer, creating the container if needed.
func (i *Injected[T]) Subscribe(fn Observer[T]) (unsubscribe func()) {
	return i.ensure().Subscribe(fn)
}

// Listen implements Source.
func (i *Injected[T]) Listen(fn func()) (unsubscribe func()) {
	return i.ensure().Listen(fn)
}

// Set replaces the value. The persisted token is written before observers
// are notified. Any in-flight creator or mutation is superseded.
func (i *Injected[T]) Set(value T) {
	n := i.ensure()
	i.supersedeIfRunning()
	i.commit(n, Data(value))
}

// Update applies transform to the current value and sets the result.
func (i *Injected[T]) Update(transform func(T) T) {
	i.Set(transform(i.Value()))
}

// SetAsync shows Waiting while fn runs, then Data or Error with its result.
func (i *Injected[T]) SetAsync(fn MutateFunc[T]) {
	n := i.ensure()
	current := n.Value()
	i.runFuture(n, func(ctx context.Context) (T, error) { return fn(ctx, current) })
}

// SetToWaiting sets a Waiting status.
func (i *Injected[T]) SetToWaiting() {
	i.ensure().SetStatus(Waiting[T]())
}

// SetToError sets an Error status carrying err.
func (i *Injected[T]) SetToError(err error) {
	n := i.ensure()
	i.supersedeIfRunning()
	n.SetStatus(Failed[T](err))
}

func (i *Injected[T]) supersedeIfRunning() {
	if i.cancel != nil {
		i.cancel()
		i.cancel = nil
		i.gen++
	}
}

// Refresh re-runs the creator. A value container returns to its initial
// value with an Idle status; future and stream containers restart.
func (i *Injected[T]) Refresh() {
	n := i.ensure()
	switch i.kind {
	case creatorValue:
		i.supersedeIfRunning()
		n.value = i.initial
		i.write(i.initial)
		n.SetStatus(Idle[T]())
	default:
		i.start(n)
	}
}

// Dispose tears the container down. The next use creates it again.
func (i *Injected[T]) Dispose() {
	if i.n != nil {
		i.n.Dispose()
	}
}

func (i *Injected[T]) dispose() { i.Dispose() }

func (i *Injected[T]) persisted() bool { return i.persistence != nil }

func (i *Injected[T]) prefetch(ctx context.Context) (string, bool, error) {
	return i.persistence.Store.Get(ctx, i.persistence.Key)
}

func (i *Injected[T]) seed(token string, ok bool) {
	if i.active() {
		return
	}
	i.seeded = &seededToken{token: token, ok: ok}
	i.ensure()
}
