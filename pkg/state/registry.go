package state

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/go-drift/statekit/pkg/errors"
)

// Registry owns the containers of one application: their scheduler, their
// hooks and their names. It is created by the application entry point and
// passed explicitly to every Inject call.
type Registry struct {
	sched *Scheduler
	hooks Hooks
	ctx   context.Context

	mu      sync.Mutex
	entries map[string]entry
	order   []string
}

// entry is the type-erased view of an Injected the registry manages.
type entry interface {
	dispose()
	persisted() bool
	// prefetch reads the persisted token; it runs off the scheduler goroutine.
	prefetch(ctx context.Context) (token string, ok bool, err error)
	// seed activates the container with a prefetched token.
	seed(token string, ok bool)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithScheduler uses sched instead of a fresh scheduler.
func WithScheduler(sched *Scheduler) RegistryOption {
	return func(r *Registry) {
		r.sched = sched
	}
}

// WithRegistryHooks installs hooks on every container of the registry.
func WithRegistryHooks(h Hooks) RegistryOption {
	return func(r *Registry) {
		r.hooks = h
	}
}

// WithContext sets the context passed to store calls made on the scheduler
// goroutine and to creators. Cancelling it cancels every in-flight creator.
func WithContext(ctx context.Context) RegistryOption {
	return func(r *Registry) {
		r.ctx = ctx
	}
}

// NewRegistry creates a registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		hooks:   NopHooks{},
		ctx:     context.Background(),
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.sched == nil {
		r.sched = NewScheduler()
	}
	if r.hooks == nil {
		r.hooks = NopHooks{}
	}
	return r
}

// Scheduler returns the registry's execution context.
func (r *Registry) Scheduler() *Scheduler { return r.sched }

// Context returns the registry's context.
func (r *Registry) Context() context.Context { return r.ctx }

func (r *Registry) register(name string, e entry) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" {
		name = "injected-" + uuid.NewString()
	}
	if _, exists := r.entries[name]; exists {
		panic(&errors.ConfigError{Op: "state.Inject", Msg: fmt.Sprintf("name %q already registered", name)})
	}
	r.entries[name] = e
	r.order = append(r.order, name)
	return name
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

// HydrateAll reads the persisted token of every persisted container in
// parallel, then activates the containers on the calling goroutine, which
// must be the scheduler goroutine. Containers whose read failed stay inactive
// and hydrate lazily on first use; the first read error is returned.
func (r *Registry) HydrateAll(ctx context.Context) error {
	r.mu.Lock()
	var targets []entry
	for _, name := range r.order {
		if e := r.entries[name]; e.persisted() {
			targets = append(targets, e)
		}
	}
	r.mu.Unlock()

	type result struct {
		token string
		ok    bool
		done  bool
	}
	results := make([]result, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	for i, e := range targets {
		g.Go(func() error {
			token, ok, err := e.prefetch(gctx)
			if err != nil {
				return err
			}
			results[i] = result{token: token, ok: ok, done: true}
			return nil
		})
	}
	err := g.Wait()

	for i, e := range targets {
		if results[i].done {
			e.seed(results[i].token, results[i].ok)
		}
	}
	return err
}

// DisposeAll disposes every active container in reverse registration order.
func (r *Registry) DisposeAll() {
	r.mu.Lock()
	entries := make([]entry, 0, len(r.order))
	for _, name := range slices.Backward(r.order) {
		entries = append(entries, r.entries[name])
	}
	r.mu.Unlock()

	for _, e := range entries {
		e.dispose()
	}
}
