package animation

import (
	"context"
	"sync"
)

// Future is a completion handle resolved once, when an animation's whole
// repeat budget is exhausted or the animation is disposed. Resolving an
// already-resolved Future is a no-op.
type Future struct {
	once sync.Once
	done chan struct{}
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolve marks the future as complete.
func (f *Future) Resolve() {
	f.once.Do(func() { close(f.done) })
}

// Done returns a channel closed on resolution.
func (f *Future) Done() <-chan struct{} { return f.done }

// IsResolved reports whether Resolve has been called.
func (f *Future) IsResolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the future resolves or ctx is done.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
