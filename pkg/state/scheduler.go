package state

import (
	"context"
	"sync"

	"github.com/go-drift/statekit/pkg/errors"
)

// Scheduler is the single logical execution context every container mutates
// and notifies on.
//
// Post is safe to call from any goroutine; queued tasks only ever run on the
// goroutine that calls Flush (or Run). Asynchronous creators post their
// settlements here, and auto-dispose checks are deferred here so that a
// transient zero-observer window inside one turn does not destroy state.
type Scheduler struct {
	mu       sync.Mutex
	queue    []func()
	flushing bool
	wake     chan struct{}

	// OnNeedsTurn is called when a task is queued on an empty scheduler,
	// signalling the host loop that Flush should run soon. It may be called
	// from any goroutine.
	OnNeedsTurn func()
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{wake: make(chan struct{}, 1)}
}

// Post queues fn to run on the next turn.
func (s *Scheduler) Post(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	first := len(s.queue) == 0
	s.queue = append(s.queue, fn)
	s.mu.Unlock()

	if !first {
		return
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
	if s.OnNeedsTurn != nil {
		s.OnNeedsTurn()
	}
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Flush runs queued tasks on the calling goroutine until the queue is empty,
// including tasks posted by the tasks themselves. It returns the number of
// tasks run. A nested Flush from inside a task returns 0 immediately.
func (s *Scheduler) Flush() int {
	s.mu.Lock()
	if s.flushing {
		s.mu.Unlock()
		return 0
	}
	s.flushing = true
	s.mu.Unlock()

	ran := 0
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.flushing = false
			s.mu.Unlock()
			return ran
		}
		tasks := s.queue
		s.queue = nil
		s.mu.Unlock()

		for _, task := range tasks {
			runTask(task)
			ran++
		}
	}
}

func runTask(task func()) {
	defer errors.Recover("state.Scheduler.Flush")
	task()
}

// Run flushes the queue whenever work is posted until ctx is done.
// Run must be the only caller of Flush while it is active.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		s.Flush()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}
	}
}
