package core

import "sync"

// stateBase is satisfied by any struct that embeds StateBase, so hooks can
// take the embedding state directly.
type stateBase interface {
	state() *StateBase
}

func (s *StateBase) state() *StateBase { return s }

// StateBase carries the bookkeeping every view state needs: its view, the
// cleanups registered by hooks, and the disposed flag. Embed it and override
// InitState, Build and, when needed, Dispose.
//
//	type counterView struct {
//	    core.StateBase
//	    count *state.Injected[int]
//	}
//
//	func (s *counterView) InitState() { core.UseSource(s, s.count) }
//	func (s *counterView) Build()     { fmt.Println(s.count.Value()) }
type StateBase struct {
	view *View

	mu       sync.Mutex
	cleanups []cleanup
	nextID   int
	disposed bool
}

type cleanup struct {
	id int
	fn func()
}

func (s *StateBase) setView(v *View) { s.view = v }

// View returns the view hosting this state, or nil before mount.
func (s *StateBase) View() *View { return s.view }

// SetState runs fn and queues a rebuild. It does nothing after disposal.
// Call it on the scheduler goroutine.
func (s *StateBase) SetState(fn func()) {
	if s.IsDisposed() {
		return
	}
	if fn != nil {
		fn()
	}
	if s.view != nil {
		s.view.MarkNeedsBuild()
	}
}

// OnDispose registers fn to run once when the state is disposed and returns
// a function that unregisters it. On an already disposed state fn runs
// immediately.
func (s *StateBase) OnDispose(fn func()) (unregister func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		fn()
		return func() {}
	}
	id := s.nextID
	s.nextID++
	s.cleanups = append(s.cleanups, cleanup{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, c := range s.cleanups {
			if c.id == id {
				s.cleanups = append(s.cleanups[:i:i], s.cleanups[i+1:]...)
				return
			}
		}
	}
}

// RunDisposers runs the registered cleanups, newest first, outside the lock.
// Later calls do nothing.
func (s *StateBase) RunDisposers() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	cleanups := s.cleanups
	s.cleanups = nil
	s.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i].fn()
	}
}

// Dispose runs the registered cleanups. States overriding Dispose must call
// s.StateBase.Dispose().
func (s *StateBase) Dispose() { s.RunDisposers() }

// InitState does nothing by default.
func (s *StateBase) InitState() {}

// IsDisposed reports whether the state has been disposed.
func (s *StateBase) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}
