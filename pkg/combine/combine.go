// Package combine reduces the statuses of several containers into one derived
// status and dispatches it to at most one of four callbacks.
//
// Precedence, in source order:
//
//  1. the first Waiting source wins;
//  2. otherwise the LAST Error source wins, so the most recent failure is shown;
//  3. otherwise the first Idle source wins;
//  4. otherwise every source holds Data and the result is Data carrying the
//     [All] sentinel. Callbacks that need values read each source directly.
package combine

import "github.com/go-drift/statekit/pkg/state"

// All is the sentinel value carried by the derived Data status of a
// multi-source combination.
type All struct{}

// Derived is the result of Reduce: the winning status and the index of the
// source it came from (-1 for the synthetic all-Data status).
type Derived struct {
	Status state.Status[All]
	Source int
}

// Reduce computes the derived status of sources. It panics if sources is
// empty.
func Reduce(sources []state.Source) Derived {
	if len(sources) == 0 {
		panic("combine.Reduce: no sources")
	}

	errIndex, idleIndex := -1, -1
	for i, src := range sources {
		switch src.Kind() {
		case state.KindWaiting:
			return Derived{Status: state.Waiting[All](), Source: i}
		case state.KindError:
			errIndex = i
		case state.KindIdle:
			if idleIndex < 0 {
				idleIndex = i
			}
		}
	}

	switch {
	case errIndex >= 0:
		return Derived{Status: state.Failed[All](sources[errIndex].Err()), Source: errIndex}
	case idleIndex >= 0:
		return Derived{Status: state.Idle[All](), Source: idleIndex}
	default:
		return Derived{Status: state.Data(All{}), Source: -1}
	}
}

// Handlers maps a status to a result. Every field is optional.
type Handlers[T, R any] struct {
	OnIdle    func() R
	OnWaiting func() R
	// OnError receives the cause and a function that refreshes every source
	// currently in error.
	OnError func(err error, refresh func()) R
	OnData  func(value T) R

	// DataOnly suppresses the render side effect of a notification unless
	// the notifying source holds Data. Build still evaluates normally.
	DataOnly bool
}

// Dispatch invokes exactly one handler for status and returns its result.
//
//	Waiting -> OnWaiting, else OnData
//	Error   -> OnError, else OnData
//	Idle    -> OnIdle, else OnData, else OnWaiting, else OnError
//	Data    -> OnData
//
// value is passed to OnData whenever it is chosen. If no handler applies the
// zero R is returned.
func Dispatch[T, R any](status state.Status[T], value T, refresh func(), h Handlers[T, R]) R {
	if refresh == nil {
		refresh = func() {}
	}
	switch status.Kind() {
	case state.KindWaiting:
		if h.OnWaiting != nil {
			return h.OnWaiting()
		}
	case state.KindError:
		if h.OnError != nil {
			return h.OnError(status.Err(), refresh)
		}
	case state.KindIdle:
		switch {
		case h.OnIdle != nil:
			return h.OnIdle()
		case h.OnData != nil:
			return h.OnData(value)
		case h.OnWaiting != nil:
			return h.OnWaiting()
		case h.OnError != nil:
			return h.OnError(status.Err(), refresh)
		}
	}
	if h.OnData != nil {
		return h.OnData(value)
	}
	var zero R
	return zero
}

// refreshErrored returns a function that refreshes every source in error
// that can be refreshed.
func refreshErrored(sources []state.Source) func() {
	return func() {
		for _, src := range sources {
			if src.Kind() != state.KindError {
				continue
			}
			if r, ok := src.(state.Refresher); ok {
				r.Refresh()
			}
		}
	}
}
