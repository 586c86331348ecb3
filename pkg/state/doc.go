// Package state provides the reactive notification core of statekit.
//
// # Status
//
// Every container exposes a [Status]: Idle, Waiting, Error or Data. Only Data
// carries a value and only Error carries a cause.
//
// # Notifier
//
// [Notifier] owns one status and an ordered observer list:
//
//	n := state.NewNotifier(0)
//	unsubscribe := n.Subscribe(func(s state.Status[int], v int) {
//	    fmt.Println(s, v)
//	})
//	n.SetValue(1) // prints "data(1) 1"
//	unsubscribe()
//
// # Injected containers
//
// [Injected] wraps a Notifier with a creator, lazy creation, auto-dispose and
// optional persistence. Containers belong to a [Registry], which owns the
// [Scheduler] that every asynchronous settlement is marshalled onto:
//
//	reg := state.NewRegistry()
//	user := state.InjectFuture(reg, User{}, fetchUser, state.AutoDispose())
//	user.Subscribe(render)   // Waiting until fetchUser settles
//	reg.Scheduler().Flush()  // delivers the settlement on this goroutine
//
// Containers are single-threaded: use them only on the goroutine that
// flushes the scheduler.
package state
