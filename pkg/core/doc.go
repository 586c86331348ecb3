// Package core hosts view states and rebuilds them when the state
// containers they observe change.
//
// A View wraps a State. Sources bound through the hooks mark the view dirty
// on notification; a BuildOwner collects dirty views and FlushBuild rebuilds
// them in depth order, so a parent rebuilds before its children and a view
// dirtied twice in one turn builds once.
//
// # Stateful Views
//
// Embed StateBase in your state struct and implement Build:
//
//	type counterView struct {
//	    core.StateBase
//	    count *state.Injected[int]
//	}
//
//	func (s *counterView) InitState() {
//	    core.UseSource(s, s.count)
//	}
//
//	func (s *counterView) Build() {
//	    fmt.Println("count:", s.count.Value())
//	}
//
//	view := core.Mount(owner, nil, &counterView{count: count})
//
// # Hooks
//
// UseController, UseSource, UseCombined and UseSingle manage resources and
// subscriptions with automatic cleanup when the view is unmounted.
package core
