package core

import (
	"github.com/go-drift/statekit/pkg/errors"
)

// Element is a node the BuildOwner can rebuild.
type Element interface {
	Depth() int
	RebuildIfNeeded()
}

// State is the per-view logic hosted by a View. Embed StateBase to get
// default implementations of everything except Build.
type State interface {
	stateBase
	InitState()
	// Build renders the current state. It runs once on mount and again on
	// every flush after MarkNeedsBuild.
	Build()
	Dispose()
}

// Disposable is anything with a Dispose method, such as a controller.
type Disposable interface {
	Dispose()
}

// View hosts a State and rebuilds it when its sources notify.
type View struct {
	owner   *BuildOwner
	parent  *View
	depth   int
	state   State
	dirty   bool
	mounted bool
	builds  int
}

// Mount attaches st under parent (nil for a root), runs InitState and the
// first Build.
func Mount(owner *BuildOwner, parent *View, st State) *View {
	v := &View{owner: owner, parent: parent, state: st}
	if parent != nil {
		v.depth = parent.depth + 1
	}
	v.mounted = true
	st.state().setView(v)
	st.InitState()
	v.dirty = true
	v.RebuildIfNeeded()
	return v
}

// Depth implements Element.
func (v *View) Depth() int { return v.depth }

// State returns the hosted state.
func (v *View) State() State { return v.state }

// BuildCount returns how many times Build has run.
func (v *View) BuildCount() int { return v.builds }

func (v *View) isMounted() bool { return v.mounted }

// MarkNeedsBuild schedules a rebuild on the next flush.
func (v *View) MarkNeedsBuild() {
	if v.dirty || !v.mounted {
		return
	}
	v.dirty = true
	if v.owner != nil {
		v.owner.ScheduleBuild(v)
	}
}

// RebuildIfNeeded implements Element. A panicking Build is reported and the
// view stays mounted.
func (v *View) RebuildIfNeeded() {
	if !v.dirty || !v.mounted {
		return
	}
	v.dirty = false
	v.builds++
	func() {
		defer errors.Recover("core.View.Build")
		v.state.Build()
	}()
}

// Unmount disposes the state. A view cannot be remounted.
func (v *View) Unmount() {
	if !v.mounted {
		return
	}
	v.mounted = false
	v.state.Dispose()
}
