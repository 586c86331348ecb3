package core

import (
	"testing"

	"github.com/go-drift/statekit/pkg/errors"
	"github.com/go-drift/statekit/pkg/state"
)

type countingView struct {
	StateBase
	src   *state.Notifier[int]
	seen  []int
	log   *[]string
	name  string
	inits int
}

func (v *countingView) InitState() {
	v.inits++
	if v.src != nil {
		UseSource(v, v.src)
	}
}

func (v *countingView) Build() {
	if v.src != nil {
		v.seen = append(v.seen, v.src.Value())
	}
	if v.log != nil {
		*v.log = append(*v.log, v.name)
	}
}

func TestMount_InitsAndBuilds(t *testing.T) {
	owner := NewBuildOwner()
	st := &countingView{}
	v := Mount(owner, nil, st)

	if st.inits != 1 || v.BuildCount() != 1 {
		t.Errorf("inits=%d builds=%d, want 1/1", st.inits, v.BuildCount())
	}
	if st.View() != v {
		t.Error("state should know its view")
	}
}

func TestView_RebuildsOncePerFlush(t *testing.T) {
	owner := NewBuildOwner()
	src := state.NewNotifier(0)
	st := &countingView{src: src}
	v := Mount(owner, nil, st)

	src.SetValue(1)
	src.SetValue(2)
	if !owner.NeedsWork() {
		t.Fatal("notification should schedule a build")
	}
	owner.FlushBuild()

	if v.BuildCount() != 2 {
		t.Errorf("builds = %d, want 2", v.BuildCount())
	}
	if got := st.seen[len(st.seen)-1]; got != 2 {
		t.Errorf("last build saw %d, want 2", got)
	}
}

func TestFlushBuild_DepthOrder(t *testing.T) {
	owner := NewBuildOwner()
	var log []string
	root := Mount(owner, nil, &countingView{log: &log, name: "root"})
	child := Mount(owner, root, &countingView{log: &log, name: "child"})
	log = nil

	child.MarkNeedsBuild()
	root.MarkNeedsBuild()
	owner.FlushBuild()

	if len(log) != 2 || log[0] != "root" || log[1] != "child" {
		t.Errorf("build order = %v, want [root child]", log)
	}
}

func TestUnmount_ReleasesSubscriptions(t *testing.T) {
	owner := NewBuildOwner()
	src := state.NewNotifier(0)
	v := Mount(owner, nil, &countingView{src: src})

	v.Unmount()
	if src.ObserverCount() != 0 {
		t.Errorf("observers = %d after unmount", src.ObserverCount())
	}
	src.SetValue(5)
	if owner.NeedsWork() {
		t.Error("unmounted view should not be scheduled")
	}
}

func TestUnmount_SkipsPendingBuild(t *testing.T) {
	owner := NewBuildOwner()
	st := &countingView{}
	v := Mount(owner, nil, st)
	v.MarkNeedsBuild()
	v.Unmount()
	owner.FlushBuild()
	if v.BuildCount() != 1 {
		t.Errorf("builds = %d, want 1", v.BuildCount())
	}
}

type panickyView struct {
	StateBase
}

func (panickyView) Build() { panic("bad build") }

func TestView_BuildPanicIsReported(t *testing.T) {
	var panics []*errors.PanicError
	errors.SetHandler(panicCollector{&panics})
	t.Cleanup(func() { errors.SetHandler(nil) })

	v := Mount(NewBuildOwner(), nil, &panickyView{})
	if len(panics) != 1 || panics[0].Op != "core.View.Build" {
		t.Fatalf("panics = %v", panics)
	}
	v.Unmount()
}

func TestBuildOwner_OnNeedsFrame(t *testing.T) {
	owner := NewBuildOwner()
	frames := 0
	owner.OnNeedsFrame = func() { frames++ }
	v := Mount(owner, nil, &countingView{})

	v.MarkNeedsBuild()
	v.MarkNeedsBuild()
	if frames != 1 {
		t.Errorf("OnNeedsFrame called %d times, want 1", frames)
	}
}

type panicCollector struct{ p *[]*errors.PanicError }

func (c panicCollector) HandleError(*errors.StateError)   {}
func (c panicCollector) HandlePanic(p *errors.PanicError) { *c.p = append(*c.p, p) }
