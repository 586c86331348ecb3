package combine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-drift/statekit/pkg/state"
)

func TestObserver_RendersOnNotification(t *testing.T) {
	a := state.NewNotifier(0)
	b := state.NewNotifier("")
	var renders []string
	o := Many([]state.Source{a, b}, Handlers[All, string]{
		OnWaiting: func() string { return "loading" },
		OnData:    func(All) string { return "ready" },
	}, func(r string) { renders = append(renders, r) })
	defer o.Dispose()

	if got := o.Build(); got != "ready" {
		t.Errorf("initial Build() = %q, want ready (idle falls back to OnData)", got)
	}

	a.SetStatus(state.Waiting[int]())
	b.SetValue("x")
	a.SetValue(1)

	want := []string{"loading", "loading", "ready"}
	if len(renders) != len(want) {
		t.Fatalf("renders = %v, want %v", renders, want)
	}
	for i := range want {
		if renders[i] != want[i] {
			t.Errorf("renders[%d] = %q, want %q", i, renders[i], want[i])
		}
	}
}

func TestObserver_DataOnly(t *testing.T) {
	a := state.NewNotifier(0)
	b := state.NewNotifier(0)
	renders := 0
	o := Many([]state.Source{a, b}, Handlers[All, int]{
		OnData:   func(All) int { return 1 },
		DataOnly: true,
	}, func(int) { renders++ })
	defer o.Dispose()

	a.SetStatus(state.Waiting[int]())
	if renders != 0 {
		t.Errorf("render ran for a waiting source in data-only mode")
	}
	b.SetValue(3)
	if renders != 1 {
		t.Errorf("renders = %d, want 1 for a data source", renders)
	}
	if o.Derived().Status.Kind() != state.KindWaiting {
		t.Errorf("derived status should still be computed: %v", o.Derived().Status)
	}
}

func TestObserver_Single(t *testing.T) {
	n := state.NewNotifier(0)
	var last int
	o := Single[int, int](n, Handlers[int, int]{OnData: func(v int) int { return v }}, func(v int) { last = v })
	n.SetValue(7)
	if last != 7 {
		t.Errorf("last = %d, want 7", last)
	}
	o.Dispose()
	n.SetValue(8)
	if last != 7 {
		t.Error("render after dispose")
	}
}

func TestObserver_DisposeUnsubscribesAll(t *testing.T) {
	a := state.NewNotifier(0)
	b := state.NewNotifier(0)
	o := Many([]state.Source{a, b}, Handlers[All, int]{}, nil)
	if a.ObserverCount() != 1 || b.ObserverCount() != 1 {
		t.Fatal("observer should subscribe to every source")
	}
	o.Dispose()
	o.Dispose()
	if a.ObserverCount() != 0 || b.ObserverCount() != 0 {
		t.Error("Dispose should unsubscribe from every source")
	}
}

func TestObserver_SharedSourceIsRefCounted(t *testing.T) {
	reg := state.NewRegistry()
	shared := state.Inject(reg, 1, state.AutoDispose())
	other := state.Inject(reg, 2, state.AutoDispose())

	o1 := Many([]state.Source{shared, other}, Handlers[All, int]{}, nil)
	o2 := Single[int, int](shared, Handlers[int, int]{}, nil)

	o1.Dispose()
	reg.Scheduler().Flush()
	if !shared.IsActive() {
		t.Fatal("shared source disposed while another observer still uses it")
	}
	if other.IsActive() {
		t.Error("source with no remaining observers should be disposed")
	}

	o2.Dispose()
	reg.Scheduler().Flush()
	if shared.IsActive() {
		t.Error("shared source should be disposed after its last observer")
	}
}

func TestObserver_ErrorRefreshRerunsFailedSources(t *testing.T) {
	reg := state.NewRegistry()
	attempts := 0
	src := state.InjectFuture(reg, 0, func(context.Context) (int, error) {
		attempts++
		if attempts == 1 {
			return 0, errors.New("first try fails")
		}
		return 5, nil
	})

	var retry func()
	o := Single[int, string](src, Handlers[int, string]{
		OnError: func(err error, refresh func()) string {
			retry = refresh
			return err.Error()
		},
		OnData: func(v int) string { return "ok" },
	}, nil)
	defer o.Dispose()

	settle(t, reg)
	if got := o.Build(); got != "first try fails" {
		t.Fatalf("Build() = %q", got)
	}

	retry()
	settle(t, reg)
	if got := o.Build(); got != "ok" {
		t.Errorf("after refresh Build() = %q, want ok", got)
	}
}

func settle(t *testing.T, reg *state.Registry) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for reg.Scheduler().Pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no settlement posted")
		}
		time.Sleep(time.Millisecond)
	}
	reg.Scheduler().Flush()
}
