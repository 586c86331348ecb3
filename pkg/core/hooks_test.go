package core

import (
	"errors"
	"testing"

	"github.com/go-drift/statekit/pkg/combine"
	"github.com/go-drift/statekit/pkg/state"
)

type mockDisposable struct {
	disposed bool
}

func (m *mockDisposable) Dispose() {
	m.disposed = true
}

func TestUseController(t *testing.T) {
	base := &StateBase{}

	controller := UseController(base, func() *mockDisposable {
		return &mockDisposable{}
	})

	if controller.disposed {
		t.Error("Controller should not be disposed initially")
	}

	base.Dispose()

	if !controller.disposed {
		t.Error("Controller should be disposed when StateBase is disposed")
	}
}

func TestUseSource(t *testing.T) {
	base := &StateBase{}
	n := state.NewNotifier(0)

	UseSource(base, n)

	if n.ObserverCount() != 1 {
		t.Errorf("Expected 1 observer, got %d", n.ObserverCount())
	}

	base.Dispose()

	if n.ObserverCount() != 0 {
		t.Errorf("Expected 0 observers after dispose, got %d", n.ObserverCount())
	}
}

func TestUseCombined_ReleasesSources(t *testing.T) {
	base := &StateBase{}
	a := state.NewNotifier(0)
	b := state.NewNotifier("")

	o := UseCombined(base, []state.Source{a, b}, combine.Handlers[combine.All, string]{
		OnData: func(combine.All) string { return "ready" },
	})
	if got := o.Build(); got != "ready" {
		t.Errorf("Build() = %q", got)
	}

	base.Dispose()
	if a.ObserverCount() != 0 || b.ObserverCount() != 0 {
		t.Error("combined observer should unsubscribe on dispose")
	}
}

func TestUseSingle_ErrorOutcome(t *testing.T) {
	base := &StateBase{}
	n := state.NewNotifier(0)
	o := UseSingle(base, n, combine.Handlers[int, string]{
		OnError: func(err error, _ func()) string { return err.Error() },
		OnData:  func(v int) string { return "data" },
	})
	defer base.Dispose()

	n.SetStatus(state.Failed[int](errors.New("boom")))
	if got := o.Build(); got != "boom" {
		t.Errorf("Build() = %q, want boom", got)
	}
}

func TestManaged_Value(t *testing.T) {
	base := &StateBase{}
	m := NewManaged(base, 42)

	if m.Value() != 42 {
		t.Errorf("Expected 42, got %d", m.Value())
	}
}

func TestManaged_Set(t *testing.T) {
	base := &StateBase{}
	m := NewManaged(base, 0)

	m.Set(100)

	if m.Value() != 100 {
		t.Errorf("Expected 100, got %d", m.Value())
	}
}

func TestManaged_Update(t *testing.T) {
	base := &StateBase{}
	m := NewManaged(base, 10)

	m.Update(func(v int) int { return v * 2 })

	if m.Value() != 20 {
		t.Errorf("Expected 20, got %d", m.Value())
	}
}

func TestManaged_StructType(t *testing.T) {
	type Person struct {
		Name string
		Age  int
	}

	base := &StateBase{}
	m := NewManaged(base, Person{Name: "Alice", Age: 30})

	m.Update(func(p Person) Person {
		p.Age++
		return p
	})

	if m.Value().Age != 31 {
		t.Errorf("Expected age 31, got %d", m.Value().Age)
	}
}
