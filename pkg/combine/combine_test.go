package combine

import (
	"errors"
	"testing"

	"github.com/go-drift/statekit/pkg/state"
)

func notifierWith(status state.Status[int]) *state.Notifier[int] {
	n := state.NewNotifier(0)
	n.SetStatus(status)
	return n
}

func TestReduce_Precedence(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")

	tests := []struct {
		name     string
		statuses []state.Status[int]
		kind     state.Kind
		source   int
		err      error
	}{
		{"waiting beats everything", []state.Status[int]{state.Failed[int](errA), state.Data(1), state.Waiting[int](), state.Idle[int]()}, state.KindWaiting, 2, nil},
		{"first waiting wins", []state.Status[int]{state.Waiting[int](), state.Waiting[int]()}, state.KindWaiting, 0, nil},
		{"error beats idle", []state.Status[int]{state.Idle[int](), state.Failed[int](errA)}, state.KindError, 1, errA},
		{"last error wins", []state.Status[int]{state.Failed[int](errA), state.Data(1), state.Failed[int](errB)}, state.KindError, 2, errB},
		{"idle beats data", []state.Status[int]{state.Data(1), state.Idle[int](), state.Idle[int]()}, state.KindIdle, 1, nil},
		{"all data", []state.Status[int]{state.Data(1), state.Data(2)}, state.KindData, -1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sources []state.Source
			for _, s := range tt.statuses {
				sources = append(sources, notifierWith(s))
			}
			d := Reduce(sources)
			if d.Status.Kind() != tt.kind {
				t.Errorf("kind = %v, want %v", d.Status.Kind(), tt.kind)
			}
			if d.Source != tt.source {
				t.Errorf("source = %d, want %d", d.Source, tt.source)
			}
			if d.Status.Err() != tt.err {
				t.Errorf("err = %v, want %v", d.Status.Err(), tt.err)
			}
		})
	}
}

func TestReduce_WaitingRegardlessOfOthers(t *testing.T) {
	kinds := []state.Status[int]{state.Idle[int](), state.Failed[int](errors.New("x")), state.Data(1)}
	for _, a := range kinds {
		for _, b := range kinds {
			sources := []state.Source{notifierWith(a), notifierWith(state.Waiting[int]()), notifierWith(b)}
			if got := Reduce(sources).Status.Kind(); got != state.KindWaiting {
				t.Errorf("Reduce(%v, waiting, %v) = %v", a, b, got)
			}
		}
	}
}

func TestReduce_EmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Reduce(nil) should panic")
		}
	}()
	Reduce(nil)
}

func allHandlers() Handlers[int, string] {
	return Handlers[int, string]{
		OnIdle:    func() string { return "idle" },
		OnWaiting: func() string { return "waiting" },
		OnError:   func(err error, _ func()) string { return "error:" + err.Error() },
		OnData:    func(v int) string { return "data" },
	}
}

func TestDispatch_AllHandlers(t *testing.T) {
	h := allHandlers()
	tests := []struct {
		status state.Status[int]
		want   string
	}{
		{state.Idle[int](), "idle"},
		{state.Waiting[int](), "waiting"},
		{state.Failed[int](errors.New("x")), "error:x"},
		{state.Data(1), "data"},
	}
	for _, tt := range tests {
		if got := Dispatch(tt.status, 0, nil, h); got != tt.want {
			t.Errorf("Dispatch(%v) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestDispatch_Fallbacks(t *testing.T) {
	onlyData := Handlers[int, string]{OnData: func(v int) string { return "data" }}
	for _, s := range []state.Status[int]{state.Idle[int](), state.Waiting[int](), state.Failed[int](errors.New("x"))} {
		if got := Dispatch(s, 0, nil, onlyData); got != "data" {
			t.Errorf("Dispatch(%v) with only OnData = %q", s, got)
		}
	}

	idleToWaiting := Handlers[int, string]{
		OnWaiting: func() string { return "waiting" },
		OnError:   func(error, func()) string { return "error" },
	}
	if got := Dispatch(state.Idle[int](), 0, nil, idleToWaiting); got != "waiting" {
		t.Errorf("idle fallback = %q, want waiting", got)
	}

	idleToError := Handlers[int, string]{OnError: func(error, func()) string { return "error" }}
	if got := Dispatch(state.Idle[int](), 0, nil, idleToError); got != "error" {
		t.Errorf("idle fallback = %q, want error", got)
	}

	if got := Dispatch(state.Data(1), 0, nil, Handlers[int, string]{}); got != "" {
		t.Errorf("no handlers = %q, want zero value", got)
	}
}

func TestDispatch_PassesValue(t *testing.T) {
	h := Handlers[int, int]{OnData: func(v int) int { return v * 2 }}
	if got := Dispatch(state.Waiting[int](), 21, nil, h); got != 42 {
		t.Errorf("Dispatch = %d, want 42", got)
	}
}
