package state

import "fmt"

// Kind is the tag of a Status.
type Kind int

const (
	// KindIdle means the container has not started producing a value.
	KindIdle Kind = iota
	// KindWaiting means a creator or mutation is in flight.
	KindWaiting
	// KindError means the last creator or mutation failed.
	KindError
	// KindData means the container holds a value.
	KindData
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindWaiting:
		return "waiting"
	case KindError:
		return "error"
	case KindData:
		return "data"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Status is an immutable snapshot of a container's condition.
//
// Exactly one tag is active. Only a Data status carries a value and only an
// Error status carries a cause, so a transition never exposes the payload of
// a previous status.
type Status[T any] struct {
	kind  Kind
	value T
	err   error
}

// Idle returns an Idle status.
func Idle[T any]() Status[T] {
	return Status[T]{kind: KindIdle}
}

// Waiting returns a Waiting status.
func Waiting[T any]() Status[T] {
	return Status[T]{kind: KindWaiting}
}

// Failed returns an Error status carrying cause.
func Failed[T any](cause error) Status[T] {
	return Status[T]{kind: KindError, err: cause}
}

// Data returns a Data status carrying value.
func Data[T any](value T) Status[T] {
	return Status[T]{kind: KindData, value: value}
}

// Kind returns the active tag.
func (s Status[T]) Kind() Kind { return s.kind }

// IsIdle reports whether the status is Idle.
func (s Status[T]) IsIdle() bool { return s.kind == KindIdle }

// IsWaiting reports whether the status is Waiting.
func (s Status[T]) IsWaiting() bool { return s.kind == KindWaiting }

// HasError reports whether the status is Error.
func (s Status[T]) HasError() bool { return s.kind == KindError }

// HasData reports whether the status is Data.
func (s Status[T]) HasData() bool { return s.kind == KindData }

// Err returns the cause of an Error status and nil otherwise.
func (s Status[T]) Err() error {
	if s.kind != KindError {
		return nil
	}
	return s.err
}

// Data returns the value of a Data status. ok is false for every other tag.
func (s Status[T]) Data() (value T, ok bool) {
	if s.kind != KindData {
		var zero T
		return zero, false
	}
	return s.value, true
}

// String formats the status for logs and test failures.
func (s Status[T]) String() string {
	switch s.kind {
	case KindError:
		return fmt.Sprintf("error(%v)", s.err)
	case KindData:
		return fmt.Sprintf("data(%v)", s.value)
	default:
		return s.kind.String()
	}
}
