// Package errors provides structured error handling for statekit.
//
// Containers never return most failures to their callers: creator failures
// become Error statuses, codec and store failures are recovered locally and
// reported here. Only programmer mistakes that have no safe default
// ([ConfigError]) are raised, by panicking at the call site.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindCreator indicates a failing value creator (future, stream or mutation).
	KindCreator
	// KindCodec indicates a persisted token that could not be decoded.
	KindCodec
	// KindStore indicates a durable store read or write failure.
	KindStore
	// KindConfig indicates a programmer configuration mistake.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindCreator:
		return "creator"
	case KindCodec:
		return "codec"
	case KindStore:
		return "store"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// StateError represents a structured error raised by a state container.
type StateError struct {
	// Op is the operation that failed (e.g., "theme.Hydrate").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Key is the persistence key or container name, if applicable.
	Key string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *StateError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s [%s] key=%s: %v", e.Op, e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "state.Injected.create").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// DecodeError represents a persisted token that a codec rejected.
type DecodeError struct {
	// Token is the raw persisted string.
	Token string
	// Reason describes why decoding failed.
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode token %q: %s", e.Token, e.Reason)
}

// ConfigError is a programmer error that has no safe default. It is always
// raised with panic, never reported through a handler.
type ConfigError struct {
	// Op is the call that was misconfigured (e.g., "animation.Lerp").
	Op string
	// Msg describes the mistake.
	Msg string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: invalid configuration: %s", e.Op, e.Msg)
}

// ErrorHandler receives errors reported by statekit.
type ErrorHandler interface {
	// HandleError is called when an error is recovered locally.
	HandleError(err *StateError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
