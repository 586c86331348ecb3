package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

type handlerBox struct{ h ErrorHandler }

var current atomic.Pointer[handlerBox]

func init() { SetHandler(nil) }

// SetHandler installs the process-wide error handler. Pass nil to restore a
// LogHandler writing to stderr.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	current.Store(&handlerBox{h})
}

// Handler returns the installed error handler.
func Handler() ErrorHandler { return current.Load().h }

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}

// Report sends err to the installed handler, stamping it if needed.
func Report(err *StateError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	Handler().HandleError(err)
}

// ReportPanic sends a recovered panic to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	Handler().HandlePanic(err)
}

// Recover reports a panic in progress as a PanicError tagged with op.
//
//	defer errors.Recover("state.Scheduler.Flush")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(newPanicError(op, r))
	}
}

// RecoverWithCallback is like Recover but also calls the provided callback
// with the reported panic after reporting it.
func RecoverWithCallback(op string, callback func(p *PanicError)) {
	if r := recover(); r != nil {
		p := newPanicError(op, r)
		ReportPanic(p)
		if callback != nil {
			callback(p)
		}
	}
}

// Must panics with a ConfigError when ok is false.
func Must(ok bool, op, msg string) {
	if !ok {
		panic(&ConfigError{Op: op, Msg: msg})
	}
}

func newPanicError(op string, r any) *PanicError {
	return &PanicError{
		Op:         op,
		Value:      r,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
}

// CaptureStack returns the current call stack as a string.
// It skips the first few frames to exclude the CaptureStack call itself.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}
