package errors

import (
	"log/slog"
	"os"
)

// LogHandler is an ErrorHandler that writes structured records through slog.
type LogHandler struct {
	// Logger receives the records. Nil means a text logger on stderr.
	Logger *slog.Logger
	// Verbose adds stack traces to the records.
	Verbose bool
}

var stderrLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return stderrLogger
}

// HandleError logs a StateError.
func (h *LogHandler) HandleError(err *StateError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "kind", err.Kind.String(), "err", err.Err}
	if err.Key != "" {
		attrs = append(attrs, "key", err.Key)
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Warn("statekit error", attrs...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "value", err.Value}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error("statekit panic", attrs...)
}
