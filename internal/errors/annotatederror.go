package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// annotatedError includes more context than a plain error that is useful for troubleshooting.
type annotatedError struct {
	// msg is the error message.
	msg string
	// cause is the wrapped error, nil for errors created with New.
	cause error
	// pc is the program counter for the location of the error provided by runtime.Callers.
	pc uintptr
	// attrs are slog attributes that are added to the log event to provide more context for the error.
	attrs []slog.Attr
}

// New creates a new error with the given message and attributes. The caller's source location is recorded.
func New(msg string, attrs ...slog.Attr) error {
	return newAnnotated(msg, nil, attrs)
}

// NewSentinel creates a plain error without other context that can be detected with errors.Is.
func NewSentinel(msg string) error {
	return errors.New(msg)
}

// Wrap adds context to err. The resulting error matches err with Is and As.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return newAnnotated(msg, err, attrs)
}

func newAnnotated(msg string, cause error, attrs []slog.Attr) *annotatedError {
	var pcs [1]uintptr
	// Skip runtime.Callers, newAnnotated and the exported constructor.
	runtime.Callers(3, pcs[:]) //nolint:mnd // see above
	return &annotatedError{
		msg:   msg,
		cause: cause,
		pc:    pcs[0],
		attrs: attrs,
	}
}

// Error implements error interface.
func (err *annotatedError) Error() string {
	if err.cause == nil {
		return err.msg
	}
	return fmt.Sprintf("%s: %s", err.msg, err.cause.Error())
}

func (err *annotatedError) Unwrap() error {
	return err.cause
}

// LogValue formats the error for useful logging.
//
// Attributes of wrapped annotated errors are collected so that the whole chain ends up in the log event. The source
// points to the innermost annotated error since that's where the problem originated.
func (err *annotatedError) LogValue() slog.Value {
	var (
		attrs  []slog.Attr
		source string
	)
	var current error = err
	for current != nil {
		var annotated *annotatedError
		if !errors.As(current, &annotated) {
			break
		}
		frames := runtime.CallersFrames([]uintptr{annotated.pc})
		frame, _ := frames.Next()
		source = fmt.Sprintf("%s:%d", frame.File, frame.Line)
		attrs = append(attrs, annotated.attrs...)
		current = annotated.cause
	}

	return slog.GroupValue(append([]slog.Attr{
		slog.String("message", err.Error()),
		slog.String("source", source),
	}, attrs...)...)
}

// SlogError returns an attribute for logging err with its annotations.
func SlogError(err error) slog.Attr {
	var annotated *annotatedError
	if errors.As(err, &annotated) {
		if annotated == err {
			return slog.Any("error", annotated)
		}
		// The outermost error isn't annotated, keep its message while still logging the annotations.
		return slog.Group("error", slog.String("message", err.Error()), slog.Any("annotations", annotated))
	}
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// As exposes stdlib errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is exposes stdlib errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap exposes stdlib errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join exposes stdlib errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
