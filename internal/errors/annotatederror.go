// Package errors provides error wrapping with slog annotations and source
// locations. It re-exports the standard library helpers so callers only need
// one errors import.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
)

// AnnotatedError carries a message, optional wrapped cause, slog attributes,
// and the source location where it was created.
type AnnotatedError struct {
	msg   string
	cause error
	attrs []slog.Attr
	pc    uintptr
}

// Error implements the error interface.
func (e *AnnotatedError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Unwrap returns the wrapped cause.
func (e *AnnotatedError) Unwrap() error {
	return e.cause
}

// NewSentinel creates a sentinel error that can be compared with [Is].
func NewSentinel(msg string) error {
	return &AnnotatedError{
		msg:   msg,
		cause: nil,
		attrs: nil,
		pc:    caller(),
	}
}

// Wrap annotates err with a message and optional slog attributes.
// It returns nil if err is nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return &AnnotatedError{
		msg:   msg,
		cause: err,
		attrs: attrs,
		pc:    caller(),
	}
}

// caller captures the program counter of the function that called into this
// package. The skip count jumps over runtime.Callers, caller, and the
// exported constructor.
func caller() uintptr {
	var pcs [1]uintptr
	const skip = 3
	runtime.Callers(skip, pcs[:])
	return pcs[0]
}

// DecoratePanic converts a value recovered from a panic into an annotated
// error pointing at the recovery site.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	return &AnnotatedError{
		msg:   fmt.Sprintf("panic: %v", recovered),
		cause: nil,
		attrs: nil,
		pc:    caller(),
	}
}

// SlogError formats err into a structured slog group attribute containing the
// error message, the source location of the innermost annotated error, and the
// merged annotations of the whole chain.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{} //nolint:exhaustruct // empty attr is discarded by slog.
	}

	var (
		annotations []slog.Attr
		source      string
	)
	for e := err; e != nil; e = errors.Unwrap(e) {
		annotated, ok := e.(*AnnotatedError)
		if !ok {
			continue
		}
		annotations = append(annotations, annotated.attrs...)
		if annotated.pc != 0 {
			// The innermost location is closest to the root cause.
			source = formatSource(annotated.pc)
		}
	}

	groupAttrs := []slog.Attr{slog.String("message", err.Error())}
	if source != "" {
		groupAttrs = append(groupAttrs, slog.String("source", source))
	}
	if len(annotations) > 0 {
		groupAttrs = append(groupAttrs, slog.Attr{Key: "annotations", Value: slog.GroupValue(annotations...)})
	}

	return slog.Attr{Key: "error", Value: slog.GroupValue(groupAttrs...)}
}

// formatSource renders a program counter as "file.go:line".
func formatSource(pc uintptr) string {
	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}

// Re-exports of the standard library error helpers.

// New returns an error with the given message.
func New(msg string) error { return errors.New(msg) }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join wraps the given errors into a single error.
func Join(errs ...error) error { return errors.Join(errs...) }
