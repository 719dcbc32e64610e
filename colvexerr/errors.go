// Package colvexerr defines the closed taxonomy of error kinds that every
// public entry point in colvex propagates to its caller.
package colvexerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why an operation failed. Kinds are closed: callers should
// switch on them rather than pattern-match error strings.
type Kind int

const (
	// InvalidInput is a caller-violated contract: length mismatch, wrong
	// dtype, out-of-range index, non-sorted row indices.
	InvalidInput Kind = iota
	// InvalidSerde means a file or message is malformed: missing field,
	// bad magic, bad version.
	InvalidSerde
	// MismatchedTypes means an operation requires types that cannot be
	// reconciled.
	MismatchedTypes
	// NotSupported means a kernel returned None and no fallback applied.
	NotSupported
	// IO means the segment source failed.
	IO
	// Arithmetic means a cast would truncate or a decimal rescale would
	// overflow.
	Arithmetic
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case InvalidSerde:
		return "InvalidSerde"
	case MismatchedTypes:
		return "MismatchedTypes"
	case NotSupported:
		return "NotSupported"
	case IO:
		return "IO"
	case Arithmetic:
		return "Arithmetic"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned from public colvex APIs.
type Error struct {
	Kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// Unwrap allows errors.Is/errors.As to see through to the cause.
func (e *Error) Unwrap() error { return e.cause }

// New builds a bare error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a stack-carrying cause (via github.com/pkg/errors) to a new
// error of the given kind. Used at IO and serde boundaries where a stack
// trace materially helps diagnosis.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	if cause == nil {
		return New(kind, format, args...)
	}
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), cause: errors.WithStack(cause)}
}

// Is reports whether err is a colvex *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
