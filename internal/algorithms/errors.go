// Typed failures surfaced by the transform engine and image IO
package algorithms

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindDecode
	KindInvalidParameter
	KindEncode
	KindIO
	KindProcessing
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindDecode:
		return "decode error"
	case KindInvalidParameter:
		return "invalid parameter"
	case KindEncode:
		return "encode error"
	case KindIO:
		return "io error"
	case KindProcessing:
		return "processing error"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

// Sentinels for errors.Is matching
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrDecode           = &Error{Kind: KindDecode}
	ErrInvalidParameter = &Error{Kind: KindInvalidParameter}
	ErrEncode           = &Error{Kind: KindEncode}
	ErrIO               = &Error{Kind: KindIO}
	ErrProcessing       = &Error{Kind: KindProcessing}
)

// Error is the single error type returned by the engine.
// Op names the failing operation, Path is set for file operations.
type Error struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so callers can use the sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// InvalidParameter builds an InvalidParameter error for op.
func InvalidParameter(op, format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidParameter, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the kind of err, or 0 when err is not an engine error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
