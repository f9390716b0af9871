// Package perrors defines the error kinds a query compile or run can
// produce. It mirrors the teacher's zqe package: a small Kind enum plus
// an Error that wraps an underlying cause, constructed with a single
// variadic helper so call sites read like fmt.Errorf.
package perrors

import (
	"fmt"
	"runtime"
	"strings"
)

// Kind classifies why a compile or run failed.
type Kind int

const (
	Other Kind = iota
	// BadProto marks malformed wire data: bad tags, truncated fields,
	// unsupported wire types, or a decoding mismatch.
	BadProto
	// BadQuery marks a syntactically or semantically invalid query text.
	BadQuery
	// RecursionDepthExceeded marks submessage nesting beyond the
	// configured limit.
	RecursionDepthExceeded
	// LimitReached is the internal early-exit signal raised when the
	// emitter's row limit is hit. Query.Run intercepts it and returns
	// the accumulated rows normally; it should never escape to a caller.
	LimitReached
)

func (k Kind) String() string {
	switch k {
	case BadProto:
		return "bad protobuf wire data"
	case BadQuery:
		return "invalid query"
	case RecursionDepthExceeded:
		return "recursion depth exceeded"
	case LimitReached:
		return "row limit reached"
	}
	return "error"
}

// Error is the concrete error type for all four kinds.
type Error struct {
	Kind Kind
	Err  error
}

// Error renders the kind and, if present, the wrapped cause, joined
// with ": " in that order. A bare Error with neither reads as "no error"
// rather than an empty string.
func (e *Error) Error() string {
	var parts []string
	if e.Kind != Other {
		parts = append(parts, e.Kind.String())
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		return "no error"
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an error from any mix of a Kind, an existing error, and a
// trailing format string with args, the way fmt.Errorf reads (including
// %w support through the wrapped error it assigns to Err).
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("perrors.E called with no arguments")
	}
	e := &Error{}
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case Kind:
			e.Kind = v
			continue
		case error:
			e.Err = v
			continue
		case string:
			e.Err = fmt.Errorf(v, args[i+1:]...)
			return e
		}
		_, file, line, _ := runtime.Caller(1)
		return fmt.Errorf("perrors.E: unsupported argument %T(%v) at %s:%d", args[i], args[i], file, line)
	}
	return e
}

// Is reports whether err (or something it wraps) is an *Error of the
// given Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if pe, ok := err.(*Error); ok {
			if pe.Kind == kind {
				return true
			}
			err = pe.Err
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
