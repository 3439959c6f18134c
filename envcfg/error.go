package envcfg

import (
	"cmp"
	"errors"
	"log/slog"
	"slices"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrConfigShape       = NewError("could not load config key")
	ErrProtectedVariable = NewError("protected variable")
	ErrFilter            = NewError("invalid filter expression")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
// Errors created by [Error.Wrap] and [Error.With] share the message of their
// sentinel, so they match it regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.err == nil && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ShapeError reports a configuration value that does not have the shape of an
// environment entry.
type ShapeError struct {
	// Key is the dotted configuration key path, e.g. "env.NAME" or
	// "env.NAME.force".
	Key string
	// Reason is a human-readable description of the problem.
	Reason string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return ErrConfigShape.msg + " `" + e.Key + "`: " + e.Reason
}

// Is reports whether target is [ErrConfigShape].
func (e *ShapeError) Is(target error) bool {
	return target == ErrConfigShape
}

// LogValue implements slog.LogValuer.
func (e *ShapeError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrConfigShape.msg),
		slog.String("key", e.Key),
		slog.String("reason", e.Reason),
	)
}

// ProtectedVariableError reports an entry whose name falls in the namespace
// reserved for the build tool's own control variables.
type ProtectedVariableError struct {
	Name   string
	Prefix string
}

// Error implements the error interface.
func (e *ProtectedVariableError) Error() string {
	return "setting " + e.Prefix + " variables from [env] is not allowed " +
		"(found `" + KeyPath(e.Name) + "`)"
}

// Is reports whether target is [ErrProtectedVariable].
func (e *ProtectedVariableError) Is(target error) bool {
	return target == ErrProtectedVariable
}

// LogValue implements slog.LogValuer.
func (e *ProtectedVariableError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrProtectedVariable.msg),
		slog.String("name", e.Name),
		slog.String("prefix", e.Prefix),
	)
}

// Errors is the list of every problem found while resolving an entry table.
type Errors []error

// Error joins the messages of all errors, one per line.
func (e Errors) Error() string {
	var sb strings.Builder

	for i, err := range e {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Unwrap returns the contained errors for errors.Is/As.
func (e Errors) Unwrap() []error { return e }

// LogValue implements slog.LogValuer.
func (e Errors) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e))

	for _, err := range e {
		attrs = append(attrs, slog.Any(errorKey(err), err))
	}

	return slog.GroupValue(attrs...)
}

// sorted returns e ordered by configuration key path.
func (e Errors) sorted() Errors {
	out := slices.Clone(e)

	slices.SortStableFunc(out, func(a, b error) int {
		return cmp.Compare(errorKey(a), errorKey(b))
	})

	return out
}

// errorKey returns the configuration key path an error refers to, or its
// message when it is not tied to a key.
func errorKey(err error) string {
	var (
		shape *ShapeError
		prot  *ProtectedVariableError
	)

	switch {
	case errors.As(err, &shape):
		return shape.Key
	case errors.As(err, &prot):
		return KeyPath(prot.Name)
	default:
		return err.Error()
	}
}
