package event

import (
	"errors"
	"fmt"

	"github.com/dshills/eventmgr/internal/event/message"
)

// Error kinds. Every error produced by the event packages matches one of
// these with errors.Is.
var (
	// ErrInvalidArgument is returned for bad listeners, names, priorities or peers.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a queue, property or manager is missing.
	ErrNotFound = errors.New("not found")

	// ErrRuntime is returned when a listener fails during dispatch.
	ErrRuntime = errors.New("runtime error")

	// ErrBadMethodCall is returned by mutating calls on an immutable manager.
	ErrBadMethodCall = errors.New("bad method call")

	// ErrHandlerPanic is matched by PanicError.
	ErrHandlerPanic = errors.New("handler panicked")
)

// Error is a kind-tagged error carrying a message code and its arguments.
type Error struct {
	// Kind is one of the Err* sentinels.
	Kind error

	// Code selects the message text.
	Code message.Code

	// Args are the message arguments.
	Args []any

	// Err is the underlying cause, if any.
	Err error
}

// NewError creates an Error without a cause.
func NewError(kind error, code message.Code, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Args: args}
}

// WrapError creates an Error around cause.
func WrapError(kind error, code message.Code, cause error, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Args: args, Err: cause}
}

// Error renders the English message.
func (e *Error) Error() string {
	return message.Text(e.Code, e.Args...)
}

// Localize renders the message with p.
func (e *Error) Localize(p *message.Printer) string {
	return p.Text(e.Code, e.Args...)
}

// Is matches the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Runtime wraps a listener failure for the caller of a dispatch.
func Runtime(cause error) *Error {
	return WrapError(ErrRuntime, message.CallableRuntime, cause, cause.Error())
}

// PanicError wraps a panic value as an error.
type PanicError struct {
	// Event is the name of the event being dispatched.
	Event string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return "handler panic on event " + e.Event + ": " + formatPanic(e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}

func formatPanic(v any) string {
	switch x := v.(type) {
	case error:
		return x.Error()
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}
}
