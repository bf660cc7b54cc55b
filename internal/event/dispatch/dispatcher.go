package dispatch

import (
	"context"
	"time"

	"github.com/dshills/eventmgr/internal/event"
	"github.com/dshills/eventmgr/internal/event/queue"
)

// Dispatcher runs a queue of handlers against one event.
type Dispatcher interface {
	// RunQueue invokes every entry of q against e, highest priority first.
	RunQueue(ctx context.Context, e *event.Event, q *queue.Queue, cb event.Callback) error
}

// Result represents the outcome of a handler execution.
type Result struct {
	// Value is what the handler returned.
	Value any

	// Error is the error returned by the handler, if any.
	Error error

	// Panicked is true if the handler panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// PanicStack is the stack trace at the point of panic.
	PanicStack []byte

	// Duration is how long the handler took to execute.
	Duration time.Duration
}

// IsSuccess returns true if the result indicates successful execution.
func (r Result) IsSuccess() bool {
	return !r.Panicked && r.Error == nil
}

// IsError returns true if the result indicates an error (not panic).
func (r Result) IsError() bool {
	return r.Error != nil && !r.Panicked
}

// IsPanic returns true if the result indicates a panic.
func (r Result) IsPanic() bool {
	return r.Panicked
}

// Err returns the failure as an event.ErrRuntime error, or nil on success.
// A panic is reported through an *event.PanicError cause.
func (r Result) Err(e *event.Event) error {
	switch {
	case r.Panicked:
		return event.Runtime(&event.PanicError{
			Event: e.Name(),
			Value: r.PanicValue,
			Stack: string(r.PanicStack),
		})
	case r.Error != nil:
		return event.Runtime(r.Error)
	default:
		return nil
	}
}

// Outcome says why a dispatch ended.
type Outcome int

const (
	// Completed means every entry ran.
	Completed Outcome = iota

	// Stopped means a handler stopped propagation.
	Stopped

	// Vetoed means the callback returned false.
	Vetoed

	// Failed means a handler returned an error or panicked.
	Failed
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Stopped:
		return "stopped"
	case Vetoed:
		return "vetoed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Observer is told about every handler call and how each dispatch ended.
type Observer interface {
	Executed(e *event.Event, entry queue.Entry, r Result)
	Finished(e *event.Event, o Outcome)
}

// PanicHandler is called when a handler panics during execution.
// It receives the event being processed, the panic value, and the stack trace.
type PanicHandler func(e *event.Event, panicValue any, stack []byte)

// defaultPanicHandler is a no-op panic handler. The panic still reaches the
// caller as an error.
func defaultPanicHandler(e *event.Event, panicValue any, stack []byte) {}
