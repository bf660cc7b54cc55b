package dispatch

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/dshills/eventmgr/internal/event"
)

// Executor handles the actual execution of event handlers with
// panic recovery and timing.
type Executor struct {
	panicHandler PanicHandler
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		panicHandler: defaultPanicHandler,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecutorPanicHandler sets the panic handler for the executor.
func WithExecutorPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		e.panicHandler = h
	}
}

// Execute runs a handler with the given event and returns the result.
// It recovers from panics and captures timing information. The context is
// passed through to the handler and never checked here.
func (x *Executor) Execute(ctx context.Context, e *event.Event, h event.Handler) (result Result) {
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			stack := debug.Stack()

			result.Value = nil
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = stack

			// Protect the panic handler call - don't let it crash the process
			if x.panicHandler != nil {
				func() {
					defer func() {
						_ = recover()
					}()
					x.panicHandler(e, r, stack)
				}()
			}
		}
	}()

	value, err := h.Handle(ctx, e)
	result.Value = value
	result.Error = err

	return result
}
