// Package dispatch runs priority queues of handlers against an event.
//
// Dispatch is synchronous: every handler runs in the caller's goroutine, in
// queue order, and a handler that blocks blocks the whole dispatch. There
// is no timeout and the context is never checked; it is only handed to the
// handlers.
//
// # The Dispatch Loop
//
// For each queue entry, highest priority first:
//
//  1. Invoke the handler.
//  2. Append its value to the event's results.
//  3. If the value is exactly false, stop propagation.
//  4. If propagation is stopped, end the loop.
//  5. Otherwise consult the callback; false ends the loop.
//
// # Panic Recovery
//
// A handler that panics is recovered and reported like an error: the loop
// ends and the caller gets an event.ErrRuntime error whose cause is an
// *event.PanicError carrying the stack. A PanicHandler, if configured, sees
// the panic first.
//
// # Usage
//
//	d := dispatch.NewSyncDispatcher(
//	    dispatch.WithPanicHandler(func(e *event.Event, v any, stack []byte) {
//	        log.Printf("panic in handler for %s: %v\n%s", e.Name(), v, stack)
//	    }),
//	)
//	if err := d.RunQueue(ctx, e, q, nil); err != nil {
//	    // handle errors.Is(err, event.ErrRuntime)
//	}
package dispatch
