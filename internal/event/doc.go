// Package event provides the event value and callable types shared by the
// event manager and its listeners.
//
// An event manager is an in-process observer: listeners register interest
// in event names (including glob patterns) with a priority, and the manager
// runs every matching callable against one *Event, highest priority first.
//
// # Architecture
//
//	                    ┌──────────────────────────────────────────┐
//	                    │              Event Manager               │
//	                    │  - name -> priority queue                │
//	                    │  - glob name matching                    │
//	                    │  - synchronous dispatch loop             │
//	                    └──────────────────────────────────────────┘
//	                                      │
//	          ┌───────────────────────────┼───────────────────────────┐
//	          ▼                           ▼                           ▼
//	┌─────────────────┐         ┌─────────────────┐         ┌─────────────────┐
//	│    listener     │         │      queue      │         │      topic      │
//	│  - declarations │         │  - priority     │         │  - glob match   │
//	│  - callables    │         │  - combine      │         │  - pattern cache│
//	└─────────────────┘         └─────────────────┘         └─────────────────┘
//
// # Event Names
//
// Names are free-form strings, conventionally dotted:
//
//	login.attempt       - concrete event
//	login.*             - every event starting with "login."
//	*                   - every event
//
// # Priority Ordering
//
// Handlers execute in priority order, 0 to 100, higher first:
//
//   - Critical (100): must run first
//   - High (75)
//   - Normal (50): default priority
//   - Low (25): metrics, logging - executes late
//
// Handlers of equal priority run in the order they were attached.
//
// # Results and Propagation
//
// Each handler's return value is appended to the event's results. A handler
// that returns exactly false, or calls StopPropagation, ends the dispatch.
// A handler error or panic aborts the dispatch and reaches the caller as an
// ErrRuntime error; changes already made to the event are kept.
//
// # Basic Usage
//
//	m := manager.New()
//	greet := event.Func(func(ctx context.Context, e *event.Event) (any, error) {
//	    e.SetProperty("greeted", true)
//	    return "hello", nil
//	})
//	if err := m.AttachListener(greet, "user.login", 60); err != nil {
//	    return err
//	}
//
//	e, _ := event.New("user.login", nil, nil)
//	if _, err := m.ProcessEvent(ctx, e, nil); err != nil {
//	    return err
//	}
//	fmt.Println(e.Results()) // [hello]
//
// # Thread Safety
//
// Dispatch is synchronous on the caller's goroutine and nothing here locks.
// Callers sharing a manager or event across goroutines must serialize access.
// A handler may dispatch again, on the same or another manager; nothing
// bounds that recursion.
//
// # Subpackages
//
//   - message: message codes and localized error text
//   - queue: priority queue of handlers
//   - topic: glob matching of event names
//   - listener: listener declarations and callable normalization
//   - dispatch: handler execution and the dispatch loop
//   - manager: event manager, composite, immutable and shareable variants
//   - aware: embeddable emitter bound to a manager
package event
