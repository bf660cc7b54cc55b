// Package manager provides the event manager and its variants.
//
// A Manager owns a map from event name, or glob pattern, to a priority
// queue. Dispatching an event combines the queues of every matching name
// and runs them highest priority first.
//
// # Variants
//
//   - Manager: the plain manager.
//   - Composite: also merges in the queues of a pool of peer managers.
//   - Immutable: read-only view; attach, detach and clear fail.
//   - Shareable: a manager with a canonical instance in a SharedRegistry.
//
// # Attaching
//
// A handler needs an explicit name:
//
//	h := event.Func(onLogin)
//	err := m.AttachListener(h, "user.login", 60)
//
// A listener brings its own names:
//
//	err := m.AttachListener(&audit{}, "", event.PriorityDefault)
//
// Queues exist only while they hold handlers. Detaching the last handler
// of a name removes the name.
//
// # Observability
//
// Managers log through zerolog (silent by default) and, with WithMetrics,
// count dispatches and listener calls on a Prometheus registerer.
package manager
