package manager

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/dshills/eventmgr/internal/event"
	"github.com/dshills/eventmgr/internal/event/dispatch"
	"github.com/dshills/eventmgr/internal/event/listener"
	"github.com/dshills/eventmgr/internal/event/message"
	"github.com/dshills/eventmgr/internal/event/queue"
	"github.com/dshills/eventmgr/internal/event/topic"
)

// EventManager is implemented by every manager variant.
type EventManager interface {
	// ProcessEvent runs every listener whose name matches e against e.
	ProcessEvent(ctx context.Context, e *event.Event, cb event.Callback) (*event.Event, error)

	// AttachListener binds a handler to name, or a listener's declarations.
	AttachListener(l any, name string, priority int) error

	// DetachListener undoes AttachListener. A nil l clears name, or everything.
	DetachListener(l any, name string) error

	// HasEventQueue reports whether name has at least one handler.
	HasEventQueue(name string) bool

	// GetEventQueue returns the queue registered under name.
	GetEventQueue(name string) (*queue.Queue, error)

	// ClearEventQueue removes every handler registered under name.
	ClearEventQueue(name string) error

	// EventNames lists registered names, sorted.
	EventNames() []string
}

// Manager maps event names and patterns to priority queues and dispatches
// events through them.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	queues map[string]*queue.Queue

	log        zerolog.Logger
	matcher    *topic.Matcher
	normalizer listener.Normalizer
	dispatcher *dispatch.SyncDispatcher
}

// New creates a manager with the given options.
func New(opts ...Option) *Manager {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newManager(cfg)
}

func newManager(cfg config) *Manager {
	m := &Manager{
		queues:  make(map[string]*queue.Queue),
		log:     cfg.logger,
		matcher: cfg.matcher,
	}
	if m.matcher == nil {
		m.matcher = topic.NewMatcher()
	}

	m.normalizer = listener.Normalizer{
		Strict: cfg.strict,
		Dropped: func(name string, decl any) {
			m.log.Debug().
				Str("event", name).
				Str("declaration", fmt.Sprintf("%v", decl)).
				Msg("dropped unresolvable callable")
		},
	}

	dopts := []dispatch.SyncOption{
		dispatch.WithObserver(&observer{log: cfg.logger, metrics: cfg.metrics}),
	}
	if cfg.panicHandler != nil {
		dopts = append(dopts, dispatch.WithPanicHandler(cfg.panicHandler))
	}
	m.dispatcher = dispatch.NewSyncDispatcher(dopts...)

	return m
}

// ProcessEvent combines the queues of every registered name matching e's
// name and runs the result against e. The event is returned even when a
// listener fails, with whatever changes the listeners made.
func (m *Manager) ProcessEvent(ctx context.Context, e *event.Event, cb event.Callback) (*event.Event, error) {
	if e == nil {
		return nil, event.NewError(event.ErrInvalidArgument, message.InvalidEventName, "<nil>")
	}
	return m.RunEventQueue(ctx, e, matchQueue(m.matcher, e.Name(), m), cb)
}

// RunEventQueue runs q against e. See dispatch.SyncDispatcher.RunQueue for
// the loop's rules.
func (m *Manager) RunEventQueue(ctx context.Context, e *event.Event, q *queue.Queue, cb event.Callback) (*event.Event, error) {
	if err := m.dispatcher.RunQueue(ctx, e, q, cb); err != nil {
		return e, err
	}
	return e, nil
}

// AttachListener binds l.
//
// If l is an event.Handler it is inserted under name at priority; name is
// required. Otherwise l must be a listener: its declarations, restricted to
// name when name is not empty, are resolved with priority as the default and
// inserted under their own names. Nothing is inserted unless every
// declaration is valid.
func (m *Manager) AttachListener(l any, name string, priority int) error {
	name = topic.Normalize(name)
	p := event.Priority(priority)

	if h, ok := l.(event.Handler); ok && h != nil {
		if name == "" {
			return event.NewError(event.ErrInvalidArgument, message.InvalidEventName, name)
		}
		if err := event.CheckPriority(p); err != nil {
			return err
		}
		m.insert(name, h, p)
		return nil
	}

	ref, err := listener.Resolve(l)
	if err != nil {
		return err
	}
	bound, err := m.normalizer.Bind(ref, name, p)
	if err != nil {
		return err
	}
	for _, b := range bound {
		m.insert(b.Event, b.Handler, b.Priority)
	}
	return nil
}

// DetachListener removes l.
//
// A nil l clears the queue for name, or every queue when name is empty.
// An event.Handler is removed from name, or from every queue when name is
// empty. A listener's declarations, restricted to name when given, are
// removed from the queues they name. Queues left empty are deleted.
func (m *Manager) DetachListener(l any, name string) error {
	name = topic.Normalize(name)

	if l == nil {
		if name == "" {
			m.queues = make(map[string]*queue.Queue)
			return nil
		}
		return m.ClearEventQueue(name)
	}

	if h, ok := l.(event.Handler); ok {
		if name != "" {
			m.remove(name, h)
			return nil
		}
		for _, n := range m.EventNames() {
			m.remove(n, h)
		}
		return nil
	}

	ref, err := listener.Resolve(l)
	if err != nil {
		return err
	}
	bound, err := m.normalizer.Bind(ref, name, event.PriorityDefault)
	if err != nil {
		return err
	}
	for _, b := range bound {
		m.remove(b.Event, b.Handler)
	}
	return nil
}

// HasEventQueue reports whether name has at least one handler. A blank
// name is logged and reported as absent.
func (m *Manager) HasEventQueue(name string) bool {
	if !topic.IsValid(name) {
		m.log.Warn().Str("event", name).Msg(message.Text(message.InvalidEventName, name))
		return false
	}
	q, ok := m.queues[topic.Normalize(name)]
	return ok && q.Count() > 0
}

// GetEventQueue returns the live queue for name, or an event.ErrNotFound
// error.
func (m *Manager) GetEventQueue(name string) (*queue.Queue, error) {
	name = topic.Normalize(name)
	if !m.HasEventQueue(name) {
		return nil, event.NewError(event.ErrNotFound, message.QueueNotFound, name)
	}
	return m.queues[name], nil
}

// ClearEventQueue removes name's queue. Clearing a missing name is a no-op.
func (m *Manager) ClearEventQueue(name string) error {
	delete(m.queues, topic.Normalize(name))
	return nil
}

// EventNames lists every registered name, sorted.
func (m *Manager) EventNames() []string {
	names := make([]string, 0, len(m.queues))
	for n := range m.queues {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) insert(name string, h event.Handler, p event.Priority) {
	q, ok := m.queues[name]
	if !ok {
		q = queue.New()
		m.queues[name] = q
	}
	// priorities were validated by the caller
	_ = q.Insert(h, p)
}

func (m *Manager) remove(name string, h event.Handler) {
	q, ok := m.queues[name]
	if !ok {
		return
	}
	q.Remove(h)
	if q.Count() == 0 {
		delete(m.queues, name)
	}
}

// matchQueue combines the queues of every name in em matching eventName.
func matchQueue(mt *topic.Matcher, eventName string, em EventManager) *queue.Queue {
	q := queue.New()
	for _, n := range mt.Match(eventName, em.EventNames()) {
		if nq, err := em.GetEventQueue(n); err == nil {
			q = q.Combine(nq)
		}
	}
	return q
}
