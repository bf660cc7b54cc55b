package manager

import (
	"context"

	"github.com/dshills/eventmgr/internal/event"
	"github.com/dshills/eventmgr/internal/event/message"
	"github.com/dshills/eventmgr/internal/event/queue"
)

// Immutable hands out dispatch without registration. Reads go to the
// wrapped manager; every mutating method fails with event.ErrBadMethodCall.
type Immutable struct {
	m EventManager
}

// NewImmutable wraps m.
func NewImmutable(m EventManager) *Immutable {
	return &Immutable{m: m}
}

// ProcessEvent delegates to the wrapped manager.
func (im *Immutable) ProcessEvent(ctx context.Context, e *event.Event, cb event.Callback) (*event.Event, error) {
	return im.m.ProcessEvent(ctx, e, cb)
}

// AttachListener always fails.
func (im *Immutable) AttachListener(any, string, int) error {
	return blocked("AttachListener")
}

// DetachListener always fails.
func (im *Immutable) DetachListener(any, string) error {
	return blocked("DetachListener")
}

// ClearEventQueue always fails.
func (im *Immutable) ClearEventQueue(string) error {
	return blocked("ClearEventQueue")
}

// HasEventQueue delegates to the wrapped manager.
func (im *Immutable) HasEventQueue(name string) bool {
	return im.m.HasEventQueue(name)
}

// GetEventQueue returns a copy of the wrapped manager's queue so the
// caller can not change it.
func (im *Immutable) GetEventQueue(name string) (*queue.Queue, error) {
	q, err := im.m.GetEventQueue(name)
	if err != nil {
		return nil, err
	}
	return q.Clone(), nil
}

// EventNames delegates to the wrapped manager.
func (im *Immutable) EventNames() []string {
	return im.m.EventNames()
}

func (im *Immutable) inner() EventManager {
	return im.m
}

func blocked(method string) error {
	return event.NewError(event.ErrBadMethodCall, message.ImmutableMethod, method)
}
