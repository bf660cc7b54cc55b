// Package aware lets any type raise events through a manager it is given.
//
// Embed an Emitter and hand it a manager:
//
//	type Cart struct {
//	    aware.Emitter
//	}
//
//	c := &Cart{}
//	c.SetOwner(c)
//	c.SetEventManager(m, nil)
//	e, err := c.TriggerEvent(ctx, "cart.checkout", map[string]any{"total": 42})
package aware

import (
	"context"
	"fmt"

	"github.com/dshills/eventmgr/internal/event"
	"github.com/dshills/eventmgr/internal/event/message"
)

// Processor is the part of a manager an Emitter needs.
type Processor interface {
	ProcessEvent(ctx context.Context, e *event.Event, cb event.Callback) (*event.Event, error)
}

// Factory builds the event for a trigger. ctx is the emitter's owner.
type Factory func(name string, ctx any, props map[string]any) (*event.Event, error)

// Emitter raises events on behalf of its owner. The zero value has no
// manager and fails every trigger with event.ErrNotFound.
type Emitter struct {
	manager Processor
	factory Factory
	owner   any
}

// SetEventManager sets the manager and the event factory. A nil factory
// means event.New.
func (em *Emitter) SetEventManager(m Processor, f Factory) {
	em.manager = m
	em.factory = f
}

// EventManager returns the manager, or nil.
func (em *Emitter) EventManager() Processor {
	return em.manager
}

// SetOwner sets the value passed as every event's context. Without an
// owner the Emitter itself is used.
func (em *Emitter) SetOwner(owner any) {
	em.owner = owner
}

// TriggerEvent builds an event named name with props and dispatches it.
// The event is returned even when a listener fails.
func (em *Emitter) TriggerEvent(ctx context.Context, name string, props map[string]any) (*event.Event, error) {
	owner := em.ownerOrSelf()
	if em.manager == nil {
		return nil, event.NewError(event.ErrNotFound, message.ManagerNotFound, fmt.Sprintf("%T", owner))
	}

	factory := em.factory
	if factory == nil {
		factory = event.New
	}
	e, err := factory(name, owner, props)
	if err != nil {
		return nil, err
	}
	return em.manager.ProcessEvent(ctx, e, nil)
}

func (em *Emitter) ownerOrSelf() any {
	if em.owner != nil {
		return em.owner
	}
	return em
}
