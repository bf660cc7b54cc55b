package manager

import (
	"context"
	"fmt"

	"github.com/dshills/eventmgr/internal/event"
	"github.com/dshills/eventmgr/internal/event/message"
)

// Composite is a Manager that also dispatches to the listeners of a named
// pool of peer managers.
//
// Peers are consulted one level deep: a peer's own peers are never
// reached, and a Composite can not be a peer.
type Composite struct {
	*Manager

	peers []peer
}

type peer struct {
	name    string
	manager EventManager
}

// NewComposite creates a composite manager with the given options.
func NewComposite(opts ...Option) *Composite {
	return &Composite{Manager: New(opts...)}
}

// SetOtherManager adds m to the pool under name, replacing any manager
// already registered there without changing its position.
func (c *Composite) SetOtherManager(name string, m EventManager) error {
	if m == nil || isComposite(m) {
		return event.NewError(event.ErrInvalidArgument, message.InvalidEventManager, fmt.Sprintf("%T", m))
	}
	for i := range c.peers {
		if c.peers[i].name == name {
			c.peers[i].manager = m
			return nil
		}
	}
	c.peers = append(c.peers, peer{name: name, manager: m})
	return nil
}

// UnsetOtherManager removes name from the pool.
func (c *Composite) UnsetOtherManager(name string) {
	for i := range c.peers {
		if c.peers[i].name == name {
			c.peers = append(c.peers[:i], c.peers[i+1:]...)
			return
		}
	}
}

// OtherManagers lists the pool's names in registration order.
func (c *Composite) OtherManagers() []string {
	names := make([]string, len(c.peers))
	for i, p := range c.peers {
		names[i] = p.name
	}
	return names
}

// OtherManager returns the peer registered under name.
func (c *Composite) OtherManager(name string) (EventManager, bool) {
	for _, p := range c.peers {
		if p.name == name {
			return p.manager, true
		}
	}
	return nil, false
}

// ProcessEvent merges the matching queues of the composite and of every
// peer, then runs them as one queue. Priority alone decides the order;
// among equal priorities local handlers run first, then peers in
// registration order.
func (c *Composite) ProcessEvent(ctx context.Context, e *event.Event, cb event.Callback) (*event.Event, error) {
	if e == nil {
		return nil, event.NewError(event.ErrInvalidArgument, message.InvalidEventName, "<nil>")
	}

	q := matchQueue(c.matcher, e.Name(), c.Manager)
	for _, p := range c.peers {
		pq := matchQueue(c.matcher, e.Name(), p.manager)
		if pq.Count() > 0 {
			q = q.Combine(pq)
		}
	}
	return c.RunEventQueue(ctx, e, q, cb)
}

// isComposite reports whether m is, or wraps, a Composite.
func isComposite(m EventManager) bool {
	switch v := m.(type) {
	case *Composite:
		return true
	case interface{ inner() EventManager }:
		return isComposite(v.inner())
	default:
		return false
	}
}
