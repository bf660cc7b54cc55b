package event

import (
	"context"

	"github.com/dshills/eventmgr/internal/event/message"
)

// Priority determines handler execution order.
// Higher values execute first.
type Priority int

const (
	// PriorityMin is the lowest accepted priority.
	PriorityMin Priority = 0

	// PriorityLow is for metrics, logging handlers that run last.
	PriorityLow Priority = 25

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 50

	// PriorityHigh is for handlers other listeners depend on.
	PriorityHigh Priority = 75

	// PriorityCritical is for handlers that must run first.
	PriorityCritical Priority = 100

	// PriorityMax is the highest accepted priority.
	PriorityMax Priority = PriorityCritical

	// PriorityDefault is used when a binding does not name a priority.
	PriorityDefault = PriorityNormal
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p >= PriorityCritical:
		return "critical"
	case p >= PriorityHigh:
		return "high"
	case p >= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Valid reports whether p is inside [PriorityMin, PriorityMax].
func (p Priority) Valid() bool {
	return p >= PriorityMin && p <= PriorityMax
}

// CheckPriority returns an InvalidArgument error for out-of-range priorities.
func CheckPriority(p Priority) error {
	if !p.Valid() {
		return NewError(ErrInvalidArgument, message.InvalidPriority, int(p), int(PriorityMin), int(PriorityMax))
	}
	return nil
}

// Handler is the interface for event listeners' callables.
//
// The returned value is appended to the event's results. Returning exactly
// false stops propagation. A non-nil error aborts the dispatch.
type Handler interface {
	Handle(ctx context.Context, e *Event) (any, error)
}

// HandlerFunc is the function shape wrapped by Func.
type HandlerFunc func(ctx context.Context, e *Event) (any, error)

// funcHandler gives a HandlerFunc pointer identity.
type funcHandler struct {
	fn HandlerFunc
}

func (f *funcHandler) Handle(ctx context.Context, e *Event) (any, error) {
	return f.fn(ctx, e)
}

// Func wraps fn in a Handler with its own identity. Two calls with the same
// closure produce distinct handlers; keep the returned value to detach it.
func Func(fn HandlerFunc) Handler {
	return &funcHandler{fn: fn}
}

// Callback is consulted after every listener that did not stop the event.
// Returning exactly false ends the dispatch.
type Callback func(e *Event, result any) bool

// Keyed is implemented by handlers whose identity is a key rather than the
// handler value itself. HandlerKey must return a comparable value.
type Keyed interface {
	HandlerKey() any
}

// Same reports whether a and b are the same handler. Keyed handlers are
// compared by key. Other handlers whose dynamic type is not comparable are
// never the same as anything.
func Same(a, b Handler) (same bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	if ka, ok := a.(Keyed); ok {
		kb, ok := b.(Keyed)
		return ok && ka.HandlerKey() == kb.HandlerKey()
	}
	return a == b
}

// IsFalse reports whether v is exactly the boolean false.
func IsFalse(v any) bool {
	b, ok := v.(bool)
	return ok && !b
}
