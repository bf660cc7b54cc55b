package event

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/eventmgr/internal/event/message"
)

// Event is a named, mutable carrier passed through a dispatch.
//
// Listeners share the same *Event during one dispatch and may change its
// properties, append results, or stop propagation. An Event is not safe for
// concurrent use.
type Event struct {
	id         string
	name       string
	context    any
	properties map[string]any
	results    []Result
	stopped    bool
}

// Result is a single listener return value, optionally keyed by an id.
type Result struct {
	// ID is empty for unkeyed results.
	ID string

	// Value is whatever the listener returned.
	Value any
}

// New creates an event. The name is trimmed and must not be blank.
// ctx identifies who raised the event and is never interpreted.
func New(name string, ctx any, props map[string]any) (*Event, error) {
	e := &Event{
		id:         uuid.NewString(),
		context:    ctx,
		properties: make(map[string]any, len(props)),
	}
	if err := e.SetName(name); err != nil {
		return nil, err
	}
	for k, v := range props {
		e.properties[k] = v
	}
	return e, nil
}

// MustNew is like New but panics on a blank name.
func MustNew(name string, ctx any, props map[string]any) *Event {
	e, err := New(name, ctx, props)
	if err != nil {
		panic(err)
	}
	return e
}

// ID returns the unique id assigned at construction.
func (e *Event) ID() string {
	return e.id
}

// Name returns the event name.
func (e *Event) Name() string {
	return e.name
}

// SetName renames the event.
func (e *Event) SetName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return NewError(ErrInvalidArgument, message.InvalidEventName, name)
	}
	e.name = trimmed
	return nil
}

// Context returns whoever raised the event.
func (e *Event) Context() any {
	return e.context
}

// SetContext replaces the event context.
func (e *Event) SetContext(ctx any) {
	e.context = ctx
}

// HasProperty reports whether the property is set.
func (e *Event) HasProperty(name string) bool {
	_, ok := e.properties[name]
	return ok
}

// Property returns a property value or a NotFound error.
func (e *Event) Property(name string) (any, error) {
	v, ok := e.properties[name]
	if !ok {
		return nil, NewError(ErrNotFound, message.PropertyNotFound, e.name, name)
	}
	return v, nil
}

// SetProperty sets a single property.
func (e *Event) SetProperty(name string, value any) {
	e.properties[name] = value
}

// Properties returns a copy of all properties.
func (e *Event) Properties() map[string]any {
	out := make(map[string]any, len(e.properties))
	for k, v := range e.properties {
		out[k] = v
	}
	return out
}

// SetProperties replaces all properties, or merges them into the existing
// set when merge is true.
func (e *Event) SetProperties(props map[string]any, merge bool) {
	if !merge {
		e.properties = make(map[string]any, len(props))
	}
	for k, v := range props {
		e.properties[k] = v
	}
}

// AddResult appends a listener result. id may be empty.
func (e *Event) AddResult(value any, id string) {
	e.results = append(e.results, Result{ID: id, Value: value})
}

// Results returns result values in invocation order.
func (e *Event) Results() []any {
	out := make([]any, len(e.results))
	for i, r := range e.results {
		out[i] = r.Value
	}
	return out
}

// Result returns the most recent result stored under id.
func (e *Event) Result(id string) (any, bool) {
	for i := len(e.results) - 1; i >= 0; i-- {
		if e.results[i].ID == id && id != "" {
			return e.results[i].Value, true
		}
	}
	return nil, false
}

// StopPropagation marks the event stopped. There is no way to undo it.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// IsPropagationStopped reports whether the event was stopped.
func (e *Event) IsPropagationStopped() bool {
	return e.stopped
}
