// Package listener turns listeners and their event declarations into
// concrete (handler, priority) bindings for the event manager.
package listener

import (
	"context"
	"fmt"
	"reflect"

	"github.com/dshills/eventmgr/internal/event"
	"github.com/dshills/eventmgr/internal/event/message"
)

// Declarations maps an event name or pattern to what should run for it.
//
// Accepted values:
//
//	"method"                            method at the default priority
//	Binding{Method: "m", Priority: 20}  method at priority 20, always explicit
//	[]Binding{...}                      several bindings
//	event.Handler                       handler at the default priority
//	[]any{"m", 20}                      untyped (method, priority) pair
//	[]any{[]any{"a", 70}, "b"}          untyped list of declarations
//	map[string]any{"method": "m", "priority": 20}
//
// Untyped forms are what YAML, TOML and Lua decoders produce. A two element
// list whose second element is an integer is a pair; any other list is a
// list of declarations.
type Declarations map[string]any

// Binding names a method, or carries a handler, with an explicit priority.
// Priority is always used as given: the zero value is PriorityMin, not the
// default. Declare a bare method name or handler to get the default.
type Binding struct {
	Method   string
	Handler  event.Handler
	Priority event.Priority
}

// At is shorthand for Binding{Method: method, Priority: p}.
func At(method string, p event.Priority) Binding {
	return Binding{Method: method, Priority: p}
}

// Listener declares its events from instance state.
type Listener interface {
	EventsListening() Declarations
}

// StaticListener declares its events at type level. Methods bound from a
// static listener belong to its type, not to the value used to attach it:
// two values of the same type produce identical handlers.
type StaticListener interface {
	EventsListeningStatically() Declarations
}

// Invoker is implemented by listeners that resolve method names at run time
// instead of through Go methods.
type Invoker interface {
	CanInvoke(method string) bool
	Invoke(ctx context.Context, method string, e *event.Event) (any, error)
}

// Kind tells the two listener variants apart.
type Kind int

const (
	// KindInstance is a Listener.
	KindInstance Kind = iota + 1

	// KindStatic is a StaticListener.
	KindStatic
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindInstance:
		return "instance"
	case KindStatic:
		return "static"
	default:
		return "unknown"
	}
}

// Ref is a resolved listener.
type Ref struct {
	Kind  Kind
	Value any
}

// IsListener reports whether x is a Listener or a StaticListener.
func IsListener(x any) bool {
	_, err := Resolve(x)
	return err == nil
}

// Resolve classifies x. A value implementing both interfaces is treated as
// an instance listener. Instance listeners must be detachable: a value whose
// type can not be compared, such as a struct holding a slice, is rejected;
// attach a pointer to it instead.
func Resolve(x any) (Ref, error) {
	switch l := x.(type) {
	case Listener:
		if !isNil(l) {
			if _, ok := identity(x); !ok {
				break
			}
			return Ref{Kind: KindInstance, Value: x}, nil
		}
	case StaticListener:
		if !isNil(l) {
			return Ref{Kind: KindStatic, Value: x}, nil
		}
	}
	return Ref{}, event.NewError(event.ErrInvalidArgument, message.InvalidEventListener, describe(x))
}

// Declarations reads the listener's declarations. They are read fresh on
// every call.
func (r Ref) Declarations() Declarations {
	switch r.Kind {
	case KindInstance:
		return r.Value.(Listener).EventsListening()
	case KindStatic:
		return r.Value.(StaticListener).EventsListeningStatically()
	default:
		return nil
	}
}

// Events returns x's declarations, restricted to the single key filter
// when filter is not empty.
func Events(x any, filter string) (Declarations, error) {
	ref, err := Resolve(x)
	if err != nil {
		return nil, err
	}
	return ref.Events(filter), nil
}

// Events is Events for an already resolved listener.
func (r Ref) Events(filter string) Declarations {
	all := r.Declarations()
	if filter == "" {
		return all
	}
	out := make(Declarations, 1)
	if v, ok := all[filter]; ok {
		out[filter] = v
	}
	return out
}

// describe names a value's type for error messages.
func describe(x any) string {
	if x == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", x)
}

// isNil reports whether x is a nil pointer, map, slice, func or interface.
func isNil(x any) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
