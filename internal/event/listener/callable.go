package listener

import (
	"context"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/dshills/eventmgr/internal/event"
	"github.com/dshills/eventmgr/internal/event/message"
)

// Callable is one handler resolved from a declaration, with its priority.
type Callable struct {
	Handler  event.Handler
	Priority event.Priority
}

// Bound is a Callable together with the event name it was declared for.
type Bound struct {
	Event string
	Callable
}

// Normalizer resolves declarations into callables.
//
// The zero value is tolerant: a declaration that resolves to nothing
// invocable is dropped. With Strict set it is an ErrInvalidArgument error
// instead. Out-of-range priorities and blank event names are always errors.
type Normalizer struct {
	// Strict rejects unresolvable declarations.
	Strict bool

	// Dropped, if set, is called for every declaration dropped in tolerant mode.
	Dropped func(eventName string, decl any)
}

// MakeCallables resolves one declaration value with the tolerant Normalizer.
func MakeCallables(ref Ref, eventName string, value any, def event.Priority) ([]Callable, error) {
	return Normalizer{}.MakeCallables(ref, eventName, value, def)
}

// MakeCallables flattens value into callables. def is used where the
// declaration names no priority.
func (n Normalizer) MakeCallables(ref Ref, eventName string, value any, def event.Priority) ([]Callable, error) {
	return n.collect(ref, eventName, value, def, nil)
}

// Bind resolves every declaration of ref, or only the one keyed by filter.
// Nothing is returned unless every declaration resolves; callers can apply
// the result without partial failure. Results are ordered by event name.
func (n Normalizer) Bind(ref Ref, filter string, def event.Priority) ([]Bound, error) {
	decls := ref.Events(filter)

	names := make([]string, 0, len(decls))
	for name := range decls {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Bound
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, event.NewError(event.ErrInvalidArgument, message.InvalidEventName, name)
		}
		cs, err := n.collect(ref, trimmed, decls[name], def, nil)
		if err != nil {
			return nil, err
		}
		for _, c := range cs {
			out = append(out, Bound{Event: trimmed, Callable: c})
		}
	}
	return out, nil
}

func (n Normalizer) collect(ref Ref, name string, value any, p event.Priority, out []Callable) ([]Callable, error) {
	switch v := value.(type) {
	case string:
		return n.method(ref, name, v, p, out)

	case event.Handler:
		return n.handler(v, p, out)

	case Binding:
		if v.Handler != nil {
			return n.handler(v.Handler, v.Priority, out)
		}
		return n.method(ref, name, v.Method, v.Priority, out)

	case []Binding:
		var err error
		for _, b := range v {
			if out, err = n.collect(ref, name, b, p, out); err != nil {
				return nil, err
			}
		}
		return out, nil

	case []string:
		var err error
		for _, m := range v {
			if out, err = n.method(ref, name, m, p, out); err != nil {
				return nil, err
			}
		}
		return out, nil

	case []any:
		if len(v) == 2 {
			if pp, ok := priorityOf(v[1]); ok {
				return n.collect(ref, name, v[0], pp, out)
			}
		}
		var err error
		for _, sub := range v {
			if out, err = n.collect(ref, name, sub, p, out); err != nil {
				return nil, err
			}
		}
		return out, nil

	case map[string]any:
		if raw, ok := v["priority"]; ok {
			pp, ok := priorityOf(raw)
			if !ok {
				return n.drop(name, value, out)
			}
			p = pp
		}
		return n.collect(ref, name, v["method"], p, out)

	default:
		return n.drop(name, value, out)
	}
}

func (n Normalizer) method(ref Ref, name, method string, p event.Priority, out []Callable) ([]Callable, error) {
	h, ok := Method(ref, method)
	if !ok {
		return n.drop(name, method, out)
	}
	return n.handler(h, p, out)
}

func (n Normalizer) handler(h event.Handler, p event.Priority, out []Callable) ([]Callable, error) {
	if err := event.CheckPriority(p); err != nil {
		return nil, err
	}
	return append(out, Callable{Handler: h, Priority: p}), nil
}

func (n Normalizer) drop(name string, decl any, out []Callable) ([]Callable, error) {
	if n.Strict {
		return nil, event.NewError(event.ErrInvalidArgument, message.InvalidEventCallable, name)
	}
	if n.Dropped != nil {
		n.Dropped(name, decl)
	}
	return out, nil
}

// priorityOf accepts the integer shapes decoders produce.
func priorityOf(v any) (event.Priority, bool) {
	switch x := v.(type) {
	case event.Priority:
		return x, true
	case int:
		return event.Priority(x), true
	case int8:
		return event.Priority(x), true
	case int16:
		return event.Priority(x), true
	case int32:
		return event.Priority(x), true
	case int64:
		if x < math.MinInt32 || x > math.MaxInt32 {
			return event.Priority(math.MaxInt32), true
		}
		return event.Priority(x), true
	case uint:
		return clampUint(uint64(x)), true
	case uint8:
		return event.Priority(x), true
	case uint16:
		return event.Priority(x), true
	case uint32:
		return clampUint(uint64(x)), true
	case uint64:
		return clampUint(x), true
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, false
		}
		if x < math.MinInt32 || x > math.MaxInt32 {
			return event.Priority(math.MaxInt32), true
		}
		return event.Priority(x), true
	default:
		return 0, false
	}
}

// clampUint keeps huge values out of range rather than letting them wrap
// into it.
func clampUint(x uint64) event.Priority {
	if x > math.MaxInt32 {
		return event.Priority(math.MaxInt32)
	}
	return event.Priority(x)
}

// Method resolves a method name on ref into a handler. Instance methods are
// bound to ref.Value; static methods are bound to its dynamic type.
func Method(ref Ref, name string) (event.Handler, bool) {
	if name == "" {
		return nil, false
	}
	switch ref.Kind {
	case KindInstance:
		id, ok := identity(ref.Value)
		if !ok {
			return nil, false
		}
		if _, ok := adapt(reflect.ValueOf(ref.Value).MethodByName(name)); ok {
			return boundMethod{target: ref.Value, key: methodKey{id: id, name: name}}, true
		}
		if inv, ok := ref.Value.(Invoker); ok && inv.CanInvoke(name) {
			return boundMethod{target: ref.Value, key: methodKey{id: id, name: name}}, true
		}
	case KindStatic:
		t := reflect.TypeOf(ref.Value)
		if _, ok := adapt(receiver(t).MethodByName(name)); ok {
			return staticMethod{typ: t, name: name}, true
		}
	}
	return nil, false
}

// boundMethod calls a named method of one listener value. Two boundMethods
// are the same handler when their keys are equal.
type boundMethod struct {
	target any
	key    methodKey
}

// methodKey is a listener's identity plus a method name.
type methodKey struct {
	id   any
	name string
}

func (b boundMethod) HandlerKey() any {
	return b.key
}

func (b boundMethod) Handle(ctx context.Context, e *event.Event) (any, error) {
	if fn, ok := adapt(reflect.ValueOf(b.target).MethodByName(b.key.name)); ok {
		return fn(ctx, e)
	}
	if inv, ok := b.target.(Invoker); ok {
		return inv.Invoke(ctx, b.key.name, e)
	}
	return nil, event.NewError(event.ErrInvalidArgument, message.InvalidEventCallable, e.Name())
}

// refKey identifies a map, slice or func listener by the storage it refers to.
type refKey struct {
	typ reflect.Type
	ptr uintptr
	n   int
}

// identity returns a comparable stand-in for an instance listener. Values
// of comparable types stand for themselves; maps, slices and funcs are
// keyed by type and storage. Anything else has no identity.
func identity(x any) (any, bool) {
	t := reflect.TypeOf(x)
	if t == nil {
		return nil, false
	}
	if t.Comparable() {
		return x, true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Map, reflect.Func:
		return refKey{typ: t, ptr: v.Pointer()}, true
	case reflect.Slice:
		return refKey{typ: t, ptr: v.Pointer(), n: v.Len()}, true
	default:
		return nil, false
	}
}

// staticMethod calls a named method on a fresh receiver of typ.
type staticMethod struct {
	typ  reflect.Type
	name string
}

func (s staticMethod) Handle(ctx context.Context, e *event.Event) (any, error) {
	fn, ok := adapt(receiver(s.typ).MethodByName(s.name))
	if !ok {
		return nil, event.NewError(event.ErrInvalidArgument, message.InvalidEventCallable, e.Name())
	}
	return fn(ctx, e)
}

// receiver returns a value of t to call methods on: a new zeroed element
// for pointer types, the zero value otherwise.
func receiver(t reflect.Type) reflect.Value {
	if t.Kind() == reflect.Ptr {
		return reflect.New(t.Elem())
	}
	return reflect.Zero(t)
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	eventType   = reflect.TypeOf((**event.Event)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// adapt wraps a method value with one of the supported signatures:
//
//	func(*event.Event) [T | error | (T, error)]
//	func(context.Context, *event.Event) [T | error | (T, error)]
func adapt(m reflect.Value) (event.HandlerFunc, bool) {
	if !m.IsValid() {
		return nil, false
	}
	t := m.Type()
	if t.IsVariadic() {
		return nil, false
	}

	withCtx := false
	switch t.NumIn() {
	case 1:
		if t.In(0) != eventType {
			return nil, false
		}
	case 2:
		if t.In(0) != contextType || t.In(1) != eventType {
			return nil, false
		}
		withCtx = true
	default:
		return nil, false
	}

	switch t.NumOut() {
	case 0, 1:
	case 2:
		if t.Out(1) != errorType {
			return nil, false
		}
	default:
		return nil, false
	}

	return func(ctx context.Context, e *event.Event) (any, error) {
		args := []reflect.Value{reflect.ValueOf(e)}
		if withCtx {
			if ctx == nil {
				ctx = context.Background()
			}
			args = []reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(e)}
		}

		out := m.Call(args)
		switch len(out) {
		case 0:
			return nil, nil
		case 1:
			if t.Out(0) == errorType {
				err, _ := out[0].Interface().(error)
				return nil, err
			}
			return out[0].Interface(), nil
		default:
			err, _ := out[1].Interface().(error)
			return out[0].Interface(), err
		}
	}, true
}
