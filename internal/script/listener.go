// Package script implements event listeners written in Lua.
//
// A script declares its events by defining events_listening, which returns
// a table in the same shape as listener.Declarations, and implements each
// named method as a global function taking the event:
//
//	function events_listening()
//	    return {
//	        ["user.login"] = { "audit", 80 },
//	        ["user.*"]     = { { "count", 60 }, "greet" },
//	    }
//	end
//
//	function audit(e)
//	    e:set("audited", true)
//	    return "audited " .. e:name()
//	end
//
// A function returning false stops propagation, as does calling e:stop().
// Returning nil and a message, or raising a Lua error, fails the dispatch.
//
// Scripts run sandboxed: only the base, table, string and math libraries
// are available and nothing can be loaded from disk.
package script

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/eventmgr/internal/event"
	"github.com/dshills/eventmgr/internal/event/listener"
)

// DeclarationsFunc is the global every script must define.
const DeclarationsFunc = "events_listening"

// Listener is a Lua script acting as an event listener. It implements
// listener.Listener and listener.Invoker.
type Listener struct {
	name  string
	state *State
}

// Load runs the script at path and returns it as a listener.
func Load(path string, opts ...StateOption) (*Listener, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	state := NewState(opts...)
	if err := state.DoFile(path); err != nil {
		_ = state.Close()
		return nil, err
	}
	return newListener(filepath.Base(path), state)
}

// LoadString runs code and returns it as a listener named name.
func LoadString(name, code string, opts ...StateOption) (*Listener, error) {
	state := NewState(opts...)
	if err := state.DoString(code); err != nil {
		_ = state.Close()
		return nil, err
	}
	return newListener(name, state)
}

func newListener(name string, state *State) (*Listener, error) {
	l := &Listener{name: name, state: state}
	if _, err := l.Declarations(context.Background()); err != nil {
		_ = state.Close()
		return nil, err
	}
	return l, nil
}

// Name returns the script name.
func (l *Listener) Name() string {
	return l.name
}

// Declarations calls events_listening.
func (l *Listener) Declarations(ctx context.Context) (listener.Declarations, error) {
	ret, err := l.state.Call(ctx, DeclarationsFunc, nil)
	if err != nil {
		return nil, err
	}
	if len(ret) == 0 {
		return nil, ErrBadDeclarations
	}

	switch v := ToGoValue(ret[0]).(type) {
	case map[string]any:
		return listener.Declarations(v), nil
	case nil:
		return listener.Declarations{}, nil
	default:
		return nil, ErrBadDeclarations
	}
}

// EventsListening returns the script's declarations. They were validated
// when the script loaded; a failure now yields no declarations.
func (l *Listener) EventsListening() listener.Declarations {
	decls, err := l.Declarations(context.Background())
	if err != nil {
		return listener.Declarations{}
	}
	return decls
}

// CanInvoke reports whether method is a global function of the script.
func (l *Listener) CanInvoke(method string) bool {
	return method != DeclarationsFunc && l.state.HasFunc(method)
}

// Invoke calls method with e.
func (l *Listener) Invoke(ctx context.Context, method string, e *event.Event) (any, error) {
	ret, err := l.state.Call(ctx, method, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{newEvent(L, e)}
	})
	if err != nil {
		return nil, err
	}

	switch {
	case len(ret) == 0:
		return nil, nil
	case len(ret) >= 2 && ret[0] == lua.LNil && ret[1] != lua.LNil:
		return nil, errors.New(lua.LVAsString(ret[1]))
	default:
		return ToGoValue(ret[0]), nil
	}
}

// Close releases the Lua state.
func (l *Listener) Close() error {
	return l.state.Close()
}
