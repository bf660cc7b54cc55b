package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/eventmgr/internal/event"
)

const eventTypeName = "eventmgr.event"

// registerEventType installs the metatable shared by event userdata.
//
// Scripts see an event as an object with methods:
//
//	e:name()          event name
//	e:get(k)          property value, or nil
//	e:set(k, v)       set a property
//	e:has(k)          whether a property is set
//	e:stop()          stop propagation
//	e:stopped()       whether propagation is stopped
//	e:context()       the event context
//	e:results()       results so far
func registerEventType(L *lua.LState) {
	mt := L.NewTypeMetatable(eventTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"name":    eventName,
		"get":     eventGet,
		"set":     eventSet,
		"has":     eventHas,
		"stop":    eventStop,
		"stopped": eventStopped,
		"context": eventContext,
		"results": eventResults,
	}))
}

// newEvent wraps e for Lua.
func newEvent(L *lua.LState, e *event.Event) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = e
	L.SetMetatable(ud, L.GetTypeMetatable(eventTypeName))
	return ud
}

// checkEvent returns the event receiver of a method call.
func checkEvent(L *lua.LState) *event.Event {
	ud := L.CheckUserData(1)
	if e, ok := ud.Value.(*event.Event); ok {
		return e
	}
	L.ArgError(1, "event expected")
	return nil
}

func eventName(L *lua.LState) int {
	L.Push(lua.LString(checkEvent(L).Name()))
	return 1
}

func eventGet(L *lua.LState) int {
	e := checkEvent(L)
	v, err := e.Property(L.CheckString(2))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(ToLuaValue(L, v))
	return 1
}

func eventSet(L *lua.LState) int {
	e := checkEvent(L)
	e.SetProperty(L.CheckString(2), ToGoValue(L.Get(3)))
	return 0
}

func eventHas(L *lua.LState) int {
	L.Push(lua.LBool(checkEvent(L).HasProperty(L.CheckString(2))))
	return 1
}

func eventStop(L *lua.LState) int {
	checkEvent(L).StopPropagation()
	return 0
}

func eventStopped(L *lua.LState) int {
	L.Push(lua.LBool(checkEvent(L).IsPropagationStopped()))
	return 1
}

// eventContext converts plain values; anything else, usually the object
// that raised the event, is handed over as opaque userdata.
func eventContext(L *lua.LState) int {
	switch ctx := checkEvent(L).Context().(type) {
	case nil, bool, string, int, int64, float64, map[string]any, []any:
		L.Push(ToLuaValue(L, ctx))
	default:
		ud := L.NewUserData()
		ud.Value = ctx
		L.Push(ud)
	}
	return 1
}

func eventResults(L *lua.LState) int {
	L.Push(ToLuaValue(L, checkEvent(L).Results()))
	return 1
}
