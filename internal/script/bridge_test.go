package script

import (
	"reflect"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestToGoValue(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	tests := []struct {
		name     string
		input    lua.LValue
		expected any
	}{
		{"nil", lua.LNil, nil},
		{"true", lua.LTrue, true},
		{"false", lua.LFalse, false},
		{"integer", lua.LNumber(42), int64(42)},
		{"float", lua.LNumber(3.14), 3.14},
		{"string", lua.LString("hello"), "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToGoValue(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("ToGoValue(%v) = %v (%T), want %v (%T)",
					tt.input, result, result, tt.expected, tt.expected)
			}
		})
	}
}

func TestToGoValueTable(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	t.Run("array", func(t *testing.T) {
		tbl := L.NewTable()
		tbl.RawSetInt(1, lua.LString("a"))
		tbl.RawSetInt(2, lua.LNumber(80))

		result, ok := ToGoValue(tbl).([]any)
		if !ok {
			t.Fatalf("Expected []any, got %T", ToGoValue(tbl))
		}
		if !reflect.DeepEqual(result, []any{"a", int64(80)}) {
			t.Errorf("Array = %v", result)
		}
	})

	t.Run("map", func(t *testing.T) {
		tbl := L.NewTable()
		tbl.RawSetString("user.login", lua.LString("audit"))

		result, ok := ToGoValue(tbl).(map[string]any)
		if !ok {
			t.Fatalf("Expected map[string]any, got %T", ToGoValue(tbl))
		}
		if result["user.login"] != "audit" {
			t.Errorf("Map = %v", result)
		}
	})

	t.Run("empty", func(t *testing.T) {
		result, ok := ToGoValue(L.NewTable()).(map[string]any)
		if !ok || len(result) != 0 {
			t.Errorf("empty table = %#v, want empty map", result)
		}
	})

	t.Run("cycle", func(t *testing.T) {
		tbl := L.NewTable()
		tbl.RawSetString("self", tbl)

		result, ok := ToGoValue(tbl).(map[string]any)
		if !ok {
			t.Fatal("expected map")
		}
		if result["self"] != nil {
			t.Errorf("cycle should convert to nil, got %v", result["self"])
		}
	})

	t.Run("shared", func(t *testing.T) {
		inner := L.NewTable()
		inner.RawSetInt(1, lua.LString("audit"))
		inner.RawSetInt(2, lua.LNumber(80))
		tbl := L.NewTable()
		tbl.RawSetString("a", inner)
		tbl.RawSetString("c", inner)

		result, ok := ToGoValue(tbl).(map[string]any)
		if !ok {
			t.Fatal("expected map")
		}
		want := []any{"audit", int64(80)}
		if !reflect.DeepEqual(result["a"], want) || !reflect.DeepEqual(result["c"], want) {
			t.Errorf("shared table = %v, want both keys %v", result, want)
		}
	})
}

func TestToLuaValue(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	tests := []struct {
		name     string
		input    any
		expected lua.LValue
	}{
		{"nil", nil, lua.LNil},
		{"bool", true, lua.LTrue},
		{"int", 7, lua.LNumber(7)},
		{"int64", int64(-3), lua.LNumber(-3)},
		{"uint8", uint8(9), lua.LNumber(9)},
		{"float", 1.5, lua.LNumber(1.5)},
		{"string", "x", lua.LString("x")},
		{"bytes", []byte("raw"), lua.LString("raw")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToLuaValue(L, tt.input); got != tt.expected {
				t.Errorf("ToLuaValue(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestToLuaValueStruct(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	type user struct {
		Name   string `json:"name"`
		Age    int
		hidden string
	}

	tbl, ok := ToLuaValue(L, &user{Name: "ann", Age: 30, hidden: "h"}).(*lua.LTable)
	if !ok {
		t.Fatal("expected table")
	}
	if got := tbl.RawGetString("name"); got != lua.LString("ann") {
		t.Errorf("name = %v", got)
	}
	if got := tbl.RawGetString("Age"); got != lua.LNumber(30) {
		t.Errorf("Age = %v", got)
	}
	if got := tbl.RawGetString("hidden"); got != lua.LNil {
		t.Errorf("unexported field leaked: %v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	in := map[string]any{
		"name":  "deploy",
		"count": int64(3),
		"tags":  []any{"a", "b"},
		"meta":  map[string]any{"ok": true},
	}

	out := ToGoValue(ToLuaValue(L, in))
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip = %#v, want %#v", out, in)
	}
}
