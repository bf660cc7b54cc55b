package script

import (
	"context"
	"errors"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"
)

func TestNewState(t *testing.T) {
	s := NewState()
	defer s.Close()

	if s.L == nil {
		t.Fatal("NewState() has nil LState")
	}
	if s.executionTimeout != DefaultExecutionTimeout {
		t.Errorf("executionTimeout = %v, want %v", s.executionTimeout, DefaultExecutionTimeout)
	}
}

func TestStateWithOptions(t *testing.T) {
	s := NewState(WithExecutionTimeout(time.Second))
	defer s.Close()

	if s.executionTimeout != time.Second {
		t.Errorf("executionTimeout = %v, want 1s", s.executionTimeout)
	}
}

func TestStateDoStringSyntaxError(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString("this is not lua"); err == nil {
		t.Error("DoString() should fail on a syntax error")
	}
}

func TestStateCall(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`function add(a, b) return a + b end`); err != nil {
		t.Fatal(err)
	}

	ret, err := s.Call(context.Background(), "add", func(L *lua.LState) []lua.LValue {
		return []lua.LValue{lua.LNumber(2), lua.LNumber(3)}
	})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(ret) != 1 || ret[0] != lua.LNumber(5) {
		t.Errorf("Call() = %v, want [5]", ret)
	}
	if top := s.L.GetTop(); top != 0 {
		t.Errorf("stack not balanced, top = %d", top)
	}
}

func TestStateCallNoReturns(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`function noop() end`); err != nil {
		t.Fatal(err)
	}

	ret, err := s.Call(context.Background(), "noop", nil)
	if err != nil {
		t.Fatal(err)
	}
	if ret == nil || len(ret) != 0 {
		t.Errorf("Call() = %#v, want empty slice", ret)
	}
}

func TestStateCallNotFunction(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`value = 1`); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"value", "missing"} {
		if _, err := s.Call(context.Background(), name, nil); !errors.Is(err, ErrNotFunction) {
			t.Errorf("Call(%q) error = %v, want ErrNotFunction", name, err)
		}
	}
}

func TestStateCallCancelled(t *testing.T) {
	s := NewState(WithExecutionTimeout(0))
	defer s.Close()

	if err := s.DoString(`function spin() while true do end end`); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := s.Call(ctx, "spin", nil); err == nil {
		t.Error("Call() should stop when the context is done")
	}

	// The state stays usable after a cancelled call.
	if err := s.DoString(`function one() return 1 end`); err != nil {
		t.Fatal(err)
	}
	if ret, err := s.Call(context.Background(), "one", nil); err != nil || len(ret) != 1 {
		t.Errorf("Call() after cancel = %v, %v", ret, err)
	}
}

func TestStateHasFunc(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`function f() end; g = 1`); err != nil {
		t.Fatal(err)
	}
	if !s.HasFunc("f") {
		t.Error("HasFunc(f) = false")
	}
	if s.HasFunc("g") {
		t.Error("HasFunc(g) = true for a number")
	}
}

func TestStateClose(t *testing.T) {
	s := NewState()

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !s.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if err := s.DoString("x = 1"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() after close = %v", err)
	}
	if err := s.DoFile("x.lua"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoFile() after close = %v", err)
	}
	if _, err := s.Call(context.Background(), "f", nil); !errors.Is(err, ErrStateClosed) {
		t.Errorf("Call() after close = %v", err)
	}
	if s.HasFunc("print") {
		t.Error("HasFunc() after close = true")
	}
}

func TestStateDangerousFunctionsRemoved(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "os", "debug", "package"} {
		if v := s.L.GetGlobal(name); v != lua.LNil {
			t.Errorf("%s should be nil, got %s", name, v.Type())
		}
	}
	for _, name := range []string{"print", "pairs", "string", "table", "math"} {
		if v := s.L.GetGlobal(name); v == lua.LNil {
			t.Errorf("%s should be available", name)
		}
	}
}
