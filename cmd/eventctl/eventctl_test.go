package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/eventmgr/internal/app"
	"github.com/dshills/eventmgr/internal/watcher"
)

const loginScript = `
function events_listening()
    return {
        ["user.login"] = { "audit", 80 },
        ["user.*"]     = "greet",
    }
end
function audit(e) e:set("audited", true) return "audit " .. e:get("user") end
function greet(e) return "hello" end
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	cmd := newRootCmd(&out, &logs)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFireCmd(t *testing.T) {
	script := writeFile(t, t.TempDir(), "login.lua", loginScript)

	out, err := executeCommand(t, "fire", "user.login", "-s", script, "--prop", "user=ann", "-p", "attempts=3")
	if err != nil {
		t.Fatalf("fire failed: %v", err)
	}

	var r report
	if err := yaml.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if r.Event != "user.login" || r.Stopped {
		t.Errorf("report = %+v", r)
	}
	if len(r.Results) != 2 || r.Results[0] != "audit ann" || r.Results[1] != "hello" {
		t.Errorf("results = %v", r.Results)
	}
	if r.Properties["attempts"] != 3 || r.Properties["audited"] != true {
		t.Errorf("properties = %v", r.Properties)
	}
}

func TestFireCmd_ListenerError(t *testing.T) {
	script := writeFile(t, t.TempDir(), "fail.lua", `
function events_listening() return { evt = { { "first", 90 }, { "fail", 10 } } } end
function first(e) return 1 end
function fail(e) error("broken") end
`)

	out, err := executeCommand(t, "fire", "evt", "-s", script)
	if err == nil {
		t.Fatal("expected the listener error")
	}
	if !strings.Contains(out, "broken") || !strings.Contains(out, "- 1") {
		t.Errorf("partial report missing:\n%s", out)
	}
}

func TestFireCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no event", []string{"fire"}},
		{"bad prop", []string{"fire", "evt", "--prop", "novalue"}},
		{"missing script", []string{"fire", "evt", "-s", "missing.lua"}},
		{"blank event", []string{"fire", " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := executeCommand(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNamesCmd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "login.lua", loginScript)
	writeFile(t, dir, "billing.lua", `
function events_listening() return { ["order.paid"] = "charge" } end
function charge(e) return true end
`)
	cfg := writeFile(t, dir, "eventctl.toml", `
scripts = ["login.lua"]

[[peers]]
name = "billing"
scripts = ["billing.lua"]
`)

	out, err := executeCommand(t, "names", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := "user.*\nuser.login\nbilling: order.paid\n"
	if out != want {
		t.Errorf("names output = %q, want %q", out, want)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "eventctl dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestWatchCmd_NoScripts(t *testing.T) {
	if _, err := executeCommand(t, "watch", "evt"); err != errNoListeners {
		t.Errorf("watch without scripts = %v, want errNoListeners", err)
	}
}

func TestParseProps(t *testing.T) {
	props, err := parseProps([]string{"n=3", "ok=true", "name=ann", "empty=", "list=[1, 2]", "pi=3.5"})
	if err != nil {
		t.Fatal(err)
	}
	if props["n"] != 3 || props["ok"] != true || props["name"] != "ann" || props["empty"] != "" || props["pi"] != 3.5 {
		t.Errorf("props = %#v", props)
	}
	if list, ok := props["list"].([]any); !ok || len(list) != 2 {
		t.Errorf("list = %#v", props["list"])
	}
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchLoop_ReloadsAndRefires(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "greet.lua", `
function events_listening() return { evt = "greet" } end
function greet(e) return "v1" end
`)

	a, err := app.New(app.Options{Scripts: []string{path}, LogOutput: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	w, err := watcher.New(watcher.WithDelay(20 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- watchLoop(ctx, a, w, "evt", nil, out) }()

	waitFor(t, out, "- v1")
	writeFile(t, dir, "greet.lua", `
function events_listening() return { evt = "greet" } end
function greet(e) return "v2" end
`)
	waitFor(t, out, "- v2")

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchLoop = %v", err)
	}
}

func waitFor(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("output never contained %q:\n%s", want, out.String())
}
