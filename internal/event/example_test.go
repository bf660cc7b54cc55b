package event_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/eventmgr/internal/event"
	"github.com/dshills/eventmgr/internal/event/listener"
	"github.com/dshills/eventmgr/internal/event/manager"
)

// Example_basicUsage demonstrates attaching a handler and processing an event.
func Example_basicUsage() {
	m := manager.New()

	greet := event.Func(func(ctx context.Context, e *event.Event) (any, error) {
		return "hello " + e.Context().(string), nil
	})
	if err := m.AttachListener(greet, "user.login", 50); err != nil {
		fmt.Printf("Attach failed: %v\n", err)
		return
	}

	e, err := m.ProcessEvent(context.Background(), event.MustNew("user.login", "ann", nil), nil)
	if err != nil {
		fmt.Printf("Process failed: %v\n", err)
		return
	}
	fmt.Println(e.Results()...)

	// Output: hello ann
}

// Example_wildcardQueues shows how glob queue names collect handlers.
func Example_wildcardQueues() {
	m := manager.New()

	for _, name := range []string{"user.*", "user.login", "order.*", "*"} {
		name := name
		h := event.Func(func(ctx context.Context, e *event.Event) (any, error) {
			return name, nil
		})
		_ = m.AttachListener(h, name, 50)
	}

	e, _ := m.ProcessEvent(context.Background(), event.MustNew("user.login", nil, nil), nil)
	fmt.Println(len(e.Results()), "handlers ran")

	// Output: 3 handlers ran
}

// Example_priorityHandling demonstrates ordering and stopping propagation.
func Example_priorityHandling() {
	m := manager.New()

	add := func(label string, ret any) event.Handler {
		return event.Func(func(ctx context.Context, e *event.Event) (any, error) {
			fmt.Println(label)
			return ret, nil
		})
	}

	_ = m.AttachListener(add("low", nil), "save", int(event.PriorityLow))
	_ = m.AttachListener(add("critical", nil), "save", int(event.PriorityCritical))
	_ = m.AttachListener(add("normal: veto", false), "save", int(event.PriorityNormal))

	e, _ := m.ProcessEvent(context.Background(), event.MustNew("save", nil, nil), nil)
	fmt.Println("stopped:", e.IsPropagationStopped())

	// Output:
	// critical
	// normal: veto
	// stopped: true
}

type auditor struct {
	seen int
}

func (a *auditor) EventsListening() listener.Declarations {
	return listener.Declarations{
		"user.*":     "Count",
		"user.login": listener.At("Check", 90),
	}
}

func (a *auditor) Count(e *event.Event) int {
	a.seen++
	return a.seen
}

func (a *auditor) Check(e *event.Event) error {
	if !e.HasProperty("user") {
		return errors.New("anonymous login")
	}
	return nil
}

// Example_listener shows a listener declaring its own events.
func Example_listener() {
	m := manager.New()
	a := &auditor{}
	_ = m.AttachListener(a, "", int(event.PriorityDefault))

	fmt.Println(m.EventNames())

	_, err := m.ProcessEvent(context.Background(), event.MustNew("user.login", nil, nil), nil)
	fmt.Println(errors.Is(err, event.ErrRuntime), errors.Unwrap(err))

	e, _ := m.ProcessEvent(context.Background(), event.MustNew("user.login", nil, map[string]any{"user": "ann"}), nil)
	fmt.Println(e.Results()...)

	// Output:
	// [user.* user.login]
	// true anonymous login
	// <nil> 1
}

// Example_callback demonstrates ending a dispatch from the caller's side.
func Example_callback() {
	m := manager.New()
	for i := 1; i <= 3; i++ {
		n := i
		_ = m.AttachListener(event.Func(func(ctx context.Context, e *event.Event) (any, error) {
			return n, nil
		}), "tick", 50)
	}

	firstTwo := func(e *event.Event, result any) bool {
		return len(e.Results()) < 2
	}

	e, _ := m.ProcessEvent(context.Background(), event.MustNew("tick", nil, nil), firstTwo)
	fmt.Println(e.Results()...)

	// Output: 1 2
}
