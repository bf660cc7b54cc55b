package aware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/eventmgr/internal/event"
	"github.com/dshills/eventmgr/internal/event/manager"
)

type cart struct {
	Emitter
}

func TestEmitter_NoManager(t *testing.T) {
	c := &cart{}
	c.SetOwner(c)

	_, err := c.TriggerEvent(context.Background(), "cart.checkout", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, event.ErrNotFound))
	assert.Contains(t, err.Error(), "*aware.cart")
}

func TestEmitter_Trigger(t *testing.T) {
	m := manager.New()
	var seenCtx any
	require.NoError(t, m.AttachListener(event.Func(func(ctx context.Context, e *event.Event) (any, error) {
		seenCtx = e.Context()
		total, err := e.Property("total")
		if err != nil {
			return nil, err
		}
		return total.(int) * 2, nil
	}), "cart.*", 50))

	c := &cart{}
	c.SetOwner(c)
	c.SetEventManager(m, nil)

	e, err := c.TriggerEvent(context.Background(), "cart.checkout", map[string]any{"total": 21})
	require.NoError(t, err)
	assert.Equal(t, []any{42}, e.Results())
	assert.Same(t, c, seenCtx)
	assert.Equal(t, m, c.EventManager())
}

func TestEmitter_DefaultOwnerIsEmitter(t *testing.T) {
	m := manager.New()
	var seenCtx any
	require.NoError(t, m.AttachListener(event.Func(func(ctx context.Context, e *event.Event) (any, error) {
		seenCtx = e.Context()
		return nil, nil
	}), "x", 50))

	var em Emitter
	em.SetEventManager(m, nil)
	_, err := em.TriggerEvent(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Same(t, &em, seenCtx)
}

func TestEmitter_Factory(t *testing.T) {
	m := manager.New()
	var calls int
	factory := func(name string, ctx any, props map[string]any) (*event.Event, error) {
		calls++
		e, err := event.New("prefixed."+name, ctx, props)
		if err != nil {
			return nil, err
		}
		e.SetProperty("factory", true)
		return e, nil
	}

	var em Emitter
	em.SetEventManager(m, factory)
	e, err := em.TriggerEvent(context.Background(), "evt", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "prefixed.evt", e.Name())
	assert.True(t, e.HasProperty("factory"))
}

func TestEmitter_BadName(t *testing.T) {
	var em Emitter
	em.SetEventManager(manager.New(), nil)

	_, err := em.TriggerEvent(context.Background(), "   ", nil)
	assert.True(t, errors.Is(err, event.ErrInvalidArgument))
}

func TestEmitter_ListenerFailure(t *testing.T) {
	m := manager.New()
	require.NoError(t, m.AttachListener(event.Func(func(ctx context.Context, e *event.Event) (any, error) {
		e.SetProperty("touched", true)
		return nil, errors.New("nope")
	}), "evt", 50))

	var em Emitter
	em.SetEventManager(m, nil)
	e, err := em.TriggerEvent(context.Background(), "evt", nil)
	assert.True(t, errors.Is(err, event.ErrRuntime))
	require.NotNil(t, e)
	assert.True(t, e.HasProperty("touched"))
}

func TestEmitter_ReadOnlyManager(t *testing.T) {
	m := manager.New()
	require.NoError(t, m.AttachListener(event.Func(func(ctx context.Context, e *event.Event) (any, error) {
		return "ro", nil
	}), "evt", 50))

	var em Emitter
	em.SetEventManager(manager.NewImmutable(m), nil)
	e, err := em.TriggerEvent(context.Background(), "evt", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"ro"}, e.Results())
}
