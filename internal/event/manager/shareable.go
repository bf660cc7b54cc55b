package manager

import (
	"reflect"
	"sort"
	"sync"
)

// Shareable is a Manager meant to be published through a SharedRegistry.
// Ordinary instances can still be created with NewShareable.
type Shareable struct {
	*Manager
}

// NewShareable creates a shareable manager with the given options.
func NewShareable(opts ...Option) *Shareable {
	return &Shareable{Manager: New(opts...)}
}

// IsShared reports whether s is the canonical *Shareable in r.
func (s *Shareable) IsShared(r *SharedRegistry) bool {
	return r.IsShared(kindOf[*Shareable](), s)
}

// SharedRegistry holds one canonical manager per kind. It replaces
// process-wide singletons: whoever builds the program owns the registry and
// passes it down.
type SharedRegistry struct {
	mu    sync.Mutex
	slots map[string]EventManager
}

// NewSharedRegistry creates an empty registry.
func NewSharedRegistry() *SharedRegistry {
	return &SharedRegistry{slots: make(map[string]EventManager)}
}

// Shared returns the manager registered for kind, creating it with factory
// on first use.
func (r *SharedRegistry) Shared(kind string, factory func() EventManager) EventManager {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.slots[kind]; ok {
		return m
	}
	m := factory()
	r.slots[kind] = m
	return m
}

// SetShared replaces the manager registered for kind. A nil m empties the
// slot.
func (r *SharedRegistry) SetShared(kind string, m EventManager) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m == nil {
		delete(r.slots, kind)
		return
	}
	r.slots[kind] = m
}

// IsShared reports whether m is the manager registered for kind.
func (r *SharedRegistry) IsShared(kind string, m EventManager) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.slots[kind]
	return ok && cur == m
}

// Kinds lists the occupied slots, sorted.
func (r *SharedRegistry) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := make([]string, 0, len(r.slots))
	for k := range r.slots {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// SharedOf returns the canonical T in r, keyed by T's type, creating it
// with factory on first use. It panics if the slot was filled through
// SetShared with a manager of another type.
func SharedOf[T EventManager](r *SharedRegistry, factory func() T) T {
	m := r.Shared(kindOf[T](), func() EventManager { return factory() })
	return m.(T)
}

func kindOf[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
