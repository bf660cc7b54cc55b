// Package queue provides the priority-ordered handler queue kept per event
// name by the event manager.
package queue

import (
	"sort"

	"github.com/dshills/eventmgr/internal/event"
)

// Entry is a handler with its priority.
type Entry struct {
	Handler  event.Handler
	Priority event.Priority
}

// Queue holds handlers for one event name. Iteration is highest priority
// first; equal priorities keep insertion order. A Queue is not safe for
// concurrent use.
type Queue struct {
	entries []Entry
	sorted  bool
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{sorted: true}
}

// Insert appends h at priority p. Priorities outside [0, 100] are rejected.
func (q *Queue) Insert(h event.Handler, p event.Priority) error {
	if err := event.CheckPriority(p); err != nil {
		return err
	}
	q.entries = append(q.entries, Entry{Handler: h, Priority: p})
	q.sorted = false
	return nil
}

// Remove drops the first entry, in iteration order, whose handler is h.
// Missing handlers are ignored.
func (q *Queue) Remove(h event.Handler) {
	q.sort()
	for i, e := range q.entries {
		if event.Same(e.Handler, h) {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}

// Has reports whether h is queued.
func (q *Queue) Has(h event.Handler) bool {
	for _, e := range q.entries {
		if event.Same(e.Handler, h) {
			return true
		}
	}
	return false
}

// Flush empties the queue.
func (q *Queue) Flush() {
	q.entries = nil
	q.sorted = true
}

// Count returns the number of entries.
func (q *Queue) Count() int {
	return len(q.entries)
}

// Combine returns a new queue holding the entries of q followed by those of
// other. Neither input is modified.
func (q *Queue) Combine(other *Queue) *Queue {
	n := q.Clone()
	if other == nil {
		return n
	}
	n.entries = append(n.entries, other.Entries()...)
	n.sorted = false
	return n
}

// Clone returns an independent copy of q.
func (q *Queue) Clone() *Queue {
	n := &Queue{
		entries: make([]Entry, len(q.entries)),
		sorted:  q.sorted,
	}
	copy(n.entries, q.entries)
	return n
}

// Entries returns a copy of the entries, highest priority first.
func (q *Queue) Entries() []Entry {
	q.sort()
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// sort orders entries by descending priority, keeping insertion order
// among equals.
func (q *Queue) sort() {
	if q.sorted {
		return
	}
	sort.SliceStable(q.entries, func(i, j int) bool {
		return q.entries[i].Priority > q.entries[j].Priority
	})
	q.sorted = true
}
