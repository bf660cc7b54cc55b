package topic

import (
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// Matcher matches concrete event names against registered names, some of
// which may be wildcard patterns. Compiled patterns are cached. It is safe
// for concurrent use.
type Matcher struct {
	mu    sync.RWMutex
	cache map[string]glob.Glob
}

// NewMatcher creates a new matcher.
func NewMatcher() *Matcher {
	return &Matcher{
		cache: make(map[string]glob.Glob),
	}
}

// Match returns the subset of names that match eventName, in input order.
//
// A name matches when it equals eventName, when it is "*", or when it is a
// pattern whose "*" runs can be expanded to produce eventName. An empty
// eventName matches every name.
func (m *Matcher) Match(eventName string, names []string) []string {
	var matches []string
	for _, n := range names {
		if m.Matches(eventName, n) {
			matches = append(matches, n)
		}
	}
	return matches
}

// Matches reports whether the registered name n applies to eventName.
func (m *Matcher) Matches(eventName, n string) bool {
	switch {
	case n == Wildcard, n == eventName, eventName == "":
		return true
	case !IsPattern(n):
		return false
	}

	g, err := m.compile(n)
	if err != nil {
		return false
	}
	return g.Match(eventName)
}

// compile returns the cached glob for pattern, compiling it on first use.
func (m *Matcher) compile(pattern string) (glob.Glob, error) {
	m.mu.RLock()
	g, ok := m.cache[pattern]
	m.mu.RUnlock()
	if ok {
		return g, nil
	}

	g, err := glob.Compile(quote(pattern))
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[pattern] = g
	m.mu.Unlock()
	return g, nil
}

// Count returns the number of compiled patterns held in the cache.
func (m *Matcher) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

// Forget drops a pattern from the cache.
func (m *Matcher) Forget(pattern string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, pattern)
}

// Clear empties the cache.
func (m *Matcher) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]glob.Glob)
}

// quote escapes every glob metacharacter except the wildcard, so only "*"
// keeps a special meaning.
func quote(pattern string) string {
	parts := strings.Split(pattern, Wildcard)
	for i, p := range parts {
		parts[i] = glob.QuoteMeta(p)
	}
	return strings.Join(parts, Wildcard)
}
