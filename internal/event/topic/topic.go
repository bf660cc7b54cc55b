package topic

import "strings"

// Wildcard constants for pattern matching.
const (
	// Wildcard matches any run of characters, separators included.
	Wildcard = "*"

	// Separator is the conventional segment separator. It is always literal.
	Separator = "."
)

// IsPattern returns true if name contains a wildcard.
func IsPattern(name string) bool {
	return strings.Contains(name, Wildcard)
}

// IsValid returns true if name is usable as an event or queue name:
// non-empty once surrounding whitespace is removed.
func IsValid(name string) bool {
	return strings.TrimSpace(name) != ""
}

// Normalize trims surrounding whitespace from a name.
func Normalize(name string) string {
	return strings.TrimSpace(name)
}
