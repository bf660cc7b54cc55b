// Package topic provides event name matching for the event manager.
//
// # Names and Patterns
//
// Registered names are either concrete event names or patterns containing
// "*", which matches any run of characters (including none). The "."
// separator has no special meaning; it is matched literally.
//
// Examples:
//
//	login.*       matches login.attempt, login.MobileFail, login.a.b
//	evt*          matches evtTest1, evt
//	*.changed     matches config.changed, a.b.changed
//	*             matches everything
//
// An empty event name is treated as "any event" and matches every name.
//
// # Usage
//
//	m := topic.NewMatcher()
//	names := m.Match("login.attempt", []string{"*", "login.*", "checkout"})
//	// names == ["*", "login.*"]
package topic
