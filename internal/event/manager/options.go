package manager

import (
	"github.com/rs/zerolog"

	"github.com/dshills/eventmgr/internal/event/dispatch"
	"github.com/dshills/eventmgr/internal/event/topic"
)

// Option configures a Manager.
type Option func(*config)

// config contains configuration for a manager.
type config struct {
	// logger receives warnings, dropped callables and listener failures.
	logger zerolog.Logger

	// metrics, when set, counts dispatches and listener calls.
	metrics *Metrics

	// strict rejects declarations that resolve to nothing invocable.
	strict bool

	// matcher caches compiled name patterns. It may be shared.
	matcher *topic.Matcher

	// panicHandler sees listener panics before they become errors.
	panicHandler dispatch.PanicHandler
}

// defaultConfig returns sensible default configuration.
func defaultConfig() config {
	return config{
		logger: zerolog.Nop(),
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMetrics enables metrics collection.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithStrictCallables makes unresolvable declarations an error instead of
// dropping them.
func WithStrictCallables(strict bool) Option {
	return func(c *config) {
		c.strict = strict
	}
}

// WithMatcher shares a pattern matcher, and its cache, between managers.
func WithMatcher(m *topic.Matcher) Option {
	return func(c *config) {
		if m != nil {
			c.matcher = m
		}
	}
}

// WithPanicHandler sets a hook that sees every listener panic.
func WithPanicHandler(h dispatch.PanicHandler) Option {
	return func(c *config) {
		c.panicHandler = h
	}
}
