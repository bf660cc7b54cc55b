package manager

import (
	"github.com/rs/zerolog"

	"github.com/dshills/eventmgr/internal/event"
	"github.com/dshills/eventmgr/internal/event/dispatch"
	"github.com/dshills/eventmgr/internal/event/queue"
)

// observer logs listener failures and forwards to metrics.
type observer struct {
	log     zerolog.Logger
	metrics *Metrics
}

func (o *observer) Executed(e *event.Event, entry queue.Entry, r dispatch.Result) {
	switch {
	case r.IsPanic():
		o.log.Error().
			Str("event", e.Name()).
			Int("priority", int(entry.Priority)).
			Interface("panic", r.PanicValue).
			Bytes("stack", r.PanicStack).
			Msg("listener panicked")
	case r.IsError():
		o.log.Error().
			Err(r.Error).
			Str("event", e.Name()).
			Int("priority", int(entry.Priority)).
			Msg("listener failed")
	}
	if o.metrics != nil {
		o.metrics.Executed(e, entry, r)
	}
}

func (o *observer) Finished(e *event.Event, out dispatch.Outcome) {
	o.log.Debug().
		Str("event", e.Name()).
		Str("id", e.ID()).
		Stringer("outcome", out).
		Int("results", len(e.Results())).
		Msg("event dispatched")
	if o.metrics != nil {
		o.metrics.Finished(e, out)
	}
}
