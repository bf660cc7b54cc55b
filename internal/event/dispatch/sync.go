package dispatch

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dshills/eventmgr/internal/event"
	"github.com/dshills/eventmgr/internal/event/queue"
)

// SyncDispatcher runs queues synchronously in the caller's goroutine.
type SyncDispatcher struct {
	executor *Executor
	observer Observer

	// Stats
	dispatched  atomic.Uint64
	succeeded   atomic.Uint64
	failed      atomic.Uint64
	panicked    atomic.Uint64
	stopped     atomic.Uint64
	vetoed      atomic.Uint64
	totalTimeNs atomic.Int64
}

// NewSyncDispatcher creates a new synchronous dispatcher.
func NewSyncDispatcher(opts ...SyncOption) *SyncDispatcher {
	d := &SyncDispatcher{
		executor: NewExecutor(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SyncOption configures a SyncDispatcher.
type SyncOption func(*SyncDispatcher)

// WithPanicHandler sets the panic handler for the dispatcher.
func WithPanicHandler(h PanicHandler) SyncOption {
	return func(d *SyncDispatcher) {
		d.executor = NewExecutor(WithExecutorPanicHandler(h))
	}
}

// WithObserver sets the observer notified of every handler call.
func WithObserver(o Observer) SyncOption {
	return func(d *SyncDispatcher) {
		d.observer = o
	}
}

// Dispatch executes a single handler and records its statistics.
func (d *SyncDispatcher) Dispatch(ctx context.Context, e *event.Event, h event.Handler) Result {
	d.dispatched.Add(1)

	result := d.executor.Execute(ctx, e, h)

	d.totalTimeNs.Add(result.Duration.Nanoseconds())
	switch {
	case result.Panicked:
		d.panicked.Add(1)
	case result.Error != nil:
		d.failed.Add(1)
	default:
		d.succeeded.Add(1)
	}

	return result
}

// RunQueue invokes q's entries against e, highest priority first.
//
// Each handler's value is appended to e's results. A value of exactly false
// stops propagation. A stopped event ends the loop before cb is consulted;
// otherwise cb, when not nil, may end it by returning false. A handler error
// or panic ends the loop with an event.ErrRuntime error. Changes already
// made to e are kept in every case.
func (d *SyncDispatcher) RunQueue(ctx context.Context, e *event.Event, q *queue.Queue, cb event.Callback) error {
	if q == nil {
		d.finish(e, Completed)
		return nil
	}

	for _, entry := range q.Entries() {
		result := d.Dispatch(ctx, e, entry.Handler)
		if d.observer != nil {
			d.observer.Executed(e, entry, result)
		}

		if !result.IsSuccess() {
			d.finish(e, Failed)
			return result.Err(e)
		}

		e.AddResult(result.Value, "")
		if event.IsFalse(result.Value) {
			e.StopPropagation()
		}

		if e.IsPropagationStopped() {
			d.stopped.Add(1)
			d.finish(e, Stopped)
			return nil
		}

		if cb != nil && !cb(e, result.Value) {
			d.vetoed.Add(1)
			d.finish(e, Vetoed)
			return nil
		}
	}

	d.finish(e, Completed)
	return nil
}

func (d *SyncDispatcher) finish(e *event.Event, o Outcome) {
	if d.observer != nil {
		d.observer.Finished(e, o)
	}
}

// Stats returns dispatch statistics.
// Note: Stats are read without a mutex, so values may be slightly inconsistent
// if stats are being updated concurrently.
func (d *SyncDispatcher) Stats() SyncDispatcherStats {
	dispatched := d.dispatched.Load()
	totalNs := d.totalTimeNs.Load()

	var avgNs int64
	if dispatched > 0 {
		avgNs = totalNs / int64(dispatched)
	}

	return SyncDispatcherStats{
		Dispatched:    dispatched,
		Succeeded:     d.succeeded.Load(),
		Failed:        d.failed.Load(),
		Panicked:      d.panicked.Load(),
		Stopped:       d.stopped.Load(),
		Vetoed:        d.vetoed.Load(),
		TotalDuration: time.Duration(totalNs),
		AvgDuration:   time.Duration(avgNs),
	}
}

// ResetStats resets all statistics to zero.
func (d *SyncDispatcher) ResetStats() {
	d.dispatched.Store(0)
	d.succeeded.Store(0)
	d.failed.Store(0)
	d.panicked.Store(0)
	d.stopped.Store(0)
	d.vetoed.Store(0)
	d.totalTimeNs.Store(0)
}

// SyncDispatcherStats contains statistics for a sync dispatcher.
type SyncDispatcherStats struct {
	// Dispatched is the total number of handler calls.
	Dispatched uint64

	// Succeeded is the number of handlers that returned without error.
	Succeeded uint64

	// Failed is the number of handlers that returned errors.
	Failed uint64

	// Panicked is the number of handlers that panicked.
	Panicked uint64

	// Stopped is the number of dispatches ended by stop propagation.
	Stopped uint64

	// Vetoed is the number of dispatches ended by the callback.
	Vetoed uint64

	// TotalDuration is the cumulative time spent in handlers.
	TotalDuration time.Duration

	// AvgDuration is the average handler execution time.
	AvgDuration time.Duration
}
