package queue

import (
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/ports"
	"github.com/aretw0/layout/pkg/scheduler"
	"go.uber.org/atomic"
)

// ErrorHandler receives panics recovered from queued callbacks.
// It runs on a later scheduling cycle than the flush that recovered them.
// Without a handler the panic is logged at Error level.
type ErrorHandler func(err *domain.CallbackError)

// Queue batches zero-argument callbacks and runs them in one deferred flush
// per scheduling cycle.
type Queue struct {
	mu        sync.Mutex
	pending   []func()
	scheduled *atomic.Bool

	scheduler ports.Scheduler
	onError   ErrorHandler
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	id        string
}

// Option configures the Queue.
type Option func(*Queue)

// WithScheduler sets the scheduler that runs flushes and error reports.
func WithScheduler(s ports.Scheduler) Option {
	return func(q *Queue) {
		q.scheduler = s
	}
}

// WithErrorHandler registers a handler for recovered callback panics.
func WithErrorHandler(h ErrorHandler) Option {
	return func(q *Queue) {
		q.onError = h
	}
}

// WithLifecycleHooks registers flush and error hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(q *Queue) {
		q.hooks = hooks
	}
}

// WithLogger configures the logger unhandled callback panics are reported
// to. It defaults to slog.Default() at report time.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		q.logger = logger
	}
}

// WithID sets the identifier reported in lifecycle events.
func WithID(id string) Option {
	return func(q *Queue) {
		q.id = id
	}
}

// New creates a Queue. Without options it flushes on scheduler.Async and
// logs callback panics to slog.Default().
func New(opts ...Option) *Queue {
	q := &Queue{
		scheduled: atomic.NewBool(false),
		scheduler: scheduler.Async{},
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.scheduler == nil {
		q.scheduler = scheduler.Async{}
	}
	return q
}

// Enqueue appends cb to the pending list and schedules a flush if none is
// scheduled yet. It never runs cb before returning.
func (q *Queue) Enqueue(cb func()) {
	if cb == nil {
		return
	}

	q.mu.Lock()
	q.pending = append(q.pending, cb)
	schedule := !q.scheduled.Load()
	if schedule {
		q.scheduled.Store(true)
	}
	q.mu.Unlock()

	if schedule {
		q.scheduler.Schedule(q.flush)
	}
}

// Len returns the number of callbacks waiting for a flush.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Scheduled reports whether a flush is scheduled and has not completed.
func (q *Queue) Scheduled() bool {
	return q.scheduled.Load()
}

// flush drains the pending list to empty, including callbacks enqueued by
// callbacks of this flush, then clears the scheduled flag.
func (q *Queue) flush() {
	start := time.Now()
	ran, panics := 0, 0

	for {
		cb, ok := q.next()
		if !ok {
			break
		}
		ran++
		if err := run(cb); err != nil {
			panics++
			q.report(err)
		}
	}

	if q.hooks.OnQueueFlush != nil {
		q.hooks.OnQueueFlush(&domain.FlushEvent{
			EventBase: domain.NewEventBase(domain.EventQueueFlush, q.id),
			Callbacks: ran,
			Panics:    panics,
			Duration:  time.Since(start),
		})
	}
}

// next pops the oldest callback. On an empty list it clears the scheduled
// flag under the same lock so a concurrent Enqueue schedules a new cycle.
func (q *Queue) next() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		q.pending = nil
		q.scheduled.Store(false)
		return nil, false
	}

	cb := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	return cb, true
}

// report surfaces err on a later cycle, outside the flush's stack.
func (q *Queue) report(err *domain.CallbackError) {
	q.scheduler.Schedule(func() {
		if q.hooks.OnQueueError != nil {
			q.hooks.OnQueueError(&domain.QueueErrorEvent{
				EventBase: domain.NewEventBase(domain.EventQueueError, q.id),
				Err:       err,
			})
		}
		if q.onError != nil {
			q.onError(err)
			return
		}

		logger := q.logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("queued callback failed",
			"queue_id", q.id,
			"err", err,
			"stack", string(err.Stack),
		)
	})
}

func run(cb func()) (err *domain.CallbackError) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.CallbackError{Value: r, Stack: debug.Stack()}
		}
	}()
	cb()
	return nil
}

