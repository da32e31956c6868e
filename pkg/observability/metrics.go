package observability

import (
	"context"
	"time"

	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/persistence/middleware"
	"github.com/aretw0/layout/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "layout"

// Metrics holds the layout collectors.
type Metrics struct {
	Created          prometheus.Counter
	OptionsUpdates   *prometheus.CounterVec
	StateUpdates     *prometheus.CounterVec
	QueueFlushes     prometheus.Counter
	QueueCallbacks   prometheus.Counter
	QueuePanics      prometheus.Counter
	QueueFlushTime   prometheus.Histogram
	SnapshotOps      *prometheus.CounterVec
	SnapshotOpTiming *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "created_total",
			Help:      "Total number of layout instances created",
		}),
		OptionsUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "options_updates_total",
			Help:      "Total number of SetOptions calls by result",
		}, []string{"result"}),
		StateUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_updates_total",
			Help:      "Total number of SetState calls by updater kind",
		}, []string{"kind"}),
		QueueFlushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "flushes_total",
			Help:      "Total number of deferred callback flushes",
		}),
		QueueCallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "callbacks_total",
			Help:      "Total number of deferred callbacks run",
		}),
		QueuePanics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "panics_total",
			Help:      "Total number of deferred callbacks that panicked",
		}),
		QueueFlushTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "flush_duration_seconds",
			Help:      "Duration of deferred callback flushes",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		SnapshotOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "operations_total",
			Help:      "Total number of snapshot store operations by operation and result",
		}, []string{"op", "result"}),
		SnapshotOpTiming: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "operation_duration_seconds",
			Help:      "Duration of snapshot store operations",
		}, []string{"op"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Created,
			m.OptionsUpdates,
			m.StateUpdates,
			m.QueueFlushes,
			m.QueueCallbacks,
			m.QueuePanics,
			m.QueueFlushTime,
			m.SnapshotOps,
			m.SnapshotOpTiming,
		)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCreate: func(*domain.CreateEvent) {
			m.Created.Inc()
		},
		OnOptionsChange: func(e *domain.OptionsEvent) {
			m.OptionsUpdates.WithLabelValues(result(e.Err)).Inc()
		},
		OnStateChange: func(e *domain.StateEvent) {
			kind := "literal"
			if e.IsFunc {
				kind = "transform"
			}
			m.StateUpdates.WithLabelValues(kind).Inc()
		},
		OnQueueFlush: func(e *domain.FlushEvent) {
			m.QueueFlushes.Inc()
			m.QueueCallbacks.Add(float64(e.Callbacks))
			m.QueueFlushTime.Observe(e.Duration.Seconds())
		},
		OnQueueError: func(*domain.QueueErrorEvent) {
			m.QueuePanics.Inc()
		},
	}
}

// Middleware instruments a snapshot store.
func (m *Metrics) Middleware() middleware.Middleware {
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &instrumentedStore{next: next, metrics: m}
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

type instrumentedStore struct {
	next    ports.SnapshotStore
	metrics *Metrics
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	s.metrics.SnapshotOps.WithLabelValues(op, result(err)).Inc()
	s.metrics.SnapshotOpTiming.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *instrumentedStore) Save(ctx context.Context, key string, state domain.State) error {
	start := time.Now()
	err := s.next.Save(ctx, key, state)
	s.observe("save", start, err)
	return err
}

func (s *instrumentedStore) Load(ctx context.Context, key string) (domain.State, error) {
	start := time.Now()
	state, err := s.next.Load(ctx, key)
	s.observe("load", start, err)
	return state, err
}

func (s *instrumentedStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Delete(ctx, key)
	s.observe("delete", start, err)
	return err
}

func (s *instrumentedStore) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	keys, err := s.next.List(ctx)
	s.observe("list", start, err)
	return keys, err
}
