package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/layout"
	"github.com/aretw0/layout/internal/logging"
	"github.com/aretw0/layout/pkg/adapters/memory"
	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/observability"
	"github.com/aretw0/layout/pkg/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	sched := scheduler.NewManual()

	l := layout.New(
		domain.Options[int]{OnStateChange: func(domain.Updater[domain.State]) {}},
		layout.WithLifecycleHooks[int](metrics.Hooks()),
		layout.WithScheduler[int](sched),
	)

	require.NoError(t, l.SetOptions(domain.Update(func(o domain.Options[int]) domain.Options[int] {
		o.MergeOptions = func(d, c domain.Options[int]) (domain.Options[int], error) {
			return domain.Options[int]{}, errors.New("rejected")
		}
		return o
	})))
	assert.Error(t, l.SetOptions(domain.Set(domain.Options[int]{})))

	l.SetState(domain.Set(domain.State{}))
	l.SetState(domain.Update(func(s domain.State) domain.State { return s }))

	l.Queue(func() {})
	l.Queue(func() { panic("boom") })
	sched.RunUntilIdle()

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Created))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.OptionsUpdates.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.OptionsUpdates.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StateUpdates.WithLabelValues("literal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StateUpdates.WithLabelValues("transform")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.QueueFlushes))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.QueueCallbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.QueuePanics))

	count, err := testutil.GatherAndCount(reg, "layout_queue_flush_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_Middleware(t *testing.T) {
	metrics := observability.NewMetrics(nil)
	store := metrics.Middleware()(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "grid", domain.State{}))
	_, err := store.Load(ctx, "grid")
	require.NoError(t, err)
	_, err = store.Load(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	_, err = store.List(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "grid"))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SnapshotOps.WithLabelValues("save", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SnapshotOps.WithLabelValues("load", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SnapshotOps.WithLabelValues("load", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SnapshotOps.WithLabelValues("list", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SnapshotOps.WithLabelValues("delete", "ok")))
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSON(&buf, slog.LevelDebug)

	layout.New(domain.Options[int]{},
		layout.WithLifecycleHooks[int](observability.LoggingHooks(logger)),
		layout.WithID[int]("grid"),
	)

	assert.Contains(t, buf.String(), `"msg":"layout_create"`)
	assert.Contains(t, buf.String(), `"layout_id":"grid"`)
}

func TestCombine(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnCreate: func(*domain.CreateEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnCreate:      func(*domain.CreateEvent) { calls = append(calls, "b") },
		OnStateChange: func(*domain.StateEvent) { calls = append(calls, "b-state") },
	}

	combined := observability.Combine(a, domain.LifecycleHooks{}, b)
	combined.OnCreate(&domain.CreateEvent{})
	combined.OnStateChange(&domain.StateEvent{})

	assert.Equal(t, []string{"a", "b", "b-state"}, calls)
	assert.Nil(t, combined.OnQueueFlush)
}
