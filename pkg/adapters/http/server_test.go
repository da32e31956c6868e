package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/layout/pkg/adapters/memory"
	"github.com/aretw0/layout/pkg/codec"
	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestGetHealth(t *testing.T) {
	handler := NewHandler(memory.NewStore())

	rr := do(t, handler, http.MethodGet, "/healthz", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetInfo(t *testing.T) {
	handler := NewHandler(memory.NewStore())

	rr := do(t, handler, http.MethodGet, "/info", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "layout-http", resp["app"])
	assert.NotEmpty(t, resp["version"])
}

func TestSnapshotLifecycle(t *testing.T) {
	store := memory.NewStore()
	handler := NewHandler(store)

	// 1. Put
	rr := do(t, handler, http.MethodPut, "/snapshots/grid", "application/json", `{"pageIndex":2}`)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	// 2. List
	rr = do(t, handler, http.MethodGet, "/snapshots", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var keys []string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &keys))
	assert.Equal(t, []string{"grid"}, keys)

	// 3. Get
	rr = do(t, handler, http.MethodGet, "/snapshots/grid", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var state domain.State
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &state))
	assert.EqualValues(t, 2, state["pageIndex"])

	// 4. Delete
	rr = do(t, handler, http.MethodDelete, "/snapshots/grid", "", "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, handler, http.MethodGet, "/snapshots/grid", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSnapshotCodecNegotiation(t *testing.T) {
	handler := NewHandler(memory.NewStore())

	rr := do(t, handler, http.MethodPut, "/snapshots/grid", "application/x-yaml; charset=utf-8", "sorting: name\n")
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/snapshots/grid", nil)
	req.Header.Set("Accept", "text/html, application/cbor")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/cbor", rec.Header().Get("Content-Type"))
	var state domain.State
	require.NoError(t, codec.CBORCodec{}.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "name", state["sorting"])
}

func TestPutSnapshot_InvalidBody(t *testing.T) {
	handler := NewHandler(memory.NewStore())

	rr := do(t, handler, http.MethodPut, "/snapshots/grid", "application/json", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPutSnapshot_BroadcastsDiff(t *testing.T) {
	srv := New(memory.NewStore())
	handler := srv.Handler()

	require.Equal(t, http.StatusNoContent, do(t, handler, http.MethodPut, "/snapshots/grid", "", `{"a":1,"b":2}`).Code)

	ch, cancel := srv.Streams.Subscribe("grid")
	defer cancel()

	require.Equal(t, http.StatusNoContent, do(t, handler, http.MethodPut, "/snapshots/grid", "", `{"a":1,"b":3}`).Code)
	require.Equal(t, http.StatusNoContent, do(t, handler, http.MethodPut, "/snapshots/grid", "", `{"a":1,"b":3}`).Code)

	select {
	case msg := <-ch:
		assert.JSONEq(t, `{"b":3}`, msg)
	case <-time.After(time.Second):
		t.Fatal("expected a diff broadcast")
	}
	select {
	case msg := <-ch:
		t.Fatalf("an unchanged snapshot must not broadcast, got %s", msg)
	default:
	}
}

func TestPatchSnapshot(t *testing.T) {
	store := memory.NewStore()
	srv := New(store)
	handler := srv.Handler()

	// A missing snapshot starts empty.
	require.Equal(t, http.StatusNoContent, do(t, handler, http.MethodPatch, "/snapshots/grid", "", `{"page":1,"sort":"id"}`).Code)

	ch, cancel := srv.Streams.Subscribe("grid")
	defer cancel()

	rr := do(t, handler, http.MethodPatch, "/snapshots/grid", "application/x-yaml", "sort: name\n")
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	state, err := store.Load(context.Background(), "grid")
	require.NoError(t, err)
	assert.EqualValues(t, 1, state["page"])
	assert.Equal(t, "name", state["sort"])

	select {
	case msg := <-ch:
		assert.JSONEq(t, `{"sort":"name"}`, msg)
	case <-time.After(time.Second):
		t.Fatal("expected a diff broadcast")
	}
}

type countingLocker struct {
	mu    sync.Mutex
	locks int
}

func (l *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	l.locks++
	l.mu.Unlock()
	return func(context.Context) error { return nil }, nil
}

func TestWithLocker(t *testing.T) {
	locker := &countingLocker{}
	handler := NewHandler(memory.NewStore(), WithLocker(locker, time.Second))

	require.Equal(t, http.StatusNoContent, do(t, handler, http.MethodPut, "/snapshots/grid", "", `{"a":1}`).Code)
	require.Equal(t, http.StatusNoContent, do(t, handler, http.MethodDelete, "/snapshots/grid", "", "").Code)
	require.Equal(t, http.StatusNotFound, do(t, handler, http.MethodGet, "/snapshots/grid", "", "").Code)

	assert.Equal(t, 2, locker.locks, "reads do not take the lock")
}

func TestSubscribeEvents(t *testing.T) {
	srv := New(memory.NewStore())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/snapshots/grid/events", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	reader := bufio.NewReader(resp.Body)

	// 1. The ping is written after the subscription is registered.
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)
	_, _ = reader.ReadString('\n') // data: connected
	_, _ = reader.ReadString('\n') // blank

	// 2. Trigger a change.
	put, err := http.NewRequest(http.MethodPut, ts.URL+"/snapshots/grid", strings.NewReader(`{"page":1}`))
	require.NoError(t, err)
	putResp, err := ts.Client().Do(put)
	require.NoError(t, err)
	putResp.Body.Close()

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "data: {\"page\":1}\n", line)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "layout_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	handler := NewHandler(memory.NewStore(), WithMetrics(reg))
	rr := do(t, handler, http.MethodGet, "/metrics", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "layout_test_total 1")

	rr = do(t, NewHandler(memory.NewStore()), http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	rr := do(t, NewHandler(memory.NewStore()), http.MethodOptions, "/snapshots/grid", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCodecFor(t *testing.T) {
	assert.Equal(t, codec.JSONCodec{}, codecFor(""))
	assert.Equal(t, codec.YAMLCodec{}, codecFor("application/x-yaml"))
	assert.Equal(t, codec.CBORCodec{}, codecFor("*/*;q=0.1, application/cbor"))
	assert.Equal(t, codec.JSONCodec{}, codecFor("text/plain"))
}
