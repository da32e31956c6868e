package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/layout"
	"github.com/aretw0/layout/internal/logging"
	"github.com/aretw0/layout/pkg/codec"
	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/ports"
	"github.com/aretw0/layout/pkg/snapshot"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds snapshot uploads.
const maxBodyBytes = 1 << 20

// Server exposes a snapshot store over HTTP. Writes go through a
// snapshot.Manager so concurrent updates of one key are serialized.
type Server struct {
	Store     ports.SnapshotStore
	Snapshots *snapshot.Manager
	Streams   *StreamManager

	logger   *slog.Logger
	gatherer prometheus.Gatherer
	locker   ports.Locker
	lockTTL  time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics serves the metrics of g at /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLocker serializes writes across server replicas sharing a backend.
func WithLocker(locker ports.Locker, ttl time.Duration) Option {
	return func(s *Server) {
		s.locker = locker
		s.lockTTL = ttl
	}
}

// New creates a server for store.
func New(store ports.SnapshotStore, opts ...Option) *Server {
	s := &Server{
		Store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	mopts := []snapshot.Option{snapshot.WithLogger(s.logger)}
	if s.locker != nil {
		mopts = append(mopts, snapshot.WithLocker(s.locker, s.lockTTL))
	}
	s.Snapshots = snapshot.NewManager(store, mopts...)
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates a new HTTP handler for store.
func NewHandler(store ports.SnapshotStore, opts ...Option) http.Handler {
	return New(store, opts...).Handler()
}

// Handler returns the routes of s.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/", s.ListSnapshots)
		r.Get("/{key}", s.GetSnapshot)
		r.Put("/{key}", s.PutSnapshot)
		r.Patch("/{key}", s.PatchSnapshot)
		r.Delete("/{key}", s.DeleteSnapshot)
		r.Get("/{key}/events", s.SubscribeEvents)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "layout-http",
		"version": layout.Version,
	})
}

// ListSnapshots handles the GET /snapshots request.
func (s *Server) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	keys, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, "List", err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	s.writeJSON(w, http.StatusOK, keys)
}

// GetSnapshot handles the GET /snapshots/{key} request. The response is
// encoded with the codec matching the Accept header (default: JSON).
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	state, err := s.Store.Load(r.Context(), key)
	if err != nil {
		s.fail(w, "GetSnapshot", err)
		return
	}

	c := codecFor(r.Header.Get("Accept"))
	data, err := c.Marshal(state)
	if err != nil {
		s.fail(w, "GetSnapshot", err)
		return
	}
	w.Header().Set("Content-Type", c.ContentType())
	if _, err := w.Write(data); err != nil {
		s.logger.Error("GetSnapshot response write failed", "err", err)
	}
}

// PutSnapshot handles the PUT /snapshots/{key} request. The body is decoded
// with the codec matching Content-Type and replaces the snapshot.
func (s *Server) PutSnapshot(w http.ResponseWriter, r *http.Request) {
	state, ok := s.readState(w, r, "PutSnapshot")
	if !ok {
		return
	}
	s.update(w, r, "PutSnapshot", domain.Set(state))
}

// PatchSnapshot handles the PATCH /snapshots/{key} request. The keys of the
// body are layered over the stored snapshot; a missing snapshot starts empty.
func (s *Server) PatchSnapshot(w http.ResponseWriter, r *http.Request) {
	patch, ok := s.readState(w, r, "PatchSnapshot")
	if !ok {
		return
	}
	s.update(w, r, "PatchSnapshot", domain.Update(func(prev domain.State) domain.State {
		return prev.With(patch)
	}))
}

func (s *Server) readState(w http.ResponseWriter, r *http.Request, op string) (domain.State, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn(op+": invalid request body", "err", err)
		return nil, false
	}

	var state domain.State
	if err := codecFor(r.Header.Get("Content-Type")).Unmarshal(body, &state); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn(op+": invalid request body", "err", err)
		return nil, false
	}
	if state == nil {
		state = domain.State{}
	}
	return state, true
}

// update applies updater under the key lock and broadcasts the change to
// event subscribers of the key.
func (s *Server) update(w http.ResponseWriter, r *http.Request, op string, updater domain.Updater[domain.State]) {
	key := chi.URLParam(r, "key")

	previous, next, err := s.Snapshots.Update(r.Context(), key, updater)
	if err != nil {
		s.fail(w, op, err)
		return
	}

	if diff := domain.Diff(previous, next); diff != nil {
		s.logger.Debug(op+": diff calculated", "key", key, "keys", diff.Keys())
		if data, err := json.Marshal(diff); err == nil {
			s.Streams.Broadcast(key, string(data))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteSnapshot handles the DELETE /snapshots/{key} request.
func (s *Server) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.Snapshots.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		s.fail(w, "DeleteSnapshot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents handles the GET /snapshots/{key}/events request (SSE).
// Each event carries the JSON diff of one PUT or PATCH.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	key := chi.URLParam(r, "key")
	ch, cancel := s.Streams.Subscribe(key)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected", "key", key)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrEmptyKey), errors.Is(err, domain.ErrInvalidKey):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
		s.logger.Error(op+" failed", "err", err)
	}
}

// codecFor picks the codec named by a Content-Type or Accept header value.
func codecFor(header string) codec.Codec {
	for _, part := range strings.Split(header, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		for _, c := range []codec.Codec{codec.JSONCodec{}, codec.YAMLCodec{}, codec.CBORCodec{}} {
			if c.ContentType() == mediaType {
				return c
			}
		}
	}
	return codec.JSONCodec{}
}
