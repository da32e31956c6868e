// Package cli wires configuration into the stores, layouts and servers used by
// the layout command.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/layout/internal/config"
	"github.com/aretw0/layout/internal/logging"
	"github.com/aretw0/layout/pkg/adapters/file"
	"github.com/aretw0/layout/pkg/adapters/memory"
	"github.com/aretw0/layout/pkg/adapters/redis"
	"github.com/aretw0/layout/pkg/codec"
	"github.com/aretw0/layout/pkg/observability"
	"github.com/aretw0/layout/pkg/persistence/middleware"
	"github.com/aretw0/layout/pkg/ports"
	"github.com/aretw0/layout/pkg/snapshot"
)

// CreateLogger configures the application logger. Debug forces debug level;
// otherwise the configured level is used.
func CreateLogger(cfg *config.Config) *slog.Logger {
	if cfg.Debug {
		return logging.New(slog.LevelDebug)
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.NewJSON(os.Stderr, level)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Backend is an opened snapshot backend.
type Backend struct {
	Store ports.SnapshotStore

	// Locker is set for backends shared between processes.
	Locker ports.Locker

	closer io.Closer
}

// Close releases backend connections.
func (b *Backend) Close() error {
	return b.closer.Close()
}

// Snapshots returns a manager serializing writes to the backend.
func (b *Backend) Snapshots(cfg config.StoreConfig, logger *slog.Logger) *snapshot.Manager {
	opts := []snapshot.Option{snapshot.WithLogger(logger)}
	if b.Locker != nil {
		opts = append(opts, snapshot.WithLocker(b.Locker, cfg.Redis.LockTTL))
	}
	return snapshot.NewManager(b.Store, opts...)
}

// OpenStore builds the configured snapshot store, wrapped with redaction,
// encryption and, when metrics is non-nil, instrumentation.
func OpenStore(cfg config.StoreConfig, metrics *observability.Metrics) (*Backend, error) {
	c, err := codec.ByName(cfg.Codec)
	if err != nil {
		return nil, err
	}

	var (
		base   ports.SnapshotStore
		locker ports.Locker
		closer io.Closer = nopCloser{}
	)
	switch cfg.Backend {
	case config.BackendMemory:
		base = memory.NewStore()
	case config.BackendRedis:
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
			redis.WithCodec(c),
		)
		base, locker, closer = rs, rs.Locker(), rs
	default:
		base = file.New(cfg.Dir, file.WithCodec(c))
	}

	var mws []middleware.Middleware
	if metrics != nil {
		mws = append(mws, metrics.Middleware())
	}
	if len(cfg.Redact) > 0 {
		redact, err := middleware.NewRedactMiddleware(cfg.Redact)
		if err != nil {
			_ = closer.Close()
			return nil, err
		}
		mws = append(mws, redact)
	}

	active, fallback, err := cfg.Keys()
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	if active != nil {
		encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
			Codec:        c,
		})
		if err != nil {
			_ = closer.Close()
			return nil, err
		}
		mws = append(mws, encrypt)
	}

	return &Backend{
		Store:  middleware.Chain(base, mws...),
		Locker: locker,
		closer: closer,
	}, nil
}
