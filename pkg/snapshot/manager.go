package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/layout/internal/logging"
	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates snapshot access per key.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.Locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking. A ttl of zero uses DefaultLockTTL.
func WithLocker(locker ports.Locker, ttl time.Duration) Option {
	return func(m *Manager) {
		m.locker = locker
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates the entry for key and takes a reference.
// Callers lock entry.mu and call release after unlocking it.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[key]
	if !ok {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release drops a reference and forgets the entry at zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// Load retrieves a snapshot.
func (m *Manager) Load(ctx context.Context, key string) (domain.State, error) {
	var state domain.State
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, key)
		return err
	})
	return state, err
}

// LoadOrInit loads a snapshot, saving initial under key when none exists.
func (m *Manager) LoadOrInit(ctx context.Context, key string, initial domain.State) (domain.State, error) {
	var state domain.State
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, key)
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			return err
		}

		state = initial.Clone()
		if state == nil {
			state = domain.State{}
		}
		if err := m.store.Save(ctx, key, state); err != nil {
			return fmt.Errorf("failed to initialize snapshot: %w", err)
		}
		return nil
	})
	return state, err
}

// Save persists a snapshot.
func (m *Manager) Save(ctx context.Context, key string, state domain.State) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.Save(ctx, key, state)
	})
}

// Update applies updater to the stored snapshot and saves the result. A
// missing snapshot starts from an empty state. It returns the snapshot
// before and after the update; previous is nil when none existed.
func (m *Manager) Update(ctx context.Context, key string, updater domain.Updater[domain.State]) (previous, next domain.State, err error) {
	err = m.WithLock(ctx, key, func(ctx context.Context) error {
		previous, err = m.store.Load(ctx, key)
		if err != nil && !errors.Is(err, domain.ErrSnapshotNotFound) {
			return err
		}

		base := previous.Clone()
		if base == nil {
			base = domain.State{}
		}
		next = updater.Apply(base)
		if next == nil {
			next = domain.State{}
		}
		return m.store.Save(ctx, key, next)
	})
	if err != nil {
		return nil, nil, err
	}
	return previous, next, nil
}

// Delete removes a snapshot.
func (m *Manager) Delete(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.Delete(ctx, key)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// WithLock runs fn while holding the lock for key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	if err := domain.ValidateKey(key); err != nil {
		return err
	}

	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("failed to release distributed lock, it expires with its ttl",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
