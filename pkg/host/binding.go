package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/layout"
	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/ports"
	"github.com/aretw0/layout/pkg/store"
	"go.uber.org/atomic"
)

// Binding is a layout whose state lives in an internal store.
type Binding[T any] struct {
	layout *layout.Layout[T]
	state  *store.Internal

	mu   sync.Mutex
	opts domain.Options[T]

	layoutOpts  []layout.Option[T]
	snapshots   ports.SnapshotStore
	key         string
	saving      *atomic.Bool
	unsubscribe func()
	closeOnce   sync.Once
}

// Option configures a Binding.
type Option[T any] func(*Binding[T])

// WithLayoutOptions passes construction options to the underlying layout.
func WithLayoutOptions[T any](opts ...layout.Option[T]) Option[T] {
	return func(b *Binding[T]) {
		b.layoutOpts = append(b.layoutOpts, opts...)
	}
}

// WithPersistence saves the state to s under key after every change. Saves
// go through the layout queue, so a burst of changes results in one save.
func WithPersistence[T any](s ports.SnapshotStore, key string) Option[T] {
	return func(b *Binding[T]) {
		b.snapshots = s
		b.key = key
	}
}

// Use creates a layout bound to an internal state store seeded with the
// layout's initial state.
//
// Options the caller leaves unset get placeholders: an empty State, a no-op
// OnStateChange and DeepMerge as the MergeOptions hook.
func Use[T any](opts domain.Options[T], setters ...Option[T]) (*Binding[T], error) {
	b := &Binding[T]{
		opts:   opts,
		saving: atomic.NewBool(false),
	}
	for _, set := range setters {
		set(b)
	}
	if b.snapshots != nil && b.key == "" {
		return nil, domain.ErrEmptyKey
	}

	resolved := domain.ShallowMerge(domain.Options[T]{
		State:         domain.State{},
		OnStateChange: func(domain.Updater[domain.State]) {},
		MergeOptions:  DeepMerge[T],
	}, opts)

	b.layout = layout.New(resolved, b.layoutOpts...)
	b.state = store.NewInternal(b.layout.InitialState())

	if err := b.Sync(); err != nil {
		return nil, err
	}
	b.unsubscribe = b.state.Subscribe(func(domain.State) {
		if err := b.Sync(); err != nil {
			b.layout.Logger().Error("failed to sync layout state", "err", err)
		}
	})
	return b, nil
}

// Layout returns the bound layout.
func (b *Binding[T]) Layout() *layout.Layout[T] {
	return b.layout
}

// Sync pushes the internal state and the caller options into the layout.
//
// The caller's State keys are layered over the internal state, so keys the
// caller controls cannot be changed through SetState.
func (b *Binding[T]) Sync() error {
	b.mu.Lock()
	opts := b.opts
	b.mu.Unlock()

	state := b.state.GetState().With(opts.State)
	return b.layout.SetOptions(domain.Update(func(prev domain.Options[T]) domain.Options[T] {
		next := domain.ShallowMerge(prev, opts)
		next.State = state
		next.OnStateChange = b.onStateChange
		return next
	}))
}

// Update replaces the caller options and re-syncs the layout.
func (b *Binding[T]) Update(opts domain.Options[T]) error {
	b.mu.Lock()
	b.opts = opts
	b.mu.Unlock()
	return b.Sync()
}

// GetState returns the layout state.
func (b *Binding[T]) GetState() domain.State {
	return b.layout.GetState()
}

// SetState updates the state through the layout.
func (b *Binding[T]) SetState(updater domain.Updater[domain.State]) {
	b.layout.SetState(updater)
}

func (b *Binding[T]) onStateChange(updater domain.Updater[domain.State]) {
	b.state.SetState(updater)
	b.schedulePersist()

	b.mu.Lock()
	sink := b.opts.OnStateChange
	b.mu.Unlock()
	if sink != nil {
		sink(updater)
	}
}

func (b *Binding[T]) schedulePersist() {
	if b.snapshots == nil {
		return
	}
	if b.saving.CompareAndSwap(false, true) {
		b.layout.Queue(b.persist)
	}
}

func (b *Binding[T]) persist() {
	b.saving.Store(false)
	if err := b.snapshots.Save(context.Background(), b.key, b.state.GetState()); err != nil {
		b.layout.Logger().Error("failed to save snapshot", "key", b.key, "err", err)
	}
}

// Restore loads the persisted snapshot and applies it as the new state.
// A missing snapshot is not an error; nor is a binding without persistence.
func (b *Binding[T]) Restore(ctx context.Context) error {
	if b.snapshots == nil {
		return nil
	}

	state, err := b.snapshots.Load(ctx, b.key)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore snapshot %q: %w", b.key, err)
	}

	b.SetState(domain.Set(state))
	return nil
}

// Close stops syncing the layout with the internal store.
func (b *Binding[T]) Close() error {
	b.closeOnce.Do(func() {
		if b.unsubscribe != nil {
			b.unsubscribe()
		}
	})
	return nil
}

var _ ports.StateStore = (*Binding[any])(nil)
