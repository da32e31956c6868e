package ports

import (
	"context"

	"github.com/aretw0/layout/pkg/domain"
)

// StateStore is the read projection and write sink for layout state.
// Implementations decide where the state actually lives.
type StateStore interface {
	// GetState returns the current state.
	GetState() domain.State

	// SetState announces an update. Whether and when GetState reflects it is
	// up to the implementation.
	SetState(updater domain.Updater[domain.State])
}

// SnapshotStore persists state snapshots under a caller-chosen key.
// This allows a host to restore layout state across process restarts.
type SnapshotStore interface {
	// Save persists the state for a given key.
	Save(ctx context.Context, key string, state domain.State) error

	// Load retrieves the state for a given key.
	// Returns domain.ErrSnapshotNotFound if the key does not exist.
	Load(ctx context.Context, key string) (domain.State, error)

	// Delete removes the snapshot for a given key.
	Delete(ctx context.Context, key string) error

	// List returns the keys of all stored snapshots.
	List(ctx context.Context) ([]string, error)
}
