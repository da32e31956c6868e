package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/layout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	t.Helper()
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.State{
			"foo":   "bar",
			"count": 42,
			"nested": map[string]any{
				"visible": true,
			},
		}

		err := store.Save(ctx, key, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "bar", loaded["foo"])
		// Serializing stores may widen numeric types; only check presence.
		assert.NotNil(t, loaded["count"])
		nested, ok := loaded["nested"].(map[string]any)
		require.True(t, ok, "nested maps should decode as map[string]any, got %T", loaded["nested"])
		assert.Equal(t, true, nested["visible"])
	})

	t.Run("Load Isolation", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, domain.State{"foo": "bar"}))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		loaded["foo"] = "mutated"

		again, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "bar", again["foo"], "mutating a loaded snapshot must not affect the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, key, domain.State{"foo": "bar"})
		require.NoError(t, err)

		err = store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := key + "-1"
		id2 := key + "-2"
		_ = store.Save(ctx, id1, domain.State{})
		_ = store.Save(ctx, id2, domain.State{})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})
}

// RunStateStoreContract verifies that a StateStore reflects literal and
// transform updates on the next read. newStore must return a store whose
// current state is initial and whose writes are visible to GetState.
func RunStateStoreContract(t *testing.T, newStore func(initial domain.State) StateStore) {
	t.Helper()

	t.Run("Initial Read", func(t *testing.T) {
		store := newStore(domain.State{"page": 1})
		assert.Equal(t, domain.State{"page": 1}, store.GetState())
	})

	t.Run("Literal Write", func(t *testing.T) {
		store := newStore(domain.State{"page": 1})
		store.SetState(domain.Set(domain.State{"page": 2}))
		assert.Equal(t, domain.State{"page": 2}, store.GetState())
	})

	t.Run("Transform Write", func(t *testing.T) {
		store := newStore(domain.State{"page": 1})
		store.SetState(domain.Update(func(prev domain.State) domain.State {
			return prev.With(domain.State{"size": 10})
		}))
		assert.Equal(t, domain.State{"page": 1, "size": 10}, store.GetState())
	})

	t.Run("Literal Replaces Whole State", func(t *testing.T) {
		store := newStore(domain.State{"page": 1, "size": 10})
		store.SetState(domain.Set(domain.State{}))
		assert.Equal(t, domain.State{}, store.GetState())
	})
}
