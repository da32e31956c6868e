package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/layout/pkg/adapters/memory"
	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSnapshotStoreContract(t, store)
}

func TestMemoryStore_SaveIsolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	nested := map[string]any{"pageIndex": 1}
	state := domain.State{"pagination": nested}
	require.NoError(t, store.Save(ctx, "grid", state))

	nested["pageIndex"] = 99

	loaded, err := store.Load(ctx, "grid")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded["pagination"].(map[string]any)["pageIndex"])
}

func TestMemoryStore_EmptyKey(t *testing.T) {
	store := memory.NewStore()
	err := store.Save(context.Background(), "", domain.State{})
	assert.ErrorIs(t, err, domain.ErrEmptyKey)
}
