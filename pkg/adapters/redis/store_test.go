package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/layout/pkg/adapters/redis"
	"github.com/aretw0/layout/pkg/codec"
	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunSnapshotStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_ContractCBOR(t *testing.T) {
	_, client := newClient(t)
	ports.RunSnapshotStoreContract(t, redis.NewFromClient(client, redis.WithCodec(codec.CBORCodec{})))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	now := time.Now()
	clock := func() time.Time { return now }
	store := redis.NewFromClient(client, redis.WithTTL(time.Second), redis.WithClock(clock))
	ctx := context.Background()

	// 1. Save
	require.NoError(t, store.Save(ctx, "grid", domain.State{"foo": "bar"}))

	// 2. Listed immediately
	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, "grid")

	// 3. Expire the key in redis and advance our clock past the index score
	mr.FastForward(2 * time.Second)
	now = now.Add(2 * time.Second)

	_, err = store.Load(ctx, "grid")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	// 4. The index is pruned lazily
	keys, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "grid", domain.State{"page": 1}))

	assert.True(t, mr.Exists("custom:app:grid"), "expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "expected index with custom prefix to exist")

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"grid"}, keys)

	require.NoError(t, store.Delete(ctx, "grid"))
	assert.False(t, mr.Exists("custom:app:grid"))
}

func TestRedisStore_EmptyKey(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	assert.ErrorIs(t, store.Save(context.Background(), "", domain.State{}), domain.ErrEmptyKey)
}
