package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanaihang/mallsearch/internal/domain/providers"
	redisclient "github.com/hanaihang/mallsearch/internal/infrastructure/clients/redis"
)

func newRedisAdapter(t *testing.T) (providers.CacheProvider, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redisclient.NewClientFromAddr(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewRedisAdapter(client), mr
}

func TestRedisAdapter_SetGet(t *testing.T) {
	adapter, _ := newRedisAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("value"), time.Minute))

	got, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}

func TestRedisAdapter_MissOnAbsentKey(t *testing.T) {
	adapter, _ := newRedisAdapter(t)

	_, err := adapter.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestRedisAdapter_Expiry(t *testing.T) {
	adapter, mr := newRedisAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("value"), 2*time.Minute))

	mr.FastForward(time.Minute)
	_, err := adapter.Get(ctx, "k")
	assert.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = adapter.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestRedisAdapter_DeleteAndExists(t *testing.T) {
	adapter, _ := newRedisAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("value"), time.Minute))

	exists, err := adapter.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, adapter.Delete(ctx, "k"))

	exists, err = adapter.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}
