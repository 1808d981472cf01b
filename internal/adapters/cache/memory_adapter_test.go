package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanaihang/mallsearch/internal/domain/providers"
)

func TestMemoryAdapter_SetGet(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	err := adapter.Set(ctx, "k", []byte("value"), time.Minute)
	require.NoError(t, err)

	got, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}

func TestMemoryAdapter_MissOnAbsentKey(t *testing.T) {
	adapter := NewMemoryAdapter()

	_, err := adapter.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestMemoryAdapter_Expiry(t *testing.T) {
	now := time.Now()
	adapter := &MemoryAdapter{
		entries: make(map[string]memoryEntry),
		now:     func() time.Time { return now },
	}
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("value"), 2*time.Minute))

	now = now.Add(time.Minute)
	_, err := adapter.Get(ctx, "k")
	assert.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = adapter.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestMemoryAdapter_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Now()
	adapter := &MemoryAdapter{
		entries: make(map[string]memoryEntry),
		now:     func() time.Time { return now },
	}
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("value"), 0))

	now = now.Add(48 * time.Hour)
	_, err := adapter.Get(ctx, "k")
	assert.NoError(t, err)
}

func TestMemoryAdapter_DeleteAndExists(t *testing.T) {
	adapter := NewMemoryAdapter()
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

func TestMemoryAdapter_GetReturnsCopy(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "k", []byte("value"), time.Minute))

	got, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'X'

	again, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again)
}
