package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryKV_GetSetDel(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "search:email:a@b.com", "42", 0))
	val, err := kv.Get(ctx, "search:email:a@b.com")
	require.NoError(t, err)
	require.Equal(t, "42", val)

	require.NoError(t, kv.Del(ctx, "search:email:a@b.com"))
	_, err = kv.Get(ctx, "search:email:a@b.com")
	require.ErrorIs(t, err, ErrMiss)

	// 删除不存在的 key 不报错
	require.NoError(t, kv.Del(ctx, "missing"))
}

func TestMemoryKV_TTLExpiry(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", 10*time.Millisecond))
	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", val)

	time.Sleep(20 * time.Millisecond)
	_, err = kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKV_ScanKeys(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "search:email:a@b.com", "1", 0))
	require.NoError(t, kv.Set(ctx, "search:phone:+5511999", "2", 0))
	require.NoError(t, kv.Set(ctx, "other", "3", 0))

	keys, err := kv.ScanKeys(ctx, "search:*")
	require.NoError(t, err)
	require.Len(t, keys, 2)

	keys, err = kv.ScanKeys(ctx, "search:email:*")
	require.NoError(t, err)
	require.Equal(t, []string{"search:email:a@b.com"}, keys)
}
