package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/topicstab/core"
)

func TestMemoryStore_KV(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	_, err := s.Get(ctx, "missing")
	assert.True(t, core.IsStoreNotFound(err))

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.True(t, core.IsStoreNotFound(err))
}

func TestMemoryStore_SortedSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	require.NoError(t, s.ZAdd(ctx, "z", 0.2, "a"))
	require.NoError(t, s.ZAdd(ctx, "z", 0.9, "b"))
	require.NoError(t, s.ZAdd(ctx, "z", 0.5, "c"))

	all, err := s.ZRange(ctx, "z", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, all)

	top, err := s.ZRange(ctx, "z", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, top)

	score, err := s.ZScore(ctx, "z", "c")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, score, 1e-12)

	_, err = s.ZScore(ctx, "z", "nope")
	assert.True(t, core.IsStoreNotFound(err))

	require.NoError(t, s.ZRem(ctx, "z", "c"))
	require.NoError(t, s.ZRem(ctx, "missing", "c"))
	all, err = s.ZRange(ctx, "z", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, all)
}

func TestMemoryStore_Hash(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	require.NoError(t, s.HSet(ctx, "h", "f1", []byte("1")))
	require.NoError(t, s.HSet(ctx, "h", "f2", []byte("2")))
	got, err := s.HGetAll(ctx, "h")
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"f1": []byte("1"), "f2": []byte("2")}, got)

	empty, err := s.HGetAll(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, s.Expire(ctx, "h", 60))
	got, err = s.HGetAll(ctx, "h")
	require.NoError(t, err)
	assert.Len(t, got, 2, "not yet expired")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	kv, err := Open(ctx, "memory")
	require.NoError(t, err)
	assert.Equal(t, "memory", kv.Name())
	require.NoError(t, kv.Close())

	_, err = Open(ctx, "etcd://localhost")
	assert.True(t, core.IsNotSupported(err))
}
