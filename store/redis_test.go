package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/topicstab/core"
)

// 需要本地 Redis：TOPICSTAB_REDIS_ADDR=localhost:6379 go test ./store/...
func TestRedisStore_Recorder(t *testing.T) {
	addr := os.Getenv("TOPICSTAB_REDIS_ADDR")
	if addr == "" {
		t.Skip("TOPICSTAB_REDIS_ADDR not set")
	}
	ctx := context.Background()

	kv, err := NewRedisStoreFromURL(ctx, "redis://"+addr+"/15")
	require.NoError(t, err)
	defer kv.Close()

	rec := NewRecorder(kv, "topicstab-test", 60)
	id, err := rec.Record(ctx, "adsd", sampleResult())
	require.NoError(t, err)

	run, err := rec.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "adsd", run.Kind)
	assert.Len(t, run.Pairs, 2)
	assert.Equal(t, "m0", run.Pairs[0].A)

	require.NoError(t, rec.Delete(ctx, id))
	_, err = rec.Load(ctx, id)
	assert.True(t, core.IsNotFound(err))
}
