package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigGetInt64(t *testing.T) {
	cfg := map[string]any{"name": "aj", "depth": 5, "ratio": 0.8}

	assert.Equal(t, int64(5), ConfigGetInt64(cfg, "depth", 0))
	assert.Equal(t, int64(0), ConfigGetInt64(cfg, "ratio", 9), "float truncates")
	assert.Equal(t, int64(3), ConfigGetInt64(cfg, "missing", 3))
	assert.Equal(t, int64(7), ConfigGetInt64(cfg, "name", 7), "type mismatch falls back to default")
	assert.Equal(t, int64(4), ConfigGetInt64(nil, "depth", 4))
}
