package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Match(t *testing.T) {
	ranks := map[string]any{
		"name": "ranks_42_3.gob", "path": "out/ranks_42_3.gob", "kind": "ranks",
		"topics": 10, "terms": 87, "docs": 0,
	}
	part := map[string]any{
		"name": "partition_42_3.gob", "path": "out/partition_42_3.gob", "kind": "partition",
		"topics": 10, "terms": 0, "docs": 1500,
	}

	tests := []struct {
		expr      string
		wantRanks bool
		wantPart  bool
	}{
		{"", true, true},
		{`artifact.kind == "ranks"`, true, false},
		{`artifact.topics == 10`, true, true},
		{`artifact.name.startsWith("partition_")`, false, true},
		{`artifact.kind == "partition" && artifact.docs > 1000`, false, true},
		{`artifact.terms >= 50 || artifact.docs < 10`, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := NewFilter(tt.expr)
			require.NoError(t, err)
			got, err := f.Match(ranks)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRanks, got)
			got, err = f.Match(part)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPart, got)
		})
	}
}

func TestFilter_Errors(t *testing.T) {
	_, err := NewFilter(`artifact.topics ==`)
	assert.Error(t, err)

	f, err := NewFilter(`artifact.topics + 1`)
	require.NoError(t, err)
	_, err = f.Match(map[string]any{"topics": 3})
	assert.Error(t, err, "non-boolean result")

	var nilFilter *Filter
	ok, err := nilFilter.Match(nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
