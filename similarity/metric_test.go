package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/topicstab/core"
)

func TestJaccardBinary(t *testing.T) {
	m := JaccardBinary{}
	tests := []struct {
		name string
		a, b core.TermRanking
		want float64
	}{
		{"identical", core.TermRanking{"cat", "dog"}, core.TermRanking{"cat", "dog"}, 1},
		{"order ignored", core.TermRanking{"cat", "dog"}, core.TermRanking{"dog", "cat"}, 1},
		{"partial", core.TermRanking{"moon", "sun"}, core.TermRanking{"moon", "star"}, 1.0 / 3},
		{"disjoint", core.TermRanking{"a", "b"}, core.TermRanking{"c", "d"}, 0},
		{"both empty", core.TermRanking{}, core.TermRanking{}, 0},
		{"one empty", core.TermRanking{"a"}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab, err := m.Similarity(tt.a, tt.b)
			require.NoError(t, err)
			ba, err := m.Similarity(tt.b, tt.a)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, ab, 1e-12)
			assert.InDelta(t, ab, ba, 1e-12, "symmetric")
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.LessOrEqual(t, ab, 1.0)
		})
	}
}

func TestAverageJaccard(t *testing.T) {
	m := AverageJaccard{}
	a := core.TermRanking{"a", "b", "c"}

	s, err := m.Similarity(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, s, 1e-12)

	// 前缀: {a}/{b}=0, {a,b}/{b,a}=1, {a,b,c}/{b,a,d}=2/4
	s, err = m.Similarity(a, core.TermRanking{"b", "a", "d"})
	require.NoError(t, err)
	assert.InDelta(t, (0+1+0.5)/3, s, 1e-12)

	s, err = AverageJaccard{Depth: 1}.Similarity(a, core.TermRanking{"a", "z"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, s, 1e-12)

	_, err = m.Similarity(a, nil)
	assert.True(t, core.IsInvalidInput(err))
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"aj", "jaccard"}, SupportedTypes())
	assert.True(t, Supported("jaccard"))
	assert.False(t, Supported("cosine"))

	m, err := Build("aj", map[string]any{"depth": 5})
	require.NoError(t, err)
	assert.Equal(t, AverageJaccard{Depth: 5}, m)

	_, err = Build("aj", map[string]any{"depth": -1})
	assert.Error(t, err)
	_, err = Build("cosine", nil)
	assert.Error(t, err)
}
