package clustering

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/topicstab/core"
)

func TestMetrics(t *testing.T) {
	tests := []struct {
		name string
		u, v []int
		nmi  float64
		ari  float64
	}{
		{"identical", []int{0, 0, 1, 1, 2, 2}, []int{0, 0, 1, 1, 2, 2}, 1, 1},
		{"permuted labels", []int{0, 0, 1, 1, 2, 2}, []int{2, 2, 0, 0, 1, 1}, 1, 1},
		{"refinement", []int{0, 0, 1, 1}, []int{0, 0, 1, 2}, 0.8, 4.0 / 7},
		{"independent", []int{0, 0, 1, 1}, []int{0, 1, 0, 1}, 0, -0.5},
		{"single cluster both", []int{0, 0, 0}, []int{0, 0, 0}, 1, 1},
		{"single cluster one side", []int{0, 0, 0, 0}, []int{0, 1, 2, 3}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nmi, err := NMI(tt.u, tt.v)
			require.NoError(t, err)
			assert.InDelta(t, tt.nmi, nmi, 1e-9)

			back, err := NMI(tt.v, tt.u)
			require.NoError(t, err)
			assert.InDelta(t, nmi, back, 1e-12, "nmi is symmetric")

			ari, err := ARI(tt.u, tt.v)
			require.NoError(t, err)
			assert.InDelta(t, tt.ari, ari, 1e-9)
		})
	}
}

func TestAMI(t *testing.T) {
	same, err := AMI([]int{0, 0, 1, 1, 2, 2}, []int{1, 1, 0, 0, 2, 2})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, same, 1e-9)

	partial, err := AMI([]int{0, 0, 0, 1, 1, 1}, []int{0, 0, 1, 1, 2, 2})
	require.NoError(t, err)
	assert.Less(t, partial, 1.0)

	trivial, err := AMI([]int{3, 3}, []int{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, trivial)
}

func TestVI(t *testing.T) {
	vi, err := VI([]int{0, 0, 1, 1}, []int{1, 1, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, vi, 1e-12)

	vi, err = VI([]int{0, 0, 1, 1}, []int{0, 1, 0, 1})
	require.NoError(t, err)
	assert.Greater(t, vi, 0.0)
}

func TestMetrics_Errors(t *testing.T) {
	for name, fn := range map[string]LabelFunc{"nmi": NMI, "ami": AMI, "ari": ARI, "vi": VI} {
		t.Run(name, func(t *testing.T) {
			_, err := fn([]int{0, 1}, []int{0})
			assert.True(t, core.IsIncompatible(err))
			_, err = fn(nil, nil)
			assert.True(t, core.IsInvalidInput(err))
		})
	}
}

func partition(ids []string, labels ...int) core.Partition {
	return core.Partition{DocIDs: ids, Labels: labels}
}

func TestAlign(t *testing.T) {
	a := partition([]string{"d1", "d2", "d3"}, 0, 1, 1)
	b := partition([]string{"d3", "d1", "d2"}, 5, 4, 5)

	u, v, err := Align(a, b, AlignStrict)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1}, u)
	assert.Equal(t, []int{4, 5, 5}, v)

	c := partition([]string{"d1", "d2", "x"}, 0, 0, 1)
	_, _, err = Align(a, c, AlignStrict)
	assert.True(t, core.IsIncompatible(err))

	u, v, err = Align(a, c, AlignIntersect)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, u)
	assert.Equal(t, []int{0, 0}, v)

	short := partition([]string{"d1", "d2"}, 0, 1)
	_, _, err = Align(a, short, AlignStrict)
	assert.True(t, core.IsIncompatible(err))

	lonely := partition([]string{"d1", "y"}, 0, 1)
	_, _, err = Align(a, lonely, AlignIntersect)
	assert.True(t, core.IsIncompatible(err))

	_, _, err = Align(a, partition([]string{"d1", "d1"}, 0, 1), AlignIntersect)
	assert.True(t, core.IsInvalidInput(err))
}

func TestParseAlignment(t *testing.T) {
	a, err := ParseAlignment("")
	require.NoError(t, err)
	assert.Equal(t, AlignStrict, a)
	a, err = ParseAlignment("intersect")
	require.NoError(t, err)
	assert.Equal(t, AlignIntersect, a)
	_, err = ParseAlignment("union")
	assert.True(t, core.IsInvalidInput(err))
}

func TestParseMeasures(t *testing.T) {
	assert.Equal(t, []string{"ami", "ari", "nmi", "vi"}, Measures())

	got, err := ParseMeasures(" NMI, ari ,,")
	require.NoError(t, err)
	assert.Equal(t, []string{"nmi", "ari"}, got)

	_, err = ParseMeasures("nmi,purity")
	assert.Error(t, err)
	_, err = ParseMeasures(" , ")
	assert.Error(t, err)
}

func TestMeasure_Score(t *testing.T) {
	m, err := NewMeasure("NMI", AlignStrict)
	require.NoError(t, err)
	assert.Equal(t, "nmi", m.Name)

	a := partition([]string{"d1", "d2", "d3", "d4"}, 0, 0, 1, 1)
	b := partition([]string{"d4", "d3", "d2", "d1"}, 0, 0, 1, 1)
	s, err := m.Score(context.Background(), a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, s, 1e-9)

	_, err = m.Score(context.Background(), a, partition([]string{"d1", "d2"}, 0, 1))
	assert.True(t, core.IsIncompatible(err))

	_, err = NewMeasure("purity", AlignStrict)
	assert.Error(t, err)
}
