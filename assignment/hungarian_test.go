package assignment

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/topicstab/core"
)

func TestMaxWeight_Square(t *testing.T) {
	w := mat.NewDense(3, 3, []float64{
		0.1, 0.9, 0.0,
		0.8, 0.2, 0.0,
		0.0, 0.0, 0.5,
	})
	pairs, err := MaxWeight(w)
	require.NoError(t, err)
	assert.Equal(t, []Pair{
		{Row: 0, Col: 1, Weight: 0.9},
		{Row: 1, Col: 0, Weight: 0.8},
		{Row: 2, Col: 2, Weight: 0.5},
	}, pairs)
	assert.InDelta(t, 2.2, Total(pairs), 1e-12)
}

func TestMaxWeight_GlobalOptimum(t *testing.T) {
	// 贪心会先取 0.9（0,0），总和 0.9+0.1；最优是 0.8+0.8
	w := mat.NewDense(2, 2, []float64{
		0.9, 0.8,
		0.8, 0.1,
	})
	pairs, err := MaxWeight(w)
	require.NoError(t, err)
	assert.InDelta(t, 1.6, Total(pairs), 1e-12)
}

func TestMaxWeight_Rectangular(t *testing.T) {
	wide := mat.NewDense(2, 3, []float64{
		0.1, 0.2, 0.9,
		0.7, 0.1, 0.3,
	})
	pairs, err := MaxWeight(wide)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Row: 0, Col: 2, Weight: 0.9}, {Row: 1, Col: 0, Weight: 0.7}}, pairs)

	tall := mat.NewDense(3, 1, []float64{0.2, 0.6, 0.4})
	pairs, err = MaxWeight(tall)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{Row: 1, Col: 0, Weight: 0.6}}, pairs)
}

func TestMaxWeight_Deterministic(t *testing.T) {
	// 全部平局：字典序最小的是对角线
	w := mat.NewDense(3, 3, []float64{
		0.5, 0.5, 0.5,
		0.5, 0.5, 0.5,
		0.5, 0.5, 0.5,
	})
	first, err := MaxWeight(w)
	require.NoError(t, err)
	for range 10 {
		again, err := MaxWeight(w)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, []Pair{
		{Row: 0, Col: 0, Weight: 0.5},
		{Row: 1, Col: 1, Weight: 0.5},
		{Row: 2, Col: 2, Weight: 0.5},
	}, first)
}

func TestMaxWeight_TieBreak(t *testing.T) {
	tests := []struct {
		name string
		w    *mat.Dense
		want []Pair
	}{
		{
			name: "lowest row takes lowest column",
			w: mat.NewDense(2, 2, []float64{
				0.5, 1,
				0, 0.5,
			}),
			want: []Pair{{Row: 0, Col: 0, Weight: 0.5}, {Row: 1, Col: 1, Weight: 0.5}},
		},
		{
			name: "wide",
			w: mat.NewDense(2, 3, []float64{
				1, 1, 1,
				1, 1, 1,
			}),
			want: []Pair{{Row: 0, Col: 0, Weight: 1}, {Row: 1, Col: 1, Weight: 1}},
		},
		{
			name: "tall prefers matching lower rows",
			w:    mat.NewDense(3, 1, []float64{0.5, 0.5, 0.5}),
			want: []Pair{{Row: 0, Col: 0, Weight: 0.5}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MaxWeight(tt.w)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaxWeight_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	levels := []float64{0, 0.5, 1}
	for trial := range 500 {
		rows, cols := 2+rng.IntN(3), 2+rng.IntN(3)
		data := make([]float64, rows*cols)
		for i := range data {
			data[i] = levels[rng.IntN(len(levels))]
		}
		w := mat.NewDense(rows, cols, data)

		got, err := MaxWeight(w)
		require.NoError(t, err)
		assert.Equal(t, bruteForce(w), got, "trial %d: %v", trial, data)
	}
}

// bruteForce 枚举所有 min(rows, cols) 条边的匹配，返回总权重最大且字典序最小的一个。
func bruteForce(w *mat.Dense) []Pair {
	rows, cols := w.Dims()
	size := min(rows, cols)
	var best []Pair
	bestTotal := math.Inf(-1)
	used := make([]bool, cols)
	var cur []Pair
	var walk func(i int)
	walk = func(i int) {
		if len(cur) == size {
			total := Total(cur)
			// 按字典序枚举，只有严格更大才替换
			if total > bestTotal+1e-9 {
				best, bestTotal = append([]Pair(nil), cur...), total
			}
			return
		}
		if i == rows || rows-i < size-len(cur) {
			return
		}
		for j := 0; j < cols; j++ {
			if used[j] {
				continue
			}
			used[j] = true
			cur = append(cur, Pair{Row: i, Col: j, Weight: w.At(i, j)})
			walk(i + 1)
			cur = cur[:len(cur)-1]
			used[j] = false
		}
		walk(i + 1)
	}
	walk(0)
	return best
}

func TestMaxWeight_Invalid(t *testing.T) {
	_, err := MaxWeight(nil)
	assert.True(t, core.IsInvalidInput(err))

	_, err = MaxWeight(mat.NewDense(1, 2, []float64{0.1, math.NaN()}))
	assert.True(t, core.IsInvalidInput(err))

	_, err = MaxWeight(mat.NewDense(1, 1, []float64{math.Inf(1)}))
	assert.True(t, core.IsInvalidInput(err))
}
