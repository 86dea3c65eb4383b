package harness

import (
	"github.com/rushteam/topicstab/stats"
)

// PairScore 是一个成功比较的 pair。
type PairScore struct {
	I     int
	J     int
	Score float64
}

// PairFailure 是一个被跳过的 pair 及其原因。
type PairFailure struct {
	I   int
	J   int
	Err error
}

// Result 是一次 harness 运行的产物，运行结束后不再修改。
type Result struct {
	Topology Topology
	Labels   []string
	// Scores 按 (I, J) 升序
	Scores []PairScore
	// Skipped 按 (I, J) 升序
	Skipped  []PairFailure
	Possible int
}

// Compared 返回实际进入分布的 pair 数。
func (r *Result) Compared() int { return len(r.Scores) }

// Distribution 返回分数分布（与 Scores 同序）。
func (r *Result) Distribution() []float64 {
	out := make([]float64, len(r.Scores))
	for i, s := range r.Scores {
		out[i] = s.Score
	}
	return out
}

// Summary 返回分布的汇总统计。
func (r *Result) Summary() stats.Summary {
	return stats.Summarize(r.Distribution())
}

// Histogram 返回分布的直方图，width <= 0 时使用默认宽度。
func (r *Result) Histogram(width float64) (*stats.Histogram, error) {
	if width <= 0 {
		width = stats.DefaultBinWidth
	}
	return stats.NewHistogram(r.Distribution(), width)
}

// Label 返回第 i 个 artifact 的名称。
func (r *Result) Label(i int) string {
	return label(r.Labels, i)
}

// ItemScores 按 artifact 下标收集其参与的成功 pair 的分数，n 为 artifact 数。
func (r *Result) ItemScores(n int) [][]float64 {
	out := make([][]float64, n)
	for _, s := range r.Scores {
		if s.I < n {
			out[s.I] = append(out[s.I], s.Score)
		}
		if s.J < n {
			out[s.J] = append(out[s.J], s.Score)
		}
	}
	return out
}
