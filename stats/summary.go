// Package stats 为 harness 产出的分数分布计算汇总统计与直方图。
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary 是分数分布的汇总统计。Std 为总体标准差（除以 n）。
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
	P25    float64
	P75    float64
}

// Summarize 计算汇总统计；values 为空时返回零值 Summary。
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	// 复制并排序
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Count: len(values),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
	}
	s.Mean, s.Std = stat.PopMeanStdDev(values, nil)
	if math.IsNaN(s.Std) {
		s.Std = 0
	}

	s.Median = Percentile(sorted, 0.5)
	s.P25 = Percentile(sorted, 0.25)
	s.P75 = Percentile(sorted, 0.75)
	return s
}

// Percentile 在已排序的数据上做线性插值分位数（与 numpy 默认行为一致）。
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
