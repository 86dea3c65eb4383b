// Package clustering 提供聚类一致性指标（NMI / AMI / ARI / VI），
// 作为 harness 的外部打分函数比较 partition 与 partition、或 partition 与 ground truth。
//
// 所有函数都接收两个已对齐的标签序列（同一位置对应同一文档）。
package clustering

import (
	"math"

	"github.com/rushteam/topicstab/core"
)

const eps = 2.220446049250313e-16

func checkLabels(u, v []int) error {
	if len(u) != len(v) {
		return core.Incompatiblef(core.ModuleClustering, "label sequences differ in length (%d vs %d)", len(u), len(v))
	}
	if len(u) == 0 {
		return core.InvalidInputf(core.ModuleClustering, "empty label sequences")
	}
	return nil
}

// trivialMatch 对应两侧都只有一个簇（数据未被划分）的特殊情形，视为完全一致。
func trivialMatch(c *contingency) bool {
	return len(c.rowSums) == 1 && len(c.colSums) == 1
}

// NMI 计算归一化互信息，归一化项为两侧熵的算术平均。结果在 [0,1]。
func NMI(u, v []int) (float64, error) {
	if err := checkLabels(u, v); err != nil {
		return 0, err
	}
	c := newContingency(u, v)
	if trivialMatch(c) {
		return 1, nil
	}
	mi := c.mutualInfo()
	if mi == 0 {
		return 0, nil
	}
	norm := (entropy(c.rowSums, c.n) + entropy(c.colSums, c.n)) / 2
	return math.Min(mi/math.Max(norm, eps), 1), nil
}

// AMI 计算调整互信息：(MI - E[MI]) / (mean(H_U, H_V) - E[MI])。
// 随机划分期望为 0，完全一致为 1，可能为负。
func AMI(u, v []int) (float64, error) {
	if err := checkLabels(u, v); err != nil {
		return 0, err
	}
	c := newContingency(u, v)
	if trivialMatch(c) {
		return 1, nil
	}
	mi := c.mutualInfo()
	emi := c.expectedMutualInfo()
	norm := (entropy(c.rowSums, c.n) + entropy(c.colSums, c.n)) / 2
	denom := norm - emi
	if denom < 0 {
		denom = math.Min(denom, -eps)
	} else {
		denom = math.Max(denom, eps)
	}
	return (mi - emi) / denom, nil
}

// ARI computes the Adjusted Rand Index between two cluster partitions.
//
// ARI = (RI - Expected_RI) / (Max_RI - Expected_RI)
//
// Values range from -1 (worse than random) to 1 (perfect agreement). 0 = random.
func ARI(u, v []int) (float64, error) {
	if err := checkLabels(u, v); err != nil {
		return 0, err
	}
	c := newContingency(u, v)

	sumNijC2 := 0.0
	for i := range c.nij {
		for j := range c.nij[i] {
			sumNijC2 += comb2(c.nij[i][j])
		}
	}
	sumAiC2 := 0.0
	for _, a := range c.rowSums {
		sumAiC2 += comb2(a)
	}
	sumBjC2 := 0.0
	for _, b := range c.colSums {
		sumBjC2 += comb2(b)
	}

	nC2 := comb2(c.n)
	if nC2 == 0 {
		return 1, nil
	}
	expectedIndex := (sumAiC2 * sumBjC2) / nC2
	maxIndex := 0.5 * (sumAiC2 + sumBjC2)

	denominator := maxIndex - expectedIndex
	if math.Abs(denominator) < 1e-12 {
		return 1, nil // Perfect agreement (both are 0)
	}
	return (sumNijC2 - expectedIndex) / denominator, nil
}

// VI computes the variation of information H(U|V) + H(V|U) in nats.
// Lower is better; 0 means identical partitions.
func VI(u, v []int) (float64, error) {
	if err := checkLabels(u, v); err != nil {
		return 0, err
	}
	c := newContingency(u, v)
	hu := entropy(c.rowSums, c.n)
	hv := entropy(c.colSums, c.n)
	return math.Max(hu+hv-2*c.mutualInfo(), 0), nil
}
