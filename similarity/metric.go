// Package similarity 提供 topic（TermRanking）之间的相似度指标。
//
// 所有指标都实现 Metric 接口，RankingSetAgreement 只依赖该接口，
// 新增的 rank-aware 指标无需改动匹配逻辑。
package similarity

import (
	"github.com/rushteam/topicstab/core"
)

// Metric 是两个 topic 之间的打分函数，要求对称且结果在 [0,1]。
type Metric interface {
	Name() string
	Similarity(a, b core.TermRanking) (float64, error)
}

// JaccardBinary 把 ranking 视为无序集合：|A∩B| / |A∪B|。
// 并集为空时按约定返回 0。
type JaccardBinary struct{}

func (JaccardBinary) Name() string { return "jaccard" }

func (JaccardBinary) Similarity(a, b core.TermRanking) (float64, error) {
	return jaccard(a.Set(), b.Set()), nil
}

func (JaccardBinary) String() string { return "JaccardBinary" }

func jaccard(a, b map[core.Term]struct{}) float64 {
	// 遍历较小的集合
	if len(a) > len(b) {
		a, b = b, a
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// AverageJaccard 是 rank-aware 的 Jaccard：对深度 1..d 的前缀分别计算 Jaccard 后取平均，
// d = min(len(a), len(b), Depth)。靠前的词项参与更多前缀，因此权重更高。
type AverageJaccard struct {
	// Depth 最大前缀深度，<= 0 表示不限制
	Depth int
}

func (AverageJaccard) Name() string { return "aj" }

func (m AverageJaccard) Similarity(a, b core.TermRanking) (float64, error) {
	d := min(len(a), len(b))
	if m.Depth > 0 {
		d = min(d, m.Depth)
	}
	if d == 0 {
		return 0, core.InvalidInputf(core.ModuleSimilarity, "average jaccard needs non-empty rankings (got %d and %d terms)", len(a), len(b))
	}
	sa := make(map[core.Term]struct{}, d)
	sb := make(map[core.Term]struct{}, d)
	total := 0.0
	for i := 0; i < d; i++ {
		sa[a[i]] = struct{}{}
		sb[b[i]] = struct{}{}
		total += jaccard(sa, sb)
	}
	return total / float64(d), nil
}

func (AverageJaccard) String() string { return "AverageJaccard" }

var (
	_ Metric = JaccardBinary{}
	_ Metric = AverageJaccard{}
)
