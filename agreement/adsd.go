package agreement

import (
	"context"

	"github.com/rushteam/topicstab/core"
)

// ADSD 计算 Average Descriptor Set Difference：
// 两个模型 top-T 词项并集的对称差大小 / (k × T)。
// 这是差异度而非相似度，越低越相似，结果不做反转。
type ADSD struct {
	Top  int
	Base Base
}

// NewADSD 创建 ADSD，base 为空时使用 BaseFirst。
func NewADSD(top int, base Base) *ADSD {
	if base == "" {
		base = BaseFirst
	}
	return &ADSD{Top: top, Base: base}
}

func (d *ADSD) Name() string { return "adsd" }

// Difference 返回 x 与 y 的 ADSD。
func (d *ADSD) Difference(x, y core.RankingSet) (float64, error) {
	if d.Top < 1 {
		return 0, core.InvalidInputf(core.ModuleAgreement, "adsd needs top >= 1, got %d", d.Top)
	}
	if err := validatePair(x, y); err != nil {
		return 0, err
	}
	tx, ty := pooledTerms(x, d.Top), pooledTerms(y, d.Top)
	diff := 0
	for t := range tx {
		if _, ok := ty[t]; !ok {
			diff++
		}
	}
	for t := range ty {
		if _, ok := tx[t]; !ok {
			diff++
		}
	}
	return float64(diff) / (d.Base.k(len(x), len(y)) * float64(d.Top)), nil
}

// Score 适配 harness.ScoreFunc。
func (d *ADSD) Score(_ context.Context, x, y core.RankingSet) (float64, error) {
	return d.Difference(x, y)
}

func pooledTerms(s core.RankingSet, top int) map[core.Term]struct{} {
	out := make(map[core.Term]struct{}, len(s)*top)
	for _, r := range s.Truncate(top) {
		for _, t := range r {
			out[t] = struct{}{}
		}
	}
	return out
}
