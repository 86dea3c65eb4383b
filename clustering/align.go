package clustering

import (
	"github.com/rushteam/topicstab/core"
)

// Alignment 决定两个 partition 的文档集合不一致时如何处理。
type Alignment string

const (
	// AlignStrict 要求两侧文档 ID 集合完全相同，否则返回 INCOMPATIBLE_ARTIFACTS。
	AlignStrict Alignment = "strict"
	// AlignIntersect 只在共同文档上比较，至少需要 2 个共同文档。
	AlignIntersect Alignment = "intersect"
)

// ParseAlignment 解析配置中的对齐策略，空字符串为 AlignStrict。
func ParseAlignment(s string) (Alignment, error) {
	switch Alignment(s) {
	case "", AlignStrict:
		return AlignStrict, nil
	case AlignIntersect:
		return AlignIntersect, nil
	}
	return "", core.InvalidInputf(core.ModuleClustering, "unknown alignment %q (supported: strict, intersect)", s)
}

// Align 按文档 ID 对齐两个 partition，返回同序的两个标签序列（以 a 的文档顺序为准）。
func Align(a, b core.Partition, mode Alignment) ([]int, []int, error) {
	if err := a.Validate(); err != nil {
		return nil, nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, nil, err
	}
	bIdx := b.Assignments()

	if mode != AlignIntersect && a.Len() != b.Len() {
		return nil, nil, core.Incompatiblef(core.ModuleClustering,
			"partitions cover different documents (%d vs %d)", a.Len(), b.Len())
	}

	u := make([]int, 0, a.Len())
	v := make([]int, 0, a.Len())
	for i, id := range a.DocIDs {
		lb, ok := bIdx[id]
		if !ok {
			if mode == AlignIntersect {
				continue
			}
			return nil, nil, core.Incompatiblef(core.ModuleClustering, "document %q missing from second partition", id)
		}
		u = append(u, a.Labels[i])
		v = append(v, lb)
	}
	if len(u) < 2 {
		return nil, nil, core.Incompatiblef(core.ModuleClustering, "partitions share only %d documents", len(u))
	}
	return u, v, nil
}
