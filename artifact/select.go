package artifact

import (
	"path/filepath"

	"github.com/rushteam/topicstab/core"
	"github.com/rushteam/topicstab/pkg/dsl"
)

// Set 是已读取并通过筛选的一组同类 artifact，Paths 与 Items 按位置对应。
type Set[T any] struct {
	Paths []string
	Items []T
	// Filtered 是被 --where 表达式排除的文件
	Filtered []string
}

// Attributes 返回 dsl.Filter 可见的 artifact 属性。
func Attributes(path string, kind Kind, topics, terms, docs int) map[string]any {
	return map[string]any{
		"name":   filepath.Base(path),
		"path":   path,
		"kind":   string(kind),
		"topics": int64(topics),
		"terms":  int64(terms),
		"docs":   int64(docs),
	}
}

// SelectRankings 读取 ranks 文件，截断到 top 后按 filter 筛选。
// 读取/解码失败或表达式求值失败都会中止。
func SelectRankings(paths []string, filter *dsl.Filter, top int) (*Set[core.RankingSet], error) {
	out := &Set[core.RankingSet]{}
	for _, p := range paths {
		rs, err := LoadRankings(p)
		if err != nil {
			return nil, err
		}
		rs = rs.Truncate(top)
		ok, err := filter.Match(Attributes(p, KindRanks, rs.K(), rs.Size(), 0))
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleArtifact, core.ErrorCodeInvalidInput, err, "artifact: filter %s", p)
		}
		if !ok {
			out.Filtered = append(out.Filtered, p)
			continue
		}
		out.Paths = append(out.Paths, p)
		out.Items = append(out.Items, rs)
	}
	return out, nil
}

// SelectPartitions 读取 partition 文件并按 filter 筛选。
func SelectPartitions(paths []string, filter *dsl.Filter) (*Set[core.Partition], error) {
	out := &Set[core.Partition]{}
	for _, p := range paths {
		part, err := LoadPartition(p)
		if err != nil {
			return nil, err
		}
		ok, err := filter.Match(Attributes(p, KindPartition, part.K(), 0, part.Len()))
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleArtifact, core.ErrorCodeInvalidInput, err, "artifact: filter %s", p)
		}
		if !ok {
			out.Filtered = append(out.Filtered, p)
			continue
		}
		out.Paths = append(out.Paths, p)
		out.Items = append(out.Items, part)
	}
	return out, nil
}
