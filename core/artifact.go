package core

import "sort"

// Term 是最小的词项单元。
type Term = string

// TermRanking 是单个 topic 的有序词项列表，越靠前越重要，不允许重复。
type TermRanking []Term

// Truncate 返回前 top 个词项；top <= 0 或超过长度时返回原 ranking。
func (r TermRanking) Truncate(top int) TermRanking {
	if top <= 0 || top >= len(r) {
		return r
	}
	return r[:top]
}

// Set 返回 ranking 的无序词项集合（忽略顺序与权重）。
func (r TermRanking) Set() map[Term]struct{} {
	out := make(map[Term]struct{}, len(r))
	for _, t := range r {
		out[t] = struct{}{}
	}
	return out
}

// Validate 检查 ranking 非空且没有重复词项。
func (r TermRanking) Validate() error {
	if len(r) == 0 {
		return InvalidInputf(ModuleCore, "topic has no terms")
	}
	seen := make(map[Term]struct{}, len(r))
	for i, t := range r {
		if _, dup := seen[t]; dup {
			return InvalidInputf(ModuleCore, "duplicate term %q at position %d", t, i)
		}
		seen[t] = struct{}{}
	}
	return nil
}

// RankingSet 是一次模型拟合得到的 k 个 topic ranking，k >= 1。
type RankingSet []TermRanking

// K 返回 topic 数。
func (s RankingSet) K() int { return len(s) }

// Truncate 把每个 ranking 截断到前 top 个词项，不修改原 RankingSet。
func (s RankingSet) Truncate(top int) RankingSet {
	if top <= 0 {
		return s
	}
	out := make(RankingSet, len(s))
	for i, r := range s {
		out[i] = r.Truncate(top)
	}
	return out
}

// Size 返回 RankingSet 覆盖的不同词项数。
func (s RankingSet) Size() int {
	seen := make(map[Term]struct{})
	for _, r := range s {
		for _, t := range r {
			seen[t] = struct{}{}
		}
	}
	return len(seen)
}

// Validate 要求至少一个 topic，且每个 ranking 非空、无重复词项。
func (s RankingSet) Validate() error {
	if len(s) == 0 {
		return InvalidInputf(ModuleCore, "ranking set is empty")
	}
	for i, r := range s {
		if err := r.Validate(); err != nil {
			return WrapDomainError(ModuleCore, ErrorCodeInvalidInput, err, "core: topic %d", i)
		}
	}
	return nil
}

// Partition 把每个文档映射到 [0,k) 中的唯一簇下标。
// DocIDs 与 Labels 按位置对应。
type Partition struct {
	DocIDs []string
	Labels []int
}

// Len 返回文档数。
func (p Partition) Len() int { return len(p.DocIDs) }

// K 返回簇数（最大下标 + 1）。
func (p Partition) K() int {
	k := 0
	for _, l := range p.Labels {
		if l+1 > k {
			k = l + 1
		}
	}
	return k
}

// Assignments 返回 docID -> 簇下标 的映射。
func (p Partition) Assignments() map[string]int {
	out := make(map[string]int, len(p.DocIDs))
	for i, id := range p.DocIDs {
		out[id] = p.Labels[i]
	}
	return out
}

// Validate 检查每个文档恰好出现一次，且簇下标非负。
func (p Partition) Validate() error {
	if len(p.DocIDs) == 0 {
		return InvalidInputf(ModuleCore, "partition is empty")
	}
	if len(p.DocIDs) != len(p.Labels) {
		return InvalidInputf(ModuleCore, "partition has %d document ids but %d labels", len(p.DocIDs), len(p.Labels))
	}
	seen := make(map[string]struct{}, len(p.DocIDs))
	for i, id := range p.DocIDs {
		if _, dup := seen[id]; dup {
			return InvalidInputf(ModuleCore, "document %q assigned more than once", id)
		}
		seen[id] = struct{}{}
		if p.Labels[i] < 0 {
			return InvalidInputf(ModuleCore, "document %q has negative cluster index %d", id, p.Labels[i])
		}
	}
	return nil
}

// ClassAssignment 是 ground truth：类别标签 -> 文档 ID 集合，类别之间互不相交。
type ClassAssignment map[string][]string

// Labels 返回排序后的类别标签，排序后的下标即类别在 Partition 中的簇下标。
func (c ClassAssignment) Labels() []string {
	labels := make([]string, 0, len(c))
	for l := range c {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Validate 检查类别互不相交。
func (c ClassAssignment) Validate() error {
	if len(c) == 0 {
		return InvalidInputf(ModuleCore, "class assignment is empty")
	}
	owner := make(map[string]string)
	for _, label := range c.Labels() {
		for _, id := range c[label] {
			if prev, ok := owner[id]; ok {
				return InvalidInputf(ModuleCore, "document %q belongs to classes %q and %q", id, prev, label)
			}
			owner[id] = label
		}
	}
	return nil
}

// ToPartition 把 ground truth 转为与 docIDs 对齐的 Partition。
// docIDs 为空时包含所有已分类文档（按 ID 排序）；docIDs 中未分类的文档被忽略。
func (c ClassAssignment) ToPartition(docIDs []string) (Partition, error) {
	if err := c.Validate(); err != nil {
		return Partition{}, err
	}
	index := make(map[string]int)
	for i, label := range c.Labels() {
		for _, id := range c[label] {
			index[id] = i
		}
	}
	if len(docIDs) == 0 {
		docIDs = make([]string, 0, len(index))
		for id := range index {
			docIDs = append(docIDs, id)
		}
		sort.Strings(docIDs)
	}
	p := Partition{
		DocIDs: make([]string, 0, len(docIDs)),
		Labels: make([]int, 0, len(docIDs)),
	}
	for _, id := range docIDs {
		if l, ok := index[id]; ok {
			p.DocIDs = append(p.DocIDs, id)
			p.Labels = append(p.Labels, l)
		}
	}
	if len(p.DocIDs) == 0 {
		return Partition{}, InvalidInputf(ModuleCore, "no document in the corpus carries a class label")
	}
	return p, nil
}

// EnsembleMember 是一次独立运行的产物（同一语料上的 RankingSet 与 Partition）。
type EnsembleMember struct {
	Name      string
	Rankings  RankingSet
	Partition Partition
}

// Corpus 是语料元数据：文档 ID、词表、可选文本与可选 ground truth。
type Corpus struct {
	DocIDs    []string
	Terms     []string
	Documents []string
	Classes   ClassAssignment
}

// HasClasses 报告语料是否带有 ground truth（至少两个类别）。
func (c *Corpus) HasClasses() bool {
	return c != nil && len(c.Classes) >= 2
}
