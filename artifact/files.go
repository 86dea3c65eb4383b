package artifact

import (
	"github.com/rushteam/topicstab/core"
)

// RankingFile 是一个 RankingSet 的文件形态：每个 topic 一行词项（最重要的在前）。
type RankingFile struct {
	Labels   []string   `json:"labels,omitempty" yaml:"labels,omitempty"`
	Rankings [][]string `json:"rankings" yaml:"rankings"`
}

// PartitionFile 是一个 Partition 的文件形态。
type PartitionFile struct {
	DocIDs []string `json:"doc_ids" yaml:"doc_ids"`
	Labels []int    `json:"labels" yaml:"labels"`
}

// CorpusFile 是 parse 产出的语料文件形态。
type CorpusFile struct {
	DocIDs    []string            `json:"doc_ids" yaml:"doc_ids"`
	Terms     []string            `json:"terms" yaml:"terms"`
	Documents []string            `json:"documents,omitempty" yaml:"documents,omitempty"`
	Classes   map[string][]string `json:"classes,omitempty" yaml:"classes,omitempty"`
}

// SaveRankings 写出 RankingSet，labels 可为空（默认 topic 名为下标）。
func SaveRankings(path string, labels []string, rs core.RankingSet) error {
	f := RankingFile{Labels: labels, Rankings: make([][]string, len(rs))}
	for i, r := range rs {
		f.Rankings[i] = []string(r)
	}
	return Encode(path, f)
}

// LoadRankings 读取 RankingSet。内容合法性（非空、无重复）由 agreement 在比较时检查，
// 以便 harness 只跳过涉及该 artifact 的 pair。
func LoadRankings(path string) (core.RankingSet, error) {
	var f RankingFile
	if err := Decode(path, &f); err != nil {
		return nil, err
	}
	rs := make(core.RankingSet, len(f.Rankings))
	for i, r := range f.Rankings {
		rs[i] = core.TermRanking(r)
	}
	return rs, nil
}

// SavePartition 写出 Partition。
func SavePartition(path string, p core.Partition) error {
	return Encode(path, PartitionFile{DocIDs: p.DocIDs, Labels: p.Labels})
}

// LoadPartition 读取 Partition，不做校验（见 LoadRankings）。
func LoadPartition(path string) (core.Partition, error) {
	var f PartitionFile
	if err := Decode(path, &f); err != nil {
		return core.Partition{}, err
	}
	return core.Partition{DocIDs: f.DocIDs, Labels: f.Labels}, nil
}

// SaveCorpus 写出语料元数据。
func SaveCorpus(path string, c *core.Corpus) error {
	return Encode(path, CorpusFile{
		DocIDs:    c.DocIDs,
		Terms:     c.Terms,
		Documents: c.Documents,
		Classes:   c.Classes,
	})
}

// LoadCorpus 读取语料元数据。
func LoadCorpus(path string) (*core.Corpus, error) {
	var f CorpusFile
	if err := Decode(path, &f); err != nil {
		return nil, err
	}
	if len(f.DocIDs) == 0 {
		return nil, core.InvalidInputf(core.ModuleArtifact, "corpus %s has no documents", path)
	}
	return &core.Corpus{
		DocIDs:    f.DocIDs,
		Terms:     f.Terms,
		Documents: f.Documents,
		Classes:   core.ClassAssignment(f.Classes),
	}, nil
}
