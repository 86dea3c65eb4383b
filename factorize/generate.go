package factorize

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"sort"

	"github.com/james-bowman/nlp"
	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/topicstab/artifact"
	"github.com/rushteam/topicstab/core"
)

// GenerateOptions 控制集成生成。
type GenerateOptions struct {
	// K 是 topic 数
	K int
	// Runs 是独立运行次数
	Runs int
	// Iterations 是 NMF 最大迭代次数
	Iterations int
	// Seed 驱动文档采样与 fold 划分
	Seed uint64
	// SampleRatio 为每次运行采样的文档比例，(0,1]，1 表示全部
	SampleRatio float64
	// Folds > 1 时每次运行做 k-fold：每个 fold 依次被留出，其余文档参与拟合
	Folds int
	// Depth 是每个 topic 保留的词项数，<= 0 保留全部非零权重词项
	Depth int
	// OutDir 为空时不写文件
	OutDir string
	// Ext 是输出文件扩展名，默认 artifact.DefaultExt
	Ext    string
	Logger *slog.Logger
}

// DefaultGenerateOptions 返回默认参数。
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{K: 5, Runs: 1, Iterations: 100, Seed: 1000, SampleRatio: 1, Depth: 100}
}

func (o GenerateOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o GenerateOptions) validate(c *core.Corpus) error {
	switch {
	case c == nil || len(c.DocIDs) == 0:
		return core.InvalidInputf(core.ModuleCore, "empty corpus")
	case len(c.Documents) != len(c.DocIDs):
		return core.InvalidInputf(core.ModuleCore, "corpus has %d documents but %d texts", len(c.DocIDs), len(c.Documents))
	case len(c.Terms) == 0:
		return core.InvalidInputf(core.ModuleCore, "corpus has no terms")
	case o.K < 1:
		return core.InvalidInputf(core.ModuleCore, "k must be >= 1, got %d", o.K)
	case o.Runs < 1:
		return core.InvalidInputf(core.ModuleCore, "runs must be >= 1, got %d", o.Runs)
	case o.SampleRatio <= 0 || o.SampleRatio > 1:
		return core.InvalidInputf(core.ModuleCore, "sample ratio must be in (0,1], got %v", o.SampleRatio)
	case o.Folds == 1 || o.Folds < 0:
		return core.InvalidInputf(core.ModuleCore, "folds must be 0 or >= 2, got %d", o.Folds)
	case o.Folds > len(c.DocIDs):
		return core.InvalidInputf(core.ModuleCore, "folds (%d) exceed document count (%d)", o.Folds, len(c.DocIDs))
	}
	return nil
}

// Generate 在语料上运行 Runs 次 NMF（k-fold 模式下每次运行产出 Folds 个成员），
// 返回集成成员；OutDir 非空时写出 ranks_<suffix> 与 partition_<suffix> 文件。
func Generate(ctx context.Context, c *core.Corpus, opts GenerateOptions) ([]core.EnsembleMember, error) {
	if err := opts.validate(c); err != nil {
		return nil, err
	}
	if opts.Ext == "" {
		opts.Ext = artifact.DefaultExt
	}
	log := opts.logger()
	rng := rand.New(rand.NewPCG(opts.Seed, 0))

	vocab := make(map[string]int, len(c.Terms))
	for i, t := range c.Terms {
		vocab[t] = i
	}

	n := len(c.DocIDs)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	log.Info("applying nmf",
		slog.Int("k", opts.K),
		slog.Int("runs", opts.Runs),
		slog.Uint64("seed", opts.Seed),
		slog.Int("folds", opts.Folds),
		slog.Float64("sample", opts.SampleRatio),
	)

	var members []core.EnsembleMember
	for run := 1; run <= opts.Runs; run++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if opts.Folds > 1 {
			rng.Shuffle(n, func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
			for fold, held := range foldBounds(n, opts.Folds) {
				sample := make([]int, 0, n-(held[1]-held[0]))
				sample = append(sample, indices[:held[0]]...)
				sample = append(sample, indices[held[1]:]...)
				name := fmt.Sprintf("%d_%02d_%02d", opts.Seed, run, fold+1)
				m, err := runOnce(c, vocab, sample, name, opts)
				if err != nil {
					return nil, err
				}
				members = append(members, m)
			}
			continue
		}

		sample := indices
		if opts.SampleRatio < 1 {
			rng.Shuffle(n, func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
			sample = indices[:max(1, int(opts.SampleRatio*float64(n)))]
		}
		m, err := runOnce(c, vocab, sample, fmt.Sprintf("%d_%03d", opts.Seed, run), opts)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	log.Info("generated ensemble", slog.Int("members", len(members)))
	return members, nil
}

// foldBounds 返回每个 fold 在打乱后下标中的 [start, stop)，前 n%folds 个 fold 多一个文档。
func foldBounds(n, folds int) [][2]int {
	out := make([][2]int, folds)
	start := 0
	for f := range folds {
		size := n / folds
		if f < n%folds {
			size++
		}
		out[f] = [2]int{start, start + size}
		start += size
	}
	return out
}

func runOnce(c *core.Corpus, vocab map[string]int, sample []int, name string, opts GenerateOptions) (core.EnsembleMember, error) {
	log := opts.logger().With(slog.String("member", name))

	docs := make([]string, len(sample))
	ids := make([]string, len(sample))
	for i, idx := range sample {
		docs[i] = c.Documents[idx]
		ids[i] = c.DocIDs[idx]
	}

	rankings, labels, err := factorise(docs, vocab, c.Terms, opts)
	if err != nil {
		return core.EnsembleMember{}, fmt.Errorf("factorize %s: %w", name, err)
	}
	m := core.EnsembleMember{
		Name:      name,
		Rankings:  rankings,
		Partition: core.Partition{DocIDs: ids, Labels: labels},
	}
	log.Debug("fitted nmf", slog.Int("documents", len(ids)), slog.Int("terms", rankings.Size()))

	if opts.OutDir == "" {
		return m, nil
	}
	ranksPath := filepath.Join(opts.OutDir, "ranks_"+name+opts.Ext)
	if err := artifact.SaveRankings(ranksPath, nil, rankings); err != nil {
		return core.EnsembleMember{}, err
	}
	partPath := filepath.Join(opts.OutDir, "partition_"+name+opts.Ext)
	if err := artifact.SavePartition(partPath, m.Partition); err != nil {
		return core.EnsembleMember{}, err
	}
	log.Info("wrote ensemble member", slog.String("ranks", ranksPath), slog.String("partition", partPath))
	return m, nil
}

// factorise 对 docs 做 count -> TF-IDF -> NMF，返回每个 topic 的词项排名与每个文档的主导 topic。
// 词项权重取 NMF 的 W（terms × k，X ≈ WH），第 t 列即 topic t 的词项权重。
func factorise(docs []string, vocab map[string]int, terms []string, opts GenerateOptions) (core.RankingSet, []int, error) {
	vectoriser := nlp.NewCountVectoriser()
	vectoriser.Vocabulary = vocab
	tfidf := nlp.NewTfidfTransformer()
	nmf := nlp.NewNMF(opts.K)
	if opts.Iterations > 0 {
		nmf.Iterations = opts.Iterations
	}

	counts, err := vectoriser.Transform(docs...)
	if err != nil {
		return nil, nil, err
	}
	x, err := tfidf.FitTransform(counts)
	if err != nil {
		return nil, nil, err
	}
	h, err := nmf.FitTransform(x)
	if err != nil {
		return nil, nil, err
	}

	if nmf.Components == nil {
		return nil, nil, fmt.Errorf("nmf produced no term factors")
	}
	return topicTerms(nmf.Components, terms, opts.Depth), dominantTopics(h), nil
}

// topicTerms 按 W 的每一列为对应 topic 排序词项。
func topicTerms(w mat.Matrix, terms []string, depth int) core.RankingSet {
	_, k := w.Dims()
	rankings := make(core.RankingSet, k)
	for t := range k {
		rankings[t] = rankTerms(mat.Col(nil, t, w), terms, depth)
	}
	return rankings
}

// rankTerms 按权重降序（同权重按词表顺序）返回非零权重词项。
func rankTerms(w []float64, terms []string, depth int) core.TermRanking {
	idx := make([]int, 0, len(w))
	for i, v := range w {
		if v > 0 {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool { return w[idx[a]] > w[idx[b]] })
	if depth > 0 && len(idx) > depth {
		idx = idx[:depth]
	}
	out := make(core.TermRanking, len(idx))
	for i, j := range idx {
		out[i] = terms[j]
	}
	return out
}

// dominantTopics 返回每列（文档）权重最大的行（topic），平局取较小下标。
func dominantTopics(h mat.Matrix) []int {
	k, n := h.Dims()
	out := make([]int, n)
	for doc := range n {
		best := h.At(0, doc)
		for topic := 1; topic < k; topic++ {
			if v := h.At(topic, doc); v > best {
				best = v
				out[doc] = topic
			}
		}
	}
	return out
}
