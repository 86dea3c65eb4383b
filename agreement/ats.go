// Package agreement 比较两次模型运行得到的 RankingSet。
//
// RankingSetAgreement 通过最优一对一匹配计算 Average Term Stability（ATS）；
// ADSD 不做匹配，直接比较两侧 top 词项的并集。
package agreement

import (
	"context"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/topicstab/assignment"
	"github.com/rushteam/topicstab/core"
	"github.com/rushteam/topicstab/similarity"
)

// DefaultTop 是默认参与比较的 top 词项数。
const DefaultTop = 10

// Match 是一对被匹配的 topic 及其相似度。
type Match struct {
	TopicA int
	TopicB int
	Score  float64
}

// Result 是一次 RankingSetAgreement 比较的完整结果。
type Result struct {
	Score   float64
	Matches []Match
	// Unmatched 是较大一侧未参与匹配的 topic 数
	Unmatched int
}

// RankingSetAgreement 用 Metric + 最优匹配为两个 RankingSet 打出一个 [0,1] 的总分。
//
// 使用方式：
//
//	ats := agreement.NewRankingSetAgreement(similarity.JaccardBinary{}, agreement.WithTop(10))
//	score, err := ats.Similarity(a, b)
type RankingSetAgreement struct {
	Metric        similarity.Metric
	Top           int
	Normalization Normalization
	Logger        *slog.Logger
}

// Option 配置 RankingSetAgreement。
type Option func(*RankingSetAgreement)

// WithTop 设置 top-T 截断，<= 0 表示不截断。
func WithTop(top int) Option {
	return func(a *RankingSetAgreement) { a.Top = top }
}

// WithNormalization 设置 k_A ≠ k_B 时的归一化策略。
func WithNormalization(n Normalization) Option {
	return func(a *RankingSetAgreement) { a.Normalization = n }
}

// WithLogger 设置日志输出。
func WithLogger(l *slog.Logger) Option {
	return func(a *RankingSetAgreement) { a.Logger = l }
}

// NewRankingSetAgreement 创建 RankingSetAgreement，metric 为 nil 时使用 JaccardBinary。
func NewRankingSetAgreement(metric similarity.Metric, opts ...Option) *RankingSetAgreement {
	if metric == nil {
		metric = similarity.JaccardBinary{}
	}
	a := &RankingSetAgreement{
		Metric:        metric,
		Top:           DefaultTop,
		Normalization: NormalizeMatched,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *RankingSetAgreement) Name() string { return "ats." + a.Metric.Name() }

func (a *RankingSetAgreement) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// Similarity 返回两个 RankingSet 的 ATS。
func (a *RankingSetAgreement) Similarity(x, y core.RankingSet) (float64, error) {
	res, err := a.Compare(x, y)
	if err != nil {
		return 0, err
	}
	return res.Score, nil
}

// Score 适配 harness.ScoreFunc。
func (a *RankingSetAgreement) Score(_ context.Context, x, y core.RankingSet) (float64, error) {
	return a.Similarity(x, y)
}

// Compare 计算 ATS 并返回匹配明细。任一 RankingSet 为空或不合法（空 topic、重复词项）时返回 INVALID_INPUT。
func (a *RankingSetAgreement) Compare(x, y core.RankingSet) (*Result, error) {
	if err := validatePair(x, y); err != nil {
		return nil, err
	}
	x, y = x.Truncate(a.Top), y.Truncate(a.Top)

	m := a.buildMatrix(x, y)
	pairs, err := assignment.MaxWeight(m)
	if err != nil {
		return nil, core.MetricFailure(core.ModuleAgreement, err, "assignment failed")
	}

	res := &Result{
		Matches:   make([]Match, len(pairs)),
		Unmatched: max(len(x), len(y)) - len(pairs),
	}
	for i, p := range pairs {
		res.Matches[i] = Match{TopicA: p.Row, TopicB: p.Col, Score: p.Weight}
	}

	denom := len(pairs)
	if a.Normalization == NormalizeLarger {
		denom = max(len(x), len(y))
	}
	res.Score = assignment.Total(pairs) / float64(denom)
	return res, nil
}

func validatePair(x, y core.RankingSet) error {
	if len(x) == 0 || len(y) == 0 {
		return core.InvalidInputf(core.ModuleAgreement, "cannot compare empty ranking sets (k=%d, k=%d)", len(x), len(y))
	}
	if err := x.Validate(); err != nil {
		return core.WrapDomainError(core.ModuleAgreement, core.ErrorCodeInvalidInput, err, "agreement: first ranking set")
	}
	if err := y.Validate(); err != nil {
		return core.WrapDomainError(core.ModuleAgreement, core.ErrorCodeInvalidInput, err, "agreement: second ranking set")
	}
	return nil
}

// buildMatrix 构建 k_A×k_B 的相似度矩阵；单格计算失败记为 0，不影响其它格。
func (a *RankingSetAgreement) buildMatrix(x, y core.RankingSet) *mat.Dense {
	m := mat.NewDense(len(x), len(y), nil)
	for i, rx := range x {
		for j, ry := range y {
			s, err := a.Metric.Similarity(rx, ry)
			if err != nil {
				a.logger().Debug("similarity cell failed, scoring 0",
					"metric", a.Metric.Name(), "row", i, "col", j, "error", err)
				continue
			}
			m.Set(i, j, s)
		}
	}
	return m
}
