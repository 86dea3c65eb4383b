// Package topicstab 评估 topic model 集成的稳定性（Stability）与准确率（Accuracy）。
//
// 设计要点：
// - Pairwise-first: 所有评估都是对 r 个 artifact 的两两比较（harness），产出分数分布
// - Metric 可替换: topic 相似度（similarity）、集合一致性（agreement）、partition 指标（clustering）均按接口注入
// - 结果可追踪: 汇总统计、直方图、跳过的 pair 及原因都保留在 harness.Result 中
package topicstab

import (
	"context"

	"github.com/rushteam/topicstab/agreement"
	"github.com/rushteam/topicstab/core"
	"github.com/rushteam/topicstab/harness"
	"github.com/rushteam/topicstab/stats"
)

// 轻量 facade：便于用户直接 import "topicstab" 使用核心抽象。
type (
	TermRanking = core.TermRanking
	RankingSet  = core.RankingSet
	Partition   = core.Partition
	Result      = harness.Result
	Summary     = stats.Summary
)

// TermStability 以 JaccardBinary + ATS 对 sets 做两两比较，top <= 0 时不截断。
func TermStability(ctx context.Context, sets []RankingSet, top int) (*Result, error) {
	ats := agreement.NewRankingSetAgreement(nil, agreement.WithTop(top))
	return harness.New(ats.Score).Run(ctx, sets)
}

// TermDifference 以 ADSD 对 sets 做两两比较，top 必须 >= 1。
func TermDifference(ctx context.Context, sets []RankingSet, top int) (*Result, error) {
	adsd := agreement.NewADSD(top, agreement.BaseFirst)
	return harness.New(adsd.Score).Run(ctx, sets)
}
