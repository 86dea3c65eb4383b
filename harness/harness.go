// Package harness 对 r 个同类 artifact 做两两比较，汇总为分数分布。
//
// 比较函数由调用方注入（ATS、ADSD、NMI 等）。每个 pair 相互独立：
// 单个 pair 失败只会被记录并跳过，不会中断批次或污染其它 pair 的结果。
package harness

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/topicstab/core"
)

// ScoreFunc 比较两个 artifact，可能返回错误。
type ScoreFunc[T any] func(ctx context.Context, a, b T) (float64, error)

// Harness 是并发的 pairwise 比较驱动器。
type Harness[T any] struct {
	Score    ScoreFunc[T]
	Topology Topology
	Workers  int // 并发数，<= 0 时为 GOMAXPROCS
	Labels   []string
	Logger   *slog.Logger
}

// Option 配置 Harness。
type Option[T any] func(*Harness[T])

// WithWorkers 设置并发 worker 数。
func WithWorkers[T any](n int) Option[T] {
	return func(h *Harness[T]) { h.Workers = n }
}

// WithTopology 设置 pair 拓扑。
func WithTopology[T any](t Topology) Option[T] {
	return func(h *Harness[T]) { h.Topology = t }
}

// WithLabels 设置 artifact 名称，用于日志与报告。
func WithLabels[T any](labels []string) Option[T] {
	return func(h *Harness[T]) { h.Labels = labels }
}

// WithLogger 设置日志输出。
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(h *Harness[T]) { h.Logger = l }
}

// New 创建 Harness。
func New[T any](score ScoreFunc[T], opts ...Option[T]) *Harness[T] {
	h := &Harness[T]{Score: score, Topology: AllPairs}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// partial 是单个 worker 的本地结果，worker 之间不共享可变状态。
type partial struct {
	scores  []PairScore
	skipped []PairFailure
}

type pair struct{ i, j int }

// Run 比较 items 中的所有 pair。
//
// len(items) < 2 时返回 INSUFFICIENT_INPUT；Score 为 nil 时返回 INVALID_INPUT。
// 单个 pair 的错误、非有限分数或 panic 都只导致该 pair 被跳过并记录 warning。
// 只有 ctx 被取消时 Run 才会中途返回错误。
func (h *Harness[T]) Run(ctx context.Context, items []T) (*Result, error) {
	if h.Score == nil {
		return nil, core.InvalidInputf(core.ModuleHarness, "score function is nil")
	}
	r := len(items)
	if r < 2 {
		return nil, core.InsufficientInputf(core.ModuleHarness, "need at least 2 artifacts, got %d", r)
	}
	if len(h.Labels) > 0 && len(h.Labels) != r {
		return nil, core.InvalidInputf(core.ModuleHarness, "%d labels for %d artifacts", len(h.Labels), r)
	}

	possible := h.Topology.Count(r)
	workers := h.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, possible)

	eg, egCtx := errgroup.WithContext(ctx)
	tasks := make(chan pair)
	partials := make([]partial, workers)

	// 生产者：惰性遍历 pair 流
	eg.Go(func() error {
		defer close(tasks)
		for i, j := range h.Topology.Pairs(r) {
			select {
			case tasks <- pair{i, j}:
			case <-egCtx.Done():
				return egCtx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		local := &partials[w]
		eg.Go(func() error {
			for t := range tasks {
				if err := egCtx.Err(); err != nil {
					return err
				}
				score, err := h.scorePair(egCtx, items[t.i], items[t.j])
				if err != nil {
					if ctxErr := ctx.Err(); ctxErr != nil {
						return ctxErr
					}
					h.logger().Warn("skipping pair",
						"pair", fmt.Sprintf("(%d,%d)", t.i, t.j),
						"a", label(h.Labels, t.i),
						"b", label(h.Labels, t.j),
						"error", err)
					local.skipped = append(local.skipped, PairFailure{I: t.i, J: t.j, Err: err})
					continue
				}
				local.scores = append(local.scores, PairScore{I: t.i, J: t.j, Score: score})
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("harness: %w", err)
	}

	res := &Result{
		Topology: h.Topology,
		Labels:   h.Labels,
		Possible: possible,
	}
	for _, p := range partials {
		res.Scores = append(res.Scores, p.scores...)
		res.Skipped = append(res.Skipped, p.skipped...)
	}
	slices.SortFunc(res.Scores, func(a, b PairScore) int {
		return cmp.Or(cmp.Compare(a.I, b.I), cmp.Compare(a.J, b.J))
	})
	slices.SortFunc(res.Skipped, func(a, b PairFailure) int {
		return cmp.Or(cmp.Compare(a.I, b.I), cmp.Compare(a.J, b.J))
	})

	h.logger().Info("pairwise comparison finished",
		"topology", h.Topology.String(),
		"artifacts", r,
		"compared", res.Compared(),
		"possible", possible,
		"skipped", len(res.Skipped))
	return res, nil
}

// scorePair 把 panic 与非有限分数转换为 METRIC_COMPUTATION 错误。
func (h *Harness[T]) scorePair(ctx context.Context, a, b T) (score float64, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = core.MetricFailure(core.ModuleHarness, fmt.Errorf("%v", rec), "score function panicked")
		}
	}()
	score, err = h.Score(ctx, a, b)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, core.MetricFailure(core.ModuleHarness, nil, "non-finite score %v", score)
	}
	return score, nil
}

func (h *Harness[T]) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func label(labels []string, i int) string {
	if i >= 0 && i < len(labels) {
		return labels[i]
	}
	return "#" + strconv.Itoa(i)
}
