package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rushteam/topicstab/artifact"
	"github.com/rushteam/topicstab/core"
	"github.com/rushteam/topicstab/harness"
)

// termFlags 是 term ranking 命令的参数。
type termFlags struct {
	evalFlags
	top    int
	metric string
}

func addTermFlags(cmd *cobra.Command, a *app, f *termFlags) {
	addEvalFlags(cmd, a, &f.evalFlags)
	cmd.Flags().IntVarP(&f.top, "top", "t", 10, "number of top terms to use")
	cmd.Flags().StringVar(&f.metric, "metric", "", "topic similarity metric (jaccard, aj)")
}

func (f *termFlags) apply(cmd *cobra.Command, a *app) error {
	f.evalFlags.apply(cmd, a.cfg)
	if cmd.Flags().Changed("top") {
		a.cfg.Top = f.top
	}
	if cmd.Flags().Changed("metric") {
		a.cfg.Metric.Type = f.metric
	}
	return a.cfg.Validate()
}

// loadRankings 发现、读取并筛选 ranks 文件。
func (a *app) loadRankings(args []string) (*artifact.Set[core.RankingSet], error) {
	paths, err := artifact.Discover(artifact.KindRanks, args...)
	if err != nil {
		return nil, err
	}
	if err := requireArtifacts("term ranking", paths); err != nil {
		return nil, err
	}
	filter, err := a.cfg.BuildFilter()
	if err != nil {
		return nil, err
	}
	set, err := artifact.SelectRankings(paths, filter, a.cfg.Top)
	if err != nil {
		return nil, err
	}
	if len(set.Filtered) > 0 {
		a.logger.Info("artifacts excluded by filter", slog.Int("count", len(set.Filtered)), slog.String("where", filter.String()))
	}
	a.logger.Info("processing topic models", slog.Int("models", len(set.Items)))
	return set, nil
}

func newTermStabilityCmd(a *app) *cobra.Command {
	f := &termFlags{}
	cmd := &cobra.Command{
		Use:   "term-stability rank_file|directory ...",
		Short: "Average Term Stability (ATS) between all pairs of term ranking sets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.apply(cmd, a); err != nil {
				return err
			}
			set, err := a.loadRankings(args)
			if err != nil {
				return err
			}
			ats, err := a.cfg.BuildATS(a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("evaluating stability",
				slog.String("metric", ats.Name()),
				slog.Int("top", ats.Top),
				slog.String("normalization", string(ats.Normalization)),
			)
			h := harness.New(ats.Score,
				harness.WithWorkers[core.RankingSet](a.cfg.Workers),
				harness.WithLabels[core.RankingSet](set.Paths),
				harness.WithLogger[core.RankingSet](a.logger),
			)
			res, err := h.Run(cmd.Context(), set.Items)
			if err != nil {
				return err
			}
			return a.report(cmd.Context(), "ats", "stability", "ATS", res)
		},
	}
	addTermFlags(cmd, a, f)
	return cmd
}

func newTermDifferenceCmd(a *app) *cobra.Command {
	f := &termFlags{}
	cmd := &cobra.Command{
		Use:   "term-difference rank_file|directory ...",
		Short: "Average Descriptor Set Difference (ADSD) between all pairs of term ranking sets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.apply(cmd, a); err != nil {
				return err
			}
			if a.cfg.Top < 1 {
				return core.InvalidInputf(core.ModuleAgreement, "term-difference needs --top >= 1, got %d", a.cfg.Top)
			}
			set, err := a.loadRankings(args)
			if err != nil {
				return err
			}
			adsd, err := a.cfg.BuildADSD()
			if err != nil {
				return err
			}
			a.logger.Info("evaluating difference", slog.Int("top", adsd.Top), slog.String("base", string(adsd.Base)))
			h := harness.New(adsd.Score,
				harness.WithWorkers[core.RankingSet](a.cfg.Workers),
				harness.WithLabels[core.RankingSet](set.Paths),
				harness.WithLogger[core.RankingSet](a.logger),
			)
			res, err := h.Run(cmd.Context(), set.Items)
			if err != nil {
				return err
			}
			return a.report(cmd.Context(), "adsd", "difference", "ADSD", res)
		},
	}
	addTermFlags(cmd, a, f)
	return cmd
}
