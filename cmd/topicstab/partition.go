package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rushteam/topicstab/artifact"
	"github.com/rushteam/topicstab/clustering"
	"github.com/rushteam/topicstab/core"
	"github.com/rushteam/topicstab/export"
	"github.com/rushteam/topicstab/harness"
	"github.com/rushteam/topicstab/stats"
)

// partitionFlags 是 partition 命令的参数。
type partitionFlags struct {
	evalFlags
	measures  string
	alignment string
}

func addPartitionFlags(cmd *cobra.Command, a *app, f *partitionFlags, defaultMeasures string) {
	addEvalFlags(cmd, a, &f.evalFlags)
	cmd.Flags().StringVarP(&f.measures, "measures", "m", defaultMeasures, "comma-separated validation measures (nmi, ami, ari, vi)")
	cmd.Flags().StringVar(&f.alignment, "alignment", "", "document alignment between partitions (strict, intersect)")
}

func (f *partitionFlags) apply(cmd *cobra.Command, a *app) error {
	f.evalFlags.apply(cmd, a.cfg)
	if cmd.Flags().Changed("measures") {
		a.cfg.Measures = strings.Split(f.measures, ",")
	}
	if cmd.Flags().Changed("alignment") {
		a.cfg.Partition.Alignment = f.alignment
	}
	return a.cfg.Validate()
}

// loadPartitions 发现、读取并筛选 partition 文件。
func (a *app) loadPartitions(args []string) (*artifact.Set[core.Partition], error) {
	paths, err := artifact.Discover(artifact.KindPartition, args...)
	if err != nil {
		return nil, err
	}
	if err := requireArtifacts("partition", paths); err != nil {
		return nil, err
	}
	filter, err := a.cfg.BuildFilter()
	if err != nil {
		return nil, err
	}
	set, err := artifact.SelectPartitions(paths, filter)
	if err != nil {
		return nil, err
	}
	if len(set.Filtered) > 0 {
		a.logger.Info("artifacts excluded by filter", slog.Int("count", len(set.Filtered)), slog.String("where", filter.String()))
	}
	a.logger.Info("processing partitions", slog.Int("models", len(set.Items)))
	return set, nil
}

// runMeasures 对每个指标运行一次 harness，结果与 measures 同序。
func (a *app) runMeasures(ctx context.Context, measures []*clustering.Measure, topology harness.Topology,
	labels []string, items []core.Partition) ([]*harness.Result, error) {
	results := make([]*harness.Result, 0, len(measures))
	for _, m := range measures {
		h := harness.New(m.Score,
			harness.WithWorkers[core.Partition](a.cfg.Workers),
			harness.WithTopology[core.Partition](topology),
			harness.WithLabels[core.Partition](labels),
			harness.WithLogger[core.Partition](a.logger.With(slog.String("measure", m.Name))),
		)
		res, err := h.Run(ctx, items)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func newPartitionStabilityCmd(a *app) *cobra.Command {
	f := &partitionFlags{}
	cmd := &cobra.Command{
		Use:   "partition-stability partition_file|directory ...",
		Short: "Pairwise agreement (PNMI by default) between all pairs of document partitions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.apply(cmd, a); err != nil {
				return err
			}
			set, err := a.loadPartitions(args)
			if err != nil {
				return err
			}
			measures, err := a.cfg.BuildMeasures()
			if err != nil {
				return err
			}
			results, err := a.runMeasures(cmd.Context(), measures, harness.AllPairs, set.Paths, set.Items)
			if err != nil {
				return err
			}

			if len(results) == 1 {
				return a.report(cmd.Context(), "pairwise."+measures[0].Name, "stability", strings.ToUpper(measures[0].Name), results[0])
			}
			if err := a.writeModels(set.Paths, measureNames(measures), results); err != nil {
				return err
			}
			tab := export.NewTable(append([]string{"statistic"}, measureNames(measures)...)...)
			export.AppendSummary(tab, summaries(results)...)
			return a.reportTable(cmd.Context(), "pairwise", tab, measures, results)
		},
	}
	addPartitionFlags(cmd, a, f, "nmi")
	return cmd
}

func newPartitionAccuracyCmd(a *app) *cobra.Command {
	f := &partitionFlags{}
	cmd := &cobra.Command{
		Use:   "partition-accuracy corpus_file partition_file|directory ...",
		Short: "External validation (NMI, AMI, ARI) of document partitions against ground truth classes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.apply(cmd, a); err != nil {
				return err
			}
			a.logger.Info("reading corpus", slog.String("path", args[0]))
			corpus, err := artifact.LoadCorpus(args[0])
			if err != nil {
				return err
			}
			if !corpus.HasClasses() {
				return core.InvalidInputf(core.ModuleClustering, "no class information available for corpus %s", args[0])
			}
			truth, err := corpus.Classes.ToPartition(corpus.DocIDs)
			if err != nil {
				return err
			}

			set, err := a.loadPartitions(args[1:])
			if err != nil {
				return err
			}
			measures, err := a.cfg.BuildMeasures()
			if err != nil {
				return err
			}

			// 下标 0 是 ground truth，StarPairs 只比较 (0, j)
			items := append([]core.Partition{truth}, set.Items...)
			labels := append([]string{"ground-truth"}, set.Paths...)
			results, err := a.runMeasures(cmd.Context(), measures, harness.StarPairs, labels, items)
			if err != nil {
				return err
			}

			tab := export.NewTable(append([]string{"model"}, measureNames(measures)...)...)
			if !a.summary {
				for j, path := range set.Paths {
					row := []string{path}
					for _, res := range results {
						row = append(row, scoreFor(res, j+1))
					}
					tab.AddRow(row...)
				}
			}
			if a.summary || len(set.Paths) > 1 {
				export.AppendSummary(tab, summaries(results)...)
			}
			return a.reportTable(cmd.Context(), "accuracy", tab, measures, results)
		},
	}
	addPartitionFlags(cmd, a, f, "nmi")
	return cmd
}

// reportTable 输出多指标表，直方图使用第一个指标。
func (a *app) reportTable(ctx context.Context, kind string, tab *export.Table, measures []*clustering.Measure, results []*harness.Result) error {
	if err := tab.WriteText(a.out); err != nil {
		return err
	}
	for i, res := range results {
		fmt.Fprintf(a.out, "%s: %s\n", measures[i].Name, pairsLine(res))
	}
	if a.output != "" {
		a.logger.Info("writing summary", slog.String("path", a.output))
		if err := tab.SaveCSV(a.output); err != nil {
			return err
		}
	}
	if err := a.writeHistogram(strings.ToUpper(measures[0].Name), results[0]); err != nil {
		return err
	}
	for i, res := range results {
		if err := a.record(ctx, kind+"."+measures[i].Name, res); err != nil {
			return err
		}
	}
	return nil
}

func measureNames(measures []*clustering.Measure) []string {
	out := make([]string, len(measures))
	for i, m := range measures {
		out[i] = m.Name
	}
	return out
}

func summaries(results []*harness.Result) []stats.Summary {
	out := make([]stats.Summary, len(results))
	for i, res := range results {
		out[i] = res.Summary()
	}
	return out
}

// scoreFor 返回 (0, j) pair 的分数；被跳过的 pair 显示为 "-"。
func scoreFor(res *harness.Result, j int) string {
	for _, s := range res.Scores {
		if s.J == j {
			return export.F3(s.Score)
		}
	}
	return "-"
}
