package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rushteam/topicstab/config"
	"github.com/rushteam/topicstab/core"
	"github.com/rushteam/topicstab/export"
	"github.com/rushteam/topicstab/harness"
	"github.com/rushteam/topicstab/store"
)

// app 保存一次命令执行的共享状态。
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer

	// 评估命令的输出选项
	output   string
	histPath string
	summary  bool
}

// openStore 打开结果存储后端。
var openStore = store.Open

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "topicstab",
		Short:         "Stability and accuracy evaluation for topic model ensembles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "evaluation config file (.yaml or .json)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newTermStabilityCmd(a),
		newTermDifferenceCmd(a),
		newPartitionStabilityCmd(a),
		newPartitionAccuracyCmd(a),
		newParseCmd(a),
		newGenerateCmd(a),
		newRunsCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	a.out = cmd.OutOrStdout()

	a.cfg = config.Default()
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		a.cfg = cfg
		a.logger.Debug("loaded config", slog.String("path", a.configPath))
	}
	return nil
}

// evalFlags 是评估命令共用的参数；只有显式给出的 flag 才覆盖配置文件。
type evalFlags struct {
	workers  int
	binWidth float64
	where    string
	storeURL string
	storeTTL int
}

func addEvalFlags(cmd *cobra.Command, a *app, f *evalFlags) {
	cmd.Flags().StringVarP(&a.output, "output", "o", "", "path for CSV summary output")
	cmd.Flags().StringVar(&a.histPath, "hist", "", "path for CSV histogram output")
	cmd.Flags().BoolVarP(&a.summary, "summary", "s", false, "display summary results only")
	cmd.Flags().Float64Var(&f.binWidth, "bin-width", 0, "histogram bin width (default 0.05)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "number of concurrent comparisons (default GOMAXPROCS)")
	cmd.Flags().StringVar(&f.where, "where", "", "CEL expression selecting artifacts, e.g. 'artifact.topics == 10'")
	cmd.Flags().StringVar(&f.storeURL, "store", "", "record results to redis://host:port/db (memory is discarded at exit)")
	cmd.Flags().IntVar(&f.storeTTL, "store-ttl", 0, "expiry of recorded results in seconds")
}

func (f *evalFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("workers") {
		cfg.Workers = f.workers
	}
	if cmd.Flags().Changed("bin-width") {
		cfg.Histogram.BinWidth = f.binWidth
	}
	if cmd.Flags().Changed("where") {
		cfg.Filter = f.where
	}
	if cmd.Flags().Changed("store") {
		cfg.Store.URL = f.storeURL
	}
	if cmd.Flags().Changed("store-ttl") {
		cfg.Store.TTL = f.storeTTL
	}
}

// pairsLine 是每个报告都会输出的比较计数。
func pairsLine(res *harness.Result) string {
	return fmt.Sprintf("compared %d of %d possible pairs", res.Compared(), res.Possible)
}

// modelTable 列出每个 artifact 与其余 artifact 比较的平均分数，每个结果占一列。
func modelTable(labels, columns []string, results []*harness.Result) *export.Table {
	tab := export.NewTable(append([]string{"model"}, columns...)...)
	per := make([][][]float64, len(results))
	for i, res := range results {
		per[i] = res.ItemScores(len(labels))
	}
	for j, label := range labels {
		row := []string{label}
		for i := range results {
			row = append(row, export.MeanCell(per[i][j]))
		}
		tab.AddRow(row...)
	}
	return tab
}

// writeModels 在未指定 --summary 时先输出逐 artifact 的平均分数。
func (a *app) writeModels(labels, columns []string, results []*harness.Result) error {
	if a.summary {
		return nil
	}
	if err := modelTable(labels, columns, results).WriteText(a.out); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.out)
	return err
}

// report 输出单列汇总表、可选 CSV、直方图，并在配置了 store 时记录结果。
func (a *app) report(ctx context.Context, kind, column, histLabel string, res *harness.Result) error {
	if err := a.writeModels(res.Labels, []string{"mean " + column}, []*harness.Result{res}); err != nil {
		return err
	}
	tab := export.SummaryTable(column, res.Summary())
	if err := tab.WriteText(a.out); err != nil {
		return err
	}
	fmt.Fprintln(a.out, pairsLine(res))

	if a.output != "" {
		a.logger.Info("writing summary", slog.String("path", a.output))
		if err := tab.SaveCSV(a.output); err != nil {
			return err
		}
	}
	if err := a.writeHistogram(histLabel, res); err != nil {
		return err
	}
	return a.record(ctx, kind, res)
}

func (a *app) writeHistogram(label string, res *harness.Result) error {
	if a.histPath == "" {
		return nil
	}
	h, err := res.Histogram(a.cfg.Histogram.BinWidth)
	if err != nil {
		return err
	}
	a.logger.Info("writing histogram", slog.String("path", a.histPath))
	return export.SaveHistogram(a.histPath, label, h)
}

func (a *app) record(ctx context.Context, kind string, results ...*harness.Result) error {
	if a.cfg.Store.URL == "" {
		return nil
	}
	kv, err := openStore(ctx, a.cfg.Store.URL)
	if err != nil {
		return err
	}
	defer kv.Close()
	if kv.Name() == "memory" {
		a.logger.Warn("memory store does not persist, recorded results are discarded at exit; use redis:// to keep them")
	}

	rec := store.NewRecorder(kv, a.cfg.Store.Prefix, a.cfg.Store.TTL)
	rec.Logger = a.logger
	for _, res := range results {
		id, err := rec.Record(ctx, kind, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "recorded run %s in %s store\n", id, kv.Name())
	}
	return nil
}

// requireArtifacts 在未找到任何 artifact 时返回错误（非零退出码）。
func requireArtifacts(kind string, paths []string) error {
	if len(paths) == 0 {
		return core.InsufficientInputf(core.ModuleArtifact, "no %s files found", kind)
	}
	return nil
}
