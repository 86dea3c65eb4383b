package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rushteam/topicstab/core"
	"github.com/rushteam/topicstab/export"
	"github.com/rushteam/topicstab/store"
)

// runsFlags 是 runs 命令的参数。
type runsFlags struct {
	storeURL string
	prefix   string
}

func newRunsCmd(a *app) *cobra.Command {
	f := &runsFlags{}
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List, show and delete evaluation runs recorded with --store",
	}
	cmd.PersistentFlags().StringVar(&f.storeURL, "store", "", "results store, redis://host:port/db (default from config)")
	cmd.PersistentFlags().StringVar(&f.prefix, "prefix", "", "key prefix of recorded runs (default from config)")
	cmd.AddCommand(
		newRunsListCmd(a, f),
		newRunsShowCmd(a, f),
		newRunsDeleteCmd(a, f),
	)
	return cmd
}

// withRecorder 打开 store 并把 Recorder 交给 fn。memory store 在进程之间不保留数据，因此不能用于读回。
func (a *app) withRecorder(ctx context.Context, cmd *cobra.Command, f *runsFlags, fn func(*store.Recorder) error) error {
	url, prefix := a.cfg.Store.URL, a.cfg.Store.Prefix
	if cmd.Flags().Changed("store") {
		url = f.storeURL
	}
	if cmd.Flags().Changed("prefix") {
		prefix = f.prefix
	}
	switch url {
	case "":
		return core.InvalidInputf(core.ModuleStore, "no results store configured (use --store redis://host:port/db)")
	case "memory":
		return core.InvalidInputf(core.ModuleStore, "memory store keeps nothing between invocations (use --store redis://host:port/db)")
	}
	kv, err := openStore(ctx, url)
	if err != nil {
		return err
	}
	defer kv.Close()

	rec := store.NewRecorder(kv, prefix, a.cfg.Store.TTL)
	rec.Logger = a.logger
	return fn(rec)
}

func newRunsListCmd(a *app, f *runsFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRecorder(cmd.Context(), cmd, f, func(rec *store.Recorder) error {
				ids, err := rec.Runs(cmd.Context())
				if err != nil {
					return err
				}
				tab := export.NewTable("run", "kind", "created", "compared", "mean")
				for _, id := range ids {
					run, err := rec.Load(cmd.Context(), id)
					if err != nil {
						// 索引仍在但 summary 已过期
						if core.IsNotFound(err) {
							continue
						}
						return err
					}
					mean := export.NotAvailable
					if run.Summary.Count > 0 {
						mean = export.F3(run.Summary.Mean)
					}
					tab.AddRow(run.ID, run.Kind, run.Created.Format(time.RFC3339),
						fmt.Sprintf("%d/%d", run.Compared, run.Possible), mean)
				}
				return tab.WriteText(a.out)
			})
		},
	}
}

func newRunsShowCmd(a *app, f *runsFlags) *cobra.Command {
	var (
		top  int
		kind string
	)
	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show the summary and highest scoring pairs of a recorded run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && kind == "" {
				return core.InvalidInputf(core.ModuleStore, "give a run id or --kind to show the latest run of that kind")
			}
			return a.withRecorder(cmd.Context(), cmd, f, func(rec *store.Recorder) error {
				ctx := cmd.Context()
				var id string
				if len(args) > 0 {
					id = args[0]
				} else {
					latest, err := rec.Latest(ctx, kind)
					if err != nil {
						return err
					}
					id = latest
				}
				run, err := rec.Load(ctx, id)
				if err != nil {
					return err
				}

				fmt.Fprintf(a.out, "run %s (%s) recorded %s\n", run.ID, run.Kind, run.Created.Format(time.RFC3339))
				if err := export.SummaryTable(run.Kind, run.Summary).WriteText(a.out); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "compared %d of %d possible pairs\n", run.Compared, run.Possible)

				pairs, err := rec.TopPairs(ctx, id, top)
				if err != nil {
					return err
				}
				if len(pairs) > 0 {
					fmt.Fprintln(a.out)
					tab := export.NewTable("a", "b", "score")
					for _, p := range pairs {
						tab.AddRow(p.A, p.B, export.F3(p.Score))
					}
					if err := tab.WriteText(a.out); err != nil {
						return err
					}
				}
				if len(run.Skipped) > 0 {
					fmt.Fprintf(a.out, "%d skipped pairs\n", len(run.Skipped))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&top, "top", 10, "number of highest scoring pairs to list (-1 for all)")
	cmd.Flags().StringVar(&kind, "kind", "", "show the latest run of this kind (e.g. ats, adsd, pairwise.nmi)")
	return cmd
}

func newRunsDeleteCmd(a *app, f *runsFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete run-id ...",
		Short: "Delete recorded runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRecorder(cmd.Context(), cmd, f, func(rec *store.Recorder) error {
				for _, id := range args {
					if err := rec.Delete(cmd.Context(), id); err != nil {
						return err
					}
					fmt.Fprintf(a.out, "deleted run %s\n", id)
				}
				return nil
			})
		},
	}
}
