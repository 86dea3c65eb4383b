package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rushteam/topicstab/artifact"
	"github.com/rushteam/topicstab/core"
	"github.com/rushteam/topicstab/factorize"
)

func newParseCmd(a *app) *cobra.Command {
	opts := factorize.DefaultParseOptions()
	var (
		out      string
		lines    bool
		stoplist string
	)
	cmd := &cobra.Command{
		Use:   "parse dir|file ...",
		Short: "Build a corpus from a directory tree (one document per file) or from text files (one document per line)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Logger = a.logger
			switch strings.ToLower(stoplist) {
			case "":
			case "none":
				opts.Stopwords = []string{}
			default:
				words, err := factorize.LoadStopwords(stoplist)
				if err != nil {
					return err
				}
				opts.Stopwords = words
			}

			var (
				corpus *core.Corpus
				err    error
			)
			if lines {
				corpus, err = parseLineFiles(args, opts)
			} else {
				corpus, err = factorize.ParseDirectory(args, opts)
			}
			if err != nil {
				return err
			}
			a.logger.Info("saving corpus", slog.String("path", out))
			if err := artifact.SaveCorpus(out, corpus); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "corpus: %d documents, %d terms, %d classes\n", len(corpus.DocIDs), len(corpus.Terms), len(corpus.Classes))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "corpus"+artifact.DefaultExt, "output corpus file")
	cmd.Flags().BoolVar(&lines, "lines", false, "treat arguments as text files with one document per line")
	cmd.Flags().IntVar(&opts.MinDF, "df", opts.MinDF, "minimum number of documents for a term to appear")
	cmd.Flags().IntVar(&opts.MinDocLength, "minlen", opts.MinDocLength, "minimum document length (in characters)")
	cmd.Flags().IntVar(&opts.MinTermLength, "min-term-length", opts.MinTermLength, "minimum term length")
	cmd.Flags().StringVarP(&stoplist, "stopwords", "s", "", "custom stopword file, or 'none'")
	return cmd
}

func parseLineFiles(paths []string, opts factorize.ParseOptions) (*core.Corpus, error) {
	texts := make([]string, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		texts = append(texts, strings.TrimRight(string(data), "\n"))
	}
	return factorize.ParseLines(strings.NewReader(strings.Join(texts, "\n")), opts)
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := factorize.DefaultGenerateOptions()
	var format string
	cmd := &cobra.Command{
		Use:   "generate corpus_file",
		Short: "Generate an ensemble of NMF topic models (ranks_* and partition_* files)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Logger = a.logger
			opts.Ext = "." + strings.TrimPrefix(format, ".")
			if !artifact.Supported("x" + opts.Ext) {
				return core.InvalidInputf(core.ModuleArtifact, "unsupported output format %q (gob, json, yaml)", format)
			}
			corpus, err := artifact.LoadCorpus(args[0])
			if err != nil {
				return err
			}
			members, err := factorize.Generate(cmd.Context(), corpus, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "generated %d ensemble members in %s\n", len(members), opts.OutDir)
			return nil
		},
	}
	cmd.Flags().IntVarP(&opts.K, "topics", "k", opts.K, "number of topics")
	cmd.Flags().IntVarP(&opts.Runs, "runs", "r", opts.Runs, "number of runs")
	cmd.Flags().IntVar(&opts.Iterations, "maxiters", opts.Iterations, "maximum number of NMF iterations")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for sampling and folds")
	cmd.Flags().Float64VarP(&opts.SampleRatio, "sample", "s", opts.SampleRatio, "fraction of documents used in each run")
	cmd.Flags().IntVarP(&opts.Folds, "folds", "f", 0, "k-fold mode: number of folds per run")
	cmd.Flags().IntVar(&opts.Depth, "depth", opts.Depth, "number of terms kept per topic (0 keeps all)")
	cmd.Flags().StringVarP(&opts.OutDir, "outdir", "o", ".", "output directory")
	cmd.Flags().StringVar(&format, "format", "gob", "output format (gob, json, yaml)")
	return cmd
}
