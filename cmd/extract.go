package main

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lexflow/chronicle/internal/loader"
	"github.com/lexflow/chronicle/internal/merge"
	"github.com/lexflow/chronicle/internal/model"
	"github.com/lexflow/chronicle/internal/output"
)

var (
	extractIn    string
	extractOut   string
	extractRules string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a chronology from case documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(extractRules)
		if err != nil {
			return err
		}

		inputs, err := listInputs(extractIn)
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			zap.L().Warn("no supported documents found", zap.String("in", extractIn))
			return nil
		}

		runID := uuid.NewString()
		start := time.Now()
		zap.L().Info("starting extraction run",
			zap.String("run_id", runID),
			zap.Int("documents", len(inputs)),
			zap.Int("concurrency", cfg.Batch.MaxConcurrentDocuments),
		)

		rows, failed := processDocuments(ctx, env, inputs, cfg.Batch.MaxConcurrentDocuments)

		rows = merge.Dedupe(rows)
		merge.Sort(rows)

		if err := output.Write(rows, extractOut); err != nil {
			return err
		}

		zap.L().Info("extraction run complete",
			zap.String("run_id", runID),
			zap.Int("rows", len(rows)),
			zap.Int64("failed_documents", failed),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractIn, "in", "", "input file or directory")
	extractCmd.Flags().StringVar(&extractOut, "out", "chronology.csv", "output path (.csv, .json, or .xlsx)")
	extractCmd.Flags().StringVar(&extractRules, "rules", "", "rules file (default embedded rules)")
	_ = extractCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(extractCmd)
}

// listInputs resolves the --in flag to a sorted list of supported document
// paths. A file path is taken as-is; a directory is walked recursively.
func listInputs(in string) ([]string, error) {
	info, err := os.Stat(in)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: stat %s", in)
	}

	if !info.IsDir() {
		if !loader.Supported(in) {
			return nil, eris.Errorf("extract: unsupported file type %s", in)
		}
		return []string{in}, nil
	}

	var paths []string
	err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && loader.Supported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "extract: walk %s", in)
	}

	sort.Strings(paths)
	return paths, nil
}

// processDocuments runs the pipeline over every input concurrently. Rows
// carry the full input path as their source so same-named documents in
// different directories never collapse into one merge key, and results
// join in input order rather than completion order. A failed document is
// logged and skipped so the rest of the batch completes.
func processDocuments(ctx context.Context, env *pipelineEnv, inputs []string, concurrency int) ([]model.MergedRow, int64) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([][]model.MergedRow, len(inputs))
	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range inputs {
		g.Go(func() error {
			log := zap.L().With(zap.String("file", path))

			pages, err := env.Loader.Load(gctx, path)
			if err != nil {
				failed.Add(1)
				log.Error("document load failed", zap.Error(err))
				return nil // keep the batch going
			}

			rows := env.Pipeline.ProcessPages(gctx, path, pages)
			log.Info("document processed",
				zap.Int("pages", len(pages)),
				zap.Int("rows", len(rows)),
			)

			results[i] = rows
			return nil
		})
	}
	_ = g.Wait()

	var all []model.MergedRow
	for _, rows := range results {
		all = append(all, rows...)
	}
	return all, failed.Load()
}
