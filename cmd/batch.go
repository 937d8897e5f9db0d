package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/marketing-insights/internal/analysis"
	"github.com/sells-group/marketing-insights/internal/competitive"
)

var (
	batchGoals       []string
	batchConcurrency int
	batchOutputDir   string
)

var batchCmd = &cobra.Command{
	Use:   "batch <glob>",
	Short: "Analyze every workbook matching a glob",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("batch"); err != nil {
			return err
		}
		if err := competitive.ValidateConfig(cfg.Competitive); err != nil {
			return err
		}

		paths, err := filepath.Glob(args[0])
		if err != nil {
			return eris.Wrap(err, "batch: bad glob")
		}
		if len(paths) == 0 {
			zap.L().Info("no workbooks matched", zap.String("glob", args[0]))
			return nil
		}

		runner, err := analysis.New(cfg)
		if err != nil {
			return err
		}

		if batchOutputDir != "" {
			if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
				return eris.Wrap(err, "batch: create output dir")
			}
		}

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.MaxConcurrentFiles
		}

		zap.L().Info("processing batch",
			zap.Int("workbooks", len(paths)),
			zap.Int("concurrency", concurrency),
		)

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)

		var succeeded, failed atomic.Int64

		for _, path := range paths {
			g.Go(func() error {
				log := zap.L().With(zap.String("workbook", path))

				result, runErr := runner.RunFile(gCtx, path, batchGoals)
				if runErr != nil {
					failed.Add(1)
					log.Error("analysis failed", zap.Error(runErr))
					return nil // don't abort batch on individual failure
				}

				if batchOutputDir != "" {
					if writeErr := writeResultJSON(result, resultPath(batchOutputDir, path)); writeErr != nil {
						failed.Add(1)
						log.Error("write result", zap.Error(writeErr))
						return nil
					}
				}

				succeeded.Add(1)
				log.Info("analysis complete",
					zap.Int("competitors", len(result.Competitive.Competitors)),
					zap.Int("recommendations", len(result.Recommendations)),
					zap.Int64("duration_ms", result.DurationMS),
				)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "batch processing")
		}

		zap.L().Info("batch complete",
			zap.Int64("succeeded", succeeded.Load()),
			zap.Int64("failed", failed.Load()),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringSliceVar(&batchGoals, "goals", nil, "business goals applied to every workbook")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max workbooks analyzed concurrently (default from config)")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "", "write per-workbook result JSON into this directory")
	rootCmd.AddCommand(batchCmd)
}

// resultPath maps an input workbook path to its result file in dir.
func resultPath(dir, workbook string) string {
	base := strings.TrimSuffix(filepath.Base(workbook), filepath.Ext(workbook))
	return filepath.Join(dir, base+".json")
}

// writeResultJSON writes one analysis result as indented JSON.
func writeResultJSON(result *analysis.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "batch: create result file")
	}
	defer f.Close() //nolint:errcheck

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return eris.Wrap(err, "batch: encode result")
	}
	return nil
}
