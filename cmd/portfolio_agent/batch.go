package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/observability"
	"github.com/jonathan/portfolio-builder/internal/pipeline"
	"github.com/jonathan/portfolio-builder/internal/site"
)

var batchCmd = &cobra.Command{
	Use:   "batch [résumé files...]",
	Short: "Generate one portfolio per résumé, concurrently",
	Long: `Runs an independent pipeline for every résumé given. Each site is written to
its own directory under --out together with a zip archive. A failing résumé
does not stop the others; the command exits non-zero if any of them failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

var (
	batchOut         string
	batchConcurrency int
)

func init() {
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "Parent output directory (defaults to output_dir)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "Maximum pipelines running at once")

	rootCmd.AddCommand(batchCmd)
}

// lockedWriter serializes writes from concurrent pipelines
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if batchConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}

	ctx := cmd.Context()
	out := &lockedWriter{w: cmd.OutOrStdout()}

	parent := batchOut
	if parent == "" {
		parent = settings.OutputDir
	}
	dirs := outputDirs(parent, args)

	client, err := newClient(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	_, _ = fmt.Fprintf(out, "Generating %d portfolios (concurrency %d)...\n", len(args), batchConcurrency)

	rows := make([]observability.BatchRow, len(args))
	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i, path := range args {
		g.Go(func() error {
			start := time.Now()
			err := generateOne(ctx, client, path, dirs[i])
			rows[i] = observability.BatchRow{File: path, OutDir: dirs[i], Duration: time.Since(start), Err: err}
			if err != nil {
				_, _ = fmt.Fprintf(out, "✗ %s: %v\n", path, err)
			} else {
				_, _ = fmt.Fprintf(out, "✓ %s\n", path)
			}
			// failures stay in rows so the other pipelines keep running
			return nil
		})
	}
	_ = g.Wait()

	observability.NewPrinter(out).PrintBatchSummary(rows)

	failed := 0
	for _, row := range rows {
		if row.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d résumés failed", failed, len(args))
	}
	return nil
}

// generateOne runs a single pipeline and writes its site and archive into dir
func generateOne(ctx context.Context, client llm.Client, path, dir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read résumé: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, settings.TimeoutValue())
	defer cancel()

	result, err := pipeline.Run(runCtx, client, pipeline.RunOptions{
		Data:     data,
		FileName: filepath.Base(path),
		Out:      io.Discard,
	})
	if err != nil {
		return err
	}

	if _, err := site.WriteDir(dir, result.Bundle); err != nil {
		return err
	}
	return writeArchive(filepath.Join(dir, settings.ArchiveName), result.Bundle)
}

// outputDirs picks one distinct directory per input, named after the file,
// with the lowest free numeric suffix when a name is already taken
func outputDirs(parent string, paths []string) []string {
	dirs := make([]string, len(paths))
	taken := make(map[string]bool, len(paths))
	for _, path := range paths {
		taken[stem(path)] = true
	}

	assigned := make(map[string]bool, len(paths))
	for i, path := range paths {
		name := stem(path)
		if assigned[name] {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s-%d", name, n)
				if !assigned[candidate] && !taken[candidate] {
					name = candidate
					break
				}
			}
		}
		assigned[name] = true
		dirs[i] = filepath.Join(parent, name)
	}
	return dirs
}

func stem(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		return "resume"
	}
	return name
}
