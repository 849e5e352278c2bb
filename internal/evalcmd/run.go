package evalcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/scorediff/internal/comparing"
	"github.com/lehigh-university-libraries/scorediff/internal/eval/dataset"
	"github.com/lehigh-university-libraries/scorediff/internal/eval/metrics"
	"github.com/lehigh-university-libraries/scorediff/internal/eval/results"
	"github.com/lehigh-university-libraries/scorediff/internal/report"
	"golang.org/x/sync/errgroup"
)

type runOptions struct {
	GroundTruthDir string
	PredictedDir   string
	Manifest       string
	Sample         int
	Concurrency    int
	OutputDir      string
	Parquet        bool
	Compare        comparing.Config
}

func (o runOptions) source() string {
	if o.Manifest != "" {
		return o.Manifest
	}
	return o.GroundTruthDir
}

func loadPairs(opts runOptions) ([]dataset.Pair, error) {
	if opts.Manifest != "" {
		return dataset.NewLoader(opts.Manifest).LoadSample(opts.Sample)
	}

	pairs, err := dataset.Discover(opts.PredictedDir, opts.GroundTruthDir)
	if err != nil {
		return nil, err
	}
	if opts.Sample >= 0 && len(pairs) > opts.Sample {
		pairs = pairs[:opts.Sample]
	}
	return pairs, nil
}

func executeRun(ctx context.Context, opts runOptions, out io.Writer) (*metrics.AggregateResults, error) {
	runID := uuid.NewString()
	slog.Info("Starting evaluation run", "run", runID, "source", opts.source(), "concurrency", opts.Concurrency)

	svc, err := comparing.NewService(opts.Compare, slog.Default())
	if err != nil {
		return nil, err
	}

	pairs, err := loadPairs(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	slog.Info("Dataset loaded", "pairs", len(pairs))

	evals := make([]metrics.EvaluationResult, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Concurrency))
	for i, pair := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slog.Debug("Processing pair", "id", pair.ID, "progress", fmt.Sprintf("%d/%d", i+1, len(pairs)))
			evals[i] = processPair(svc, pair)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluation interrupted: %w", err)
	}

	agg := metrics.AggregateEvaluationResults(evals, runID, svc.Level().String())

	if err := saveRun(agg, opts); err != nil {
		return nil, err
	}

	agg.PrintSummary(out)
	fmt.Fprintf(out, "\nResults saved to: %s\n", opts.OutputDir)
	fmt.Fprintf(out, "\nGenerate detailed report with:\n")
	fmt.Fprintf(out, "  scorediff eval report --results %s\n", opts.OutputDir)

	return agg, nil
}

func processPair(svc *comparing.Service, pair dataset.Pair) (result metrics.EvaluationResult) {
	start := time.Now()
	result = metrics.EvaluationResult{
		ID:          pair.ID,
		Predicted:   pair.Predicted,
		GroundTruth: pair.GroundTruth,
	}
	defer func() { result.ProcessingTime = time.Since(start) }()

	if err := pair.Validate(); err != nil {
		result.Error = err.Error()
		return result
	}

	cmp, err := svc.CompareFiles(pair.Predicted, pair.GroundTruth)
	if err != nil {
		slog.Warn("Pair failed", "id", pair.ID, "err", err)
		result.Error = err.Error()
		return result
	}

	result.Record = &cmp.Record
	result.Ops = report.OpRecords(cmp.Result.Ops)
	result.Notices = cmp.Notices
	return result
}

func saveRun(agg *metrics.AggregateResults, opts runOptions) error {
	slog.Info("Saving results", "output", opts.OutputDir)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := agg.SaveToJSON(filepath.Join(opts.OutputDir, metrics.ResultsFile)); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	if err := agg.SaveDetailedReport(filepath.Join(opts.OutputDir, "report.txt")); err != nil {
		return err
	}
	if _, err := results.SaveToYAML(opts.OutputDir, opts.source(), agg); err != nil {
		return err
	}
	if opts.Parquet {
		if err := results.SaveToParquet(filepath.Join(opts.OutputDir, "results.parquet"), agg); err != nil {
			return err
		}
	}
	return nil
}
