package evalcmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command for scoring a batch of predictions
func NewRunCmd() *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute the symbol error rate of a batch of predicted scores",
		Long: `Compare every predicted score with its ground truth and aggregate the results.

Pairs come either from two directories, matched by file name without
extension, or from a manifest (.jsonl or .parquet) with id, predicted and
ground_truth columns. Relative manifest paths are resolved against the
manifest's directory.

A pair that cannot be loaded or annotated is recorded as failed and left out
of the totals.`,
		Example: `  # Score a folder of OMR output
  scorediff eval run --gt ./truth --pred ./omr

  # Score a manifest, notes and rests only, eight at a time
  scorediff eval run --manifest pairs.parquet --detail notesandrests --concurrency 8

  # Also write a Parquet table of per-pair results
  scorediff eval run --gt ./truth --pred ./omr --parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Manifest == "" && (opts.GroundTruthDir == "" || opts.PredictedDir == "") {
				return fmt.Errorf("either --manifest or both --gt and --pred are required")
			}
			opts.Compare = opts.Compare.WithEnvDefaults()
			if opts.Concurrency <= 0 {
				opts.Concurrency = envInt("SCOREDIFF_CONCURRENCY", 4)
			}
			_, err := executeRun(cmd.Context(), opts, cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVar(&opts.GroundTruthDir, "gt", "", "Directory of ground truth scores")
	cmd.Flags().StringVar(&opts.PredictedDir, "pred", "", "Directory of predicted scores")
	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "Manifest of pairs (.jsonl or .parquet)")
	cmd.Flags().IntVar(&opts.Sample, "sample", -1, "Number of pairs to evaluate (-1 for all)")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "Number of pairs compared in parallel (env SCOREDIFF_CONCURRENCY, default 4)")
	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "eval_results", "Output directory for results")
	cmd.Flags().BoolVar(&opts.Parquet, "parquet", false, "Also write results.parquet")
	cmd.Flags().StringSliceVar(&opts.Compare.Include, "detail", nil, "Detail categories to compare (env SCOREDIFF_DETAIL, default allobjects)")
	cmd.Flags().StringSliceVar(&opts.Compare.Exclude, "exclude", nil, "Detail categories to leave out (env SCOREDIFF_EXCLUDE)")
	cmd.Flags().StringVar(&opts.Compare.MeasureAlignment, "measure-alignment", "", "Measure alignment: dp or positional (env SCOREDIFF_MEASURE_ALIGNMENT)")

	cmd.MarkFlagsMutuallyExclusive("manifest", "gt")
	cmd.MarkFlagsMutuallyExclusive("manifest", "pred")

	return cmd
}

// NewReportCmd creates the report command for a finished run
func NewReportCmd() *cobra.Command {
	var resultsDir string
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the results of an evaluation run",
		Example: `  scorediff eval report --results ./eval_results
  scorediff eval report --results ./eval_results --format csv > ser.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeReport(resultsDir, format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&resultsDir, "results", "eval_results", "Directory written by eval run")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or csv")

	return cmd
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
