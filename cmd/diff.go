package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/scorediff/internal/comparing"
	"github.com/lehigh-university-libraries/scorediff/internal/report"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	var cfg comparing.Config
	var output string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "diff PREDICTED GROUND_TRUTH",
		Short: "Compare two scores",
		Long: `Compare a predicted score with its ground truth.

Both files are score documents in YAML or JSON. The text output groups edit
operations by measure, staff and beat; "-" lines show the predicted score and
"+" lines the ground truth. The ser output prints the symbol error rate as
JSON, and the visual output prints the entities a renderer should highlight.`,
		Example: `  # Unified-style diff
  scorediff diff omr.yaml truth.yaml

  # Notes and rests only, ignoring beams
  scorediff diff omr.yaml truth.yaml --detail decoratednotesandrests --exclude beams

  # Symbol error rate as JSON
  scorediff diff omr.yaml truth.yaml --output ser`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := comparing.NewService(cfg.WithEnvDefaults(), slog.Default())
			if err != nil {
				return err
			}

			cmp, err := svc.CompareFiles(args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch output {
			case "text":
				return report.WriteText(out, cmp.Result.Ops, report.TextOptions{
					From:  args[0],
					To:    args[1],
					Color: !noColor,
				})
			case "ser":
				return report.WriteSER(out, cmp.Record)
			case "visual":
				return report.WriteMarks(out, report.Marks(cmp.Result.Ops))
			default:
				return fmt.Errorf("unsupported output: %s (supported: text, ser, visual)", output)
			}
		},
	}

	cmd.Flags().StringSliceVar(&cfg.Include, "detail", nil, "Detail categories to compare (env SCOREDIFF_DETAIL, default allobjects)")
	cmd.Flags().StringSliceVar(&cfg.Exclude, "exclude", nil, "Detail categories to leave out (env SCOREDIFF_EXCLUDE)")
	cmd.Flags().StringVar(&cfg.MeasureAlignment, "measure-alignment", "", "Measure alignment: dp or positional (env SCOREDIFF_MEASURE_ALIGNMENT)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output: text, ser or visual")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured output")

	return cmd
}
