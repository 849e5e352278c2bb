package cmd

import (
	"github.com/lehigh-university-libraries/scorediff/internal/evalcmd"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Batch symbol error rate evaluation",
		Long: `Evaluation tools for measuring the accuracy of optical music recognition
output against ground truth scores.

Runs diffs over a folder or manifest of pairs, aggregates the symbol error
rate, and prints reports of finished runs.`,
	}

	cmd.AddCommand(evalcmd.NewRunCmd())
	cmd.AddCommand(evalcmd.NewReportCmd())

	return cmd
}
