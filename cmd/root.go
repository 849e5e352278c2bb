package cmd

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/scorediff/internal/logging"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var logLevel string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "scorediff",
		Short: "Compare music scores and compute the symbol error rate",
		Long: `Scorediff compares two symbolic music scores, lists the edit operations that
turn one into the other, and reports the Symbolic Error Rate (SER) of a
predicted score against its ground truth.

It supports single comparisons, batch evaluation of OMR output, and an HTTP
API for rendering tools.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(logging.New(level))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newDiffCmd())
	cmd.AddCommand(newEvalCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}
