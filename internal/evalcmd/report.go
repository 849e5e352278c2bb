package evalcmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/lehigh-university-libraries/scorediff/internal/eval/metrics"
)

func executeReport(resultsDir, format string, w io.Writer) error {
	results, err := metrics.LoadRun(resultsDir)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	switch format {
	case "text":
		return printTextReport(results, w)
	case "json":
		return printJSONReport(results, w)
	case "csv":
		return printCSVReport(results, w)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextReport(results *metrics.AggregateResults, w io.Writer) error {
	results.PrintSummary(w)
	fmt.Fprintln(w)
	return results.WriteDetailedReport(w)
}

func printJSONReport(results *metrics.AggregateResults, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func printCSVReport(results *metrics.AggregateResults, w io.Writer) error {
	writer := csv.NewWriter(w)

	header := []string{"ID", "Predicted", "Ground Truth", "Symbol Errors", "Symbols", "SER", "Operations", "Error"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, result := range results.Results {
		row := []string{result.ID, result.Predicted, result.GroundTruth}

		if result.Error != "" || result.Record == nil {
			row = append(row, "0", "0", "", "0", result.Error)
		} else {
			row = append(row,
				strconv.Itoa(result.Record.NumSymbolErrors),
				strconv.Itoa(result.Record.NumSymbolsInGroundTruth),
				fmt.Sprintf("%.4f", result.Record.SER),
				strconv.Itoa(len(result.Ops)),
				"",
			)
		}

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
