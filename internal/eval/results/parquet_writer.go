package results

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/scorediff/internal/eval/metrics"
	"github.com/parquet-go/parquet-go"
)

// Row is one pair in the Parquet results table. Failed pairs carry Error
// and zero counts.
type Row struct {
	RunID          string  `parquet:"run_id"`
	ID             string  `parquet:"id"`
	Predicted      string  `parquet:"predicted"`
	GroundTruth    string  `parquet:"ground_truth"`
	Detail         string  `parquet:"detail"`
	SymbolErrors   int64   `parquet:"symbol_errors"`
	Symbols        int64   `parquet:"symbols_in_ground_truth"`
	SER            float64 `parquet:"ser"`
	Operations     int64   `parquet:"operations"`
	ProcessingTime int64   `parquet:"processing_time_ms"`
	Error          string  `parquet:"error,optional"`
}

// Rows flattens a run into table rows.
func Rows(agg *metrics.AggregateResults) []Row {
	rows := make([]Row, 0, len(agg.Results))
	for _, r := range agg.Results {
		row := Row{
			RunID:          agg.RunID,
			ID:             r.ID,
			Predicted:      r.Predicted,
			GroundTruth:    r.GroundTruth,
			Detail:         agg.Detail,
			Operations:     int64(len(r.Ops)),
			ProcessingTime: r.ProcessingTime.Milliseconds(),
			Error:          r.Error,
		}
		if r.Record != nil {
			row.SymbolErrors = int64(r.Record.NumSymbolErrors)
			row.Symbols = int64(r.Record.NumSymbolsInGroundTruth)
			row.SER = r.Record.SER
		}
		rows = append(rows, row)
	}
	return rows
}

// SaveToParquet writes one row per pair to path.
func SaveToParquet(path string, agg *metrics.AggregateResults) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Row](file)
	if _, err := writer.Write(Rows(agg)); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	return nil
}
