package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/scorediff/internal/report"
)

// EvaluationResult is the outcome of scoring one predicted score.
type EvaluationResult struct {
	ID             string            `json:"id" yaml:"id"`
	Predicted      string            `json:"predicted" yaml:"predicted"`
	GroundTruth    string            `json:"ground_truth" yaml:"ground_truth"`
	Record         *report.SERRecord `json:"record,omitempty" yaml:"record,omitempty"`
	Ops            []report.OpRecord `json:"ops,omitempty" yaml:"ops,omitempty"`
	Notices        []string          `json:"notices,omitempty" yaml:"notices,omitempty"`
	ProcessingTime time.Duration     `json:"processing_time" yaml:"processing_time"`
	Error          string            `json:"error,omitempty" yaml:"error,omitempty"` // If loading or diffing failed
}

// Summary holds the batch totals. Failed pairs count toward FailedPairs only.
type Summary struct {
	TotalPairs      int     `json:"total_pairs" yaml:"total_pairs"`
	SuccessfulPairs int     `json:"successful_pairs" yaml:"successful_pairs"`
	FailedPairs     int     `json:"failed_pairs" yaml:"failed_pairs"`
	SymbolErrors    int     `json:"symbol_errors" yaml:"symbol_errors"`
	SymbolsInGT     int     `json:"symbols_in_ground_truth" yaml:"symbols_in_ground_truth"`
	OverallSER      float64 `json:"overall_ser" yaml:"overall_ser"` // SymbolErrors / SymbolsInGT
	MeanSER         float64 `json:"mean_ser" yaml:"mean_ser"`
	MedianSER       float64 `json:"median_ser" yaml:"median_ser"`
	MinSER          float64 `json:"min_ser" yaml:"min_ser"`
	MaxSER          float64 `json:"max_ser" yaml:"max_ser"`
}

// AggregateResults represents a whole evaluation run.
type AggregateResults struct {
	RunID          string             `json:"run_id" yaml:"run_id"`
	EvaluationDate time.Time          `json:"evaluation_date" yaml:"evaluation_date"`
	Detail         string             `json:"detail" yaml:"detail"`
	Summary        Summary            `json:"summary" yaml:"summary"`
	Results        []EvaluationResult `json:"results" yaml:"results"`

	// Timing
	AverageProcessingTime time.Duration `json:"average_processing_time" yaml:"average_processing_time"`
	TotalProcessingTime   time.Duration `json:"total_processing_time" yaml:"total_processing_time"`
}

// AggregateEvaluationResults aggregates per-pair results. Results are kept
// in the order given.
func AggregateEvaluationResults(results []EvaluationResult, runID, detail string) *AggregateResults {
	agg := &AggregateResults{
		RunID:          runID,
		EvaluationDate: time.Now(),
		Detail:         detail,
		Results:        results,
		Summary:        CalculateSummary(results),
	}

	var successDuration time.Duration
	for _, result := range results {
		agg.TotalProcessingTime += result.ProcessingTime
		if result.Error == "" {
			successDuration += result.ProcessingTime
		}
	}
	if agg.Summary.SuccessfulPairs > 0 {
		agg.AverageProcessingTime = successDuration / time.Duration(agg.Summary.SuccessfulPairs)
	}

	return agg
}

// CalculateSummary computes the batch totals. The overall SER is the ratio
// of summed errors to summed ground truth sizes, not the mean of per-pair
// rates.
func CalculateSummary(results []EvaluationResult) Summary {
	summary := Summary{TotalPairs: len(results)}

	var rates []float64
	for _, result := range results {
		if result.Error != "" || result.Record == nil {
			summary.FailedPairs++
			continue
		}
		summary.SuccessfulPairs++
		summary.SymbolErrors += result.Record.NumSymbolErrors
		summary.SymbolsInGT += result.Record.NumSymbolsInGroundTruth
		rates = append(rates, result.Record.SER)
	}

	if len(rates) == 0 {
		return summary
	}

	if summary.SymbolsInGT > 0 {
		summary.OverallSER = float64(summary.SymbolErrors) / float64(summary.SymbolsInGT)
	} else {
		summary.OverallSER = float64(summary.SymbolErrors)
	}

	summary.MeanSER = calculateAverage(rates)

	sort.Float64s(rates)
	mid := len(rates) / 2
	if len(rates)%2 == 0 {
		summary.MedianSER = (rates[mid-1] + rates[mid]) / 2
	} else {
		summary.MedianSER = rates[mid]
	}
	summary.MinSER = rates[0]
	summary.MaxSER = rates[len(rates)-1]

	return summary
}

func calculateAverage(scores []float64) float64 {
	if len(scores) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, score := range scores {
		sum += score
	}

	return sum / float64(len(scores))
}

// PrintSummary writes a human-readable summary of the evaluation.
func (a *AggregateResults) PrintSummary(w io.Writer) {
	s := a.Summary
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 70))
	fmt.Fprintln(w, "SCOREDIFF EVALUATION SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "Run: %s\n", a.RunID)
	fmt.Fprintf(w, "Evaluation Date: %s\n", a.EvaluationDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Detail: %s\n", a.Detail)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PROCESSING STATISTICS")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "Total Pairs: %d\n", s.TotalPairs)
	if s.TotalPairs > 0 {
		fmt.Fprintf(w, "Successful: %d (%.1f%%)\n", s.SuccessfulPairs, float64(s.SuccessfulPairs)/float64(s.TotalPairs)*100)
		fmt.Fprintf(w, "Failed: %d (%.1f%%)\n", s.FailedPairs, float64(s.FailedPairs)/float64(s.TotalPairs)*100)
	}
	fmt.Fprintf(w, "Average Processing Time: %s\n", a.AverageProcessingTime)
	fmt.Fprintf(w, "Total Processing Time: %s\n", a.TotalProcessingTime)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "SYMBOL ERROR RATE")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "Symbol Errors: %d\n", s.SymbolErrors)
	fmt.Fprintf(w, "Symbols in Ground Truth: %d\n", s.SymbolsInGT)
	fmt.Fprintf(w, "Overall SER: %.2f%% (%.4f)\n", s.OverallSER*100, s.OverallSER)
	fmt.Fprintf(w, "Mean SER:    %.2f%%\n", s.MeanSER*100)
	fmt.Fprintf(w, "Median SER:  %.2f%%\n", s.MedianSER*100)
	fmt.Fprintf(w, "Min SER:     %.2f%%\n", s.MinSER*100)
	fmt.Fprintf(w, "Max SER:     %.2f%%\n", s.MaxSER*100)
	fmt.Fprintln(w, strings.Repeat("=", 70))
}

// SaveToJSON saves the aggregate results to a JSON file
func (a *AggregateResults) SaveToJSON(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(a); err != nil {
		return fmt.Errorf("failed to encode results to JSON: %w", err)
	}

	return nil
}

// LoadFromJSON reads results written by SaveToJSON.
func LoadFromJSON(path string) (*AggregateResults, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer file.Close()

	var results AggregateResults
	if err := json.NewDecoder(file).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}

	return &results, nil
}

// ResultsFile is the name of the JSON results file inside a run directory.
const ResultsFile = "results.json"

// LoadRun reads the results of a run directory.
func LoadRun(dir string) (*AggregateResults, error) {
	return LoadFromJSON(filepath.Join(dir, ResultsFile))
}

// SaveDetailedReport saves a detailed report with individual results
func (a *AggregateResults) SaveDetailedReport(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	return a.WriteDetailedReport(file)
}

// WriteDetailedReport writes every pair with its operations.
func (a *AggregateResults) WriteDetailedReport(w io.Writer) error {
	fmt.Fprintf(w, "SCOREDIFF EVALUATION DETAILED REPORT\n")
	fmt.Fprintf(w, "Generated: %s\n", a.EvaluationDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Run: %s, Detail: %s\n", a.RunID, a.Detail)
	separator := strings.Repeat("=", 80)
	fmt.Fprintf(w, "%s\n\n", separator)

	dash := strings.Repeat("-", 80)
	for i, result := range a.Results {
		fmt.Fprintf(w, "PAIR %d: %s\n", i+1, result.ID)
		fmt.Fprintf(w, "%s\n", dash)
		fmt.Fprintf(w, "Predicted: %s\n", result.Predicted)
		fmt.Fprintf(w, "Ground Truth: %s\n", result.GroundTruth)
		fmt.Fprintf(w, "Processing Time: %s\n", result.ProcessingTime)

		if result.Error != "" {
			fmt.Fprintf(w, "ERROR: %s\n", result.Error)
		} else if result.Record != nil {
			fmt.Fprintf(w, "SER: %.2f%% (%d / %d)\n",
				result.Record.SER*100,
				result.Record.NumSymbolErrors,
				result.Record.NumSymbolsInGroundTruth)

			if len(result.Ops) > 0 {
				fmt.Fprintf(w, "\nOperations:\n")
			}
			for _, op := range result.Ops {
				where := "score"
				if !op.Pos.IsZero() {
					where = op.Pos.String()
				}
				fmt.Fprintf(w, "  [%s] %s %s (%d)", where, op.Action, op.Label, op.Cost)
				if op.From != "" {
					fmt.Fprintf(w, " - %s", op.From)
				}
				if op.To != "" {
					fmt.Fprintf(w, " + %s", op.To)
				}
				fmt.Fprintln(w)
			}
			for _, n := range result.Notices {
				fmt.Fprintf(w, "  skipped: %s\n", n)
			}
		}

		fmt.Fprintf(w, "\n%s\n\n", separator)
	}

	return nil
}
