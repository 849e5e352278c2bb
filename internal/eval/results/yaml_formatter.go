package results

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/scorediff/internal/eval/metrics"
	"gopkg.in/yaml.v3"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	RunID       string `yaml:"runid"`
	Detail      string `yaml:"detail"`
	DatasetPath string `yaml:"datasetpath"`
	SampleSize  int    `yaml:"samplesize"`
	Timestamp   string `yaml:"timestamp"`
}

// EvalResult is one successful pair in the YAML output.
type EvalResult struct {
	Identifier   string   `yaml:"identifier"`
	Predicted    string   `yaml:"predicted"`
	GroundTruth  string   `yaml:"groundtruth"`
	SymbolErrors int      `yaml:"symbolerrors"`
	Symbols      int      `yaml:"symbols"`
	SER          float64  `yaml:"ser"`
	Operations   []string `yaml:"operations,omitempty"`
}

// EvalSpec represents the complete evaluation file
type EvalSpec struct {
	Config  EvalConfig        `yaml:"config"`
	Summary metrics.Summary   `yaml:"summary"`
	Results []EvalResult      `yaml:"results"`
	Failed  map[string]string `yaml:"failed,omitempty"`
}

// SaveToYAML writes the run to <dir>/<runID>.yaml and returns the path.
func SaveToYAML(dir, datasetPath string, agg *metrics.AggregateResults) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	spec := EvalSpec{
		Config: EvalConfig{
			RunID:       agg.RunID,
			Detail:      agg.Detail,
			DatasetPath: datasetPath,
			SampleSize:  len(agg.Results),
			Timestamp:   agg.EvaluationDate.Format("2006-01-02_15-04-05"),
		},
		Summary: agg.Summary,
		Results: make([]EvalResult, 0, len(agg.Results)),
	}

	for _, r := range agg.Results {
		if r.Error != "" || r.Record == nil {
			if spec.Failed == nil {
				spec.Failed = make(map[string]string)
			}
			spec.Failed[r.ID] = r.Error
			continue
		}

		result := EvalResult{
			Identifier:   r.ID,
			Predicted:    r.Predicted,
			GroundTruth:  r.GroundTruth,
			SymbolErrors: r.Record.NumSymbolErrors,
			Symbols:      r.Record.NumSymbolsInGroundTruth,
			SER:          r.Record.SER,
		}
		for _, op := range r.Ops {
			result.Operations = append(result.Operations, fmt.Sprintf("%s %s (%d)", op.Action, op.Label, op.Cost))
		}
		spec.Results = append(spec.Results, result)
	}

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	path := filepath.Join(dir, agg.RunID+".yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	return path, nil
}

// LoadYAML reads a file written by SaveToYAML.
func LoadYAML(path string) (*EvalSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}
	var spec EvalSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file: %w", err)
	}
	return &spec, nil
}
