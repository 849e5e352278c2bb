package comparing

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/scorediff/internal/annotation"
	"github.com/lehigh-university-libraries/scorediff/internal/detail"
	"github.com/lehigh-university-libraries/scorediff/internal/diff"
	"github.com/lehigh-university-libraries/scorediff/internal/report"
	"github.com/lehigh-university-libraries/scorediff/internal/score"
)

// Config selects what a Service compares.
type Config struct {
	Include          []string
	Exclude          []string
	MeasureAlignment string
}

// ConfigFromEnv reads SCOREDIFF_DETAIL, SCOREDIFF_EXCLUDE and
// SCOREDIFF_MEASURE_ALIGNMENT. Lists are comma separated.
func ConfigFromEnv() Config {
	return Config{
		Include:          splitList(os.Getenv("SCOREDIFF_DETAIL")),
		Exclude:          splitList(os.Getenv("SCOREDIFF_EXCLUDE")),
		MeasureAlignment: os.Getenv("SCOREDIFF_MEASURE_ALIGNMENT"),
	}
}

// WithEnvDefaults fills empty fields of c from ConfigFromEnv.
func (c Config) WithEnvDefaults() Config {
	env := ConfigFromEnv()
	if len(c.Include) == 0 {
		c.Include = env.Include
	}
	if len(c.Exclude) == 0 {
		c.Exclude = env.Exclude
	}
	if c.MeasureAlignment == "" {
		c.MeasureAlignment = env.MeasureAlignment
	}
	return c
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Service compares parsed scores at a fixed detail level.
type Service struct {
	level  detail.Level
	differ *diff.Differ
	logger *slog.Logger
}

// NewService validates cfg. An unknown detail category fails here, before
// any score is read.
func NewService(cfg Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	level, err := detail.Parse(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, fmt.Errorf("invalid detail filter: %w", err)
	}
	policy, err := diff.ParseMeasurePolicy(cfg.MeasureAlignment)
	if err != nil {
		return nil, err
	}
	return &Service{
		level:  level,
		differ: diff.New(diff.WithMeasureAlignment(policy), diff.WithLogger(logger)),
		logger: logger,
	}, nil
}

func (s *Service) Level() detail.Level { return s.level }

// Comparison is the outcome of comparing one predicted score with its
// ground truth.
type Comparison struct {
	Result  *diff.Result
	Record  report.SERRecord
	Notices []string
}

// Compare builds both trees and diffs them. truth is the ground truth.
func (s *Service) Compare(predicted, truth *score.Score) (*Comparison, error) {
	builder := annotation.NewBuilder(s.level, s.logger)

	a, err := builder.Build(predicted)
	if err != nil {
		return nil, fmt.Errorf("failed to annotate predicted score: %w", err)
	}
	b, err := builder.Build(truth)
	if err != nil {
		return nil, fmt.Errorf("failed to annotate ground truth: %w", err)
	}

	res, err := s.differ.Diff(a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to diff scores: %w", err)
	}

	rec := report.NewSERRecord(res)
	rec.Detail = s.level.String()

	cmp := &Comparison{Result: res, Record: rec}
	for _, n := range append(a.Notices, b.Notices...) {
		cmp.Notices = append(cmp.Notices, n.Error())
	}
	return cmp, nil
}

// CompareFiles loads two score documents and compares them.
func (s *Service) CompareFiles(predictedPath, truthPath string) (*Comparison, error) {
	predicted, err := score.Load(predictedPath)
	if err != nil {
		return nil, err
	}
	truth, err := score.Load(truthPath)
	if err != nil {
		return nil, err
	}

	cmp, err := s.Compare(predicted, truth)
	if err != nil {
		return nil, err
	}
	cmp.Record.Score1 = predictedPath
	cmp.Record.Score2 = truthPath

	s.logger.Debug("Compared scores",
		"predicted", predictedPath,
		"ground_truth", truthPath,
		"errors", cmp.Record.NumSymbolErrors,
		"symbols", cmp.Record.NumSymbolsInGroundTruth)
	return cmp, nil
}
