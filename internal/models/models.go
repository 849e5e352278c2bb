package models

import (
	"time"

	"github.com/lehigh-university-libraries/scorediff/internal/report"
	"github.com/lehigh-university-libraries/scorediff/internal/score"
)

// DiffRequest is the body of POST /api/diffs. Empty filter fields fall
// back to the server defaults.
type DiffRequest struct {
	Predicted        *score.Score `json:"predicted"`
	GroundTruth      *score.Score `json:"ground_truth"`
	PredictedName    string       `json:"predicted_name,omitempty"`
	GroundTruthName  string       `json:"ground_truth_name,omitempty"`
	Detail           []string     `json:"detail,omitempty"`
	Exclude          []string     `json:"exclude,omitempty"`
	MeasureAlignment string       `json:"measure_alignment,omitempty"`
}

// DiffSession is a stored comparison
type DiffSession struct {
	ID        string            `json:"id"`
	Record    report.SERRecord  `json:"record"`
	Ops       []report.OpRecord `json:"ops"`
	Marks     []report.Mark     `json:"marks"`
	Notices   []string          `json:"notices,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
