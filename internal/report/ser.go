package report

import (
	"encoding/json"
	"io"

	"github.com/lehigh-university-libraries/scorediff/internal/annotation"
	"github.com/lehigh-university-libraries/scorediff/internal/diff"
)

// SERRecord is the machine-readable summary of one comparison.
type SERRecord struct {
	Score1                  string  `json:"score1,omitempty" yaml:"score1,omitempty"`
	Score2                  string  `json:"score2,omitempty" yaml:"score2,omitempty"`
	NumSymbolErrors         int     `json:"numSymbolErrors" yaml:"numSymbolErrors"`
	NumSymbolsInGroundTruth int     `json:"numSymbolsInGroundTruth" yaml:"numSymbolsInGroundTruth"`
	SER                     float64 `json:"SER" yaml:"SER"`
	Detail                  string  `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// NewSERRecord fills the counts and rate from a diff result.
func NewSERRecord(res *diff.Result) SERRecord {
	return SERRecord{
		NumSymbolErrors:         res.Cost,
		NumSymbolsInGroundTruth: res.GroundTruthSize,
		SER:                     res.SER(),
	}
}

// WriteSER writes rec as indented JSON.
func WriteSER(w io.Writer, rec SERRecord) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rec)
}

// OpRecord is an operation with both sides rendered as text.
type OpRecord struct {
	Label  string            `json:"label" yaml:"label"`
	Action string            `json:"action" yaml:"action"`
	Cost   int               `json:"cost" yaml:"cost"`
	Pos    annotation.Anchor `json:"pos" yaml:"pos"`
	From   string            `json:"from,omitempty" yaml:"from,omitempty"`
	To     string            `json:"to,omitempty" yaml:"to,omitempty"`
}

// OpRecords flattens operations for JSON, YAML and CSV output.
func OpRecords(ops []diff.Op) []OpRecord {
	out := make([]OpRecord, 0, len(ops))
	for _, op := range ops {
		rec := OpRecord{
			Label:  op.Label(),
			Action: string(op.Action),
			Cost:   op.Cost,
			Pos:    op.Pos,
		}
		if op.A != nil {
			rec.From = op.A.Describe()
		}
		if op.B != nil {
			rec.To = op.B.Describe()
		}
		out = append(out, rec)
	}
	return out
}
