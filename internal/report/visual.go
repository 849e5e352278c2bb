package report

import (
	"encoding/json"
	"io"

	"github.com/lehigh-university-libraries/scorediff/internal/annotation"
	"github.com/lehigh-university-libraries/scorediff/internal/diff"
)

// Mark tells a renderer to highlight one entity. Score is 1 for the
// predicted score and 2 for the ground truth.
type Mark struct {
	Score       int               `json:"score"`
	Ref         string            `json:"ref,omitempty"`
	Label       string            `json:"label"`
	Pos         annotation.Anchor `json:"pos"`
	Change      string            `json:"change"`
	Description string            `json:"description"`
}

// Marks turns operations into highlight instructions: the predicted side
// of an operation is marked deleted and the ground truth side inserted.
func Marks(ops []diff.Op) []Mark {
	var marks []Mark
	for _, op := range ops {
		if op.A != nil {
			marks = append(marks, Mark{
				Score:       1,
				Ref:         op.A.Ref(),
				Label:       op.Label(),
				Pos:         op.A.Position(),
				Change:      "delete",
				Description: op.A.Describe(),
			})
		}
		if op.B != nil {
			marks = append(marks, Mark{
				Score:       2,
				Ref:         op.B.Ref(),
				Label:       op.Label(),
				Pos:         op.B.Position(),
				Change:      "insert",
				Description: op.B.Describe(),
			})
		}
	}
	return marks
}

// WriteMarks writes marks as indented JSON.
func WriteMarks(w io.Writer, marks []Mark) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(marks)
}
