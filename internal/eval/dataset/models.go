package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Pair is one predicted score and the ground truth it is scored against.
type Pair struct {
	ID          string `json:"id" parquet:"id"`
	Predicted   string `json:"predicted" parquet:"predicted"`
	GroundTruth string `json:"ground_truth" parquet:"ground_truth"`
}

// Validate reports whether both sides of the pair are named.
func (p Pair) Validate() error {
	if p.GroundTruth == "" {
		return fmt.Errorf("pair %q has no ground truth", p.ID)
	}
	if p.Predicted == "" {
		return fmt.Errorf("pair %q has no prediction", p.ID)
	}
	return nil
}

// resolve makes relative paths relative to dir and fills in a missing ID
// from the ground truth file name.
func (p Pair) resolve(dir string) Pair {
	if p.Predicted != "" && !filepath.IsAbs(p.Predicted) {
		p.Predicted = filepath.Join(dir, p.Predicted)
	}
	if p.GroundTruth != "" && !filepath.IsAbs(p.GroundTruth) {
		p.GroundTruth = filepath.Join(dir, p.GroundTruth)
	}
	if p.ID == "" {
		p.ID = stem(p.GroundTruth)
	}
	return p
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
