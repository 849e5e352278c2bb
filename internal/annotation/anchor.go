package annotation

import (
	"fmt"
	"math"
	"strconv"
)

// Anchor is the musical position a diff operation is reported at.
type Anchor struct {
	Measure int     `json:"measure" yaml:"measure"`
	Staff   int     `json:"staff" yaml:"staff"`
	Beat    float64 `json:"beat" yaml:"beat"`
}

// IsZero reports whether the anchor has no position, as for score-level
// entities such as metadata.
func (a Anchor) IsZero() bool {
	return a == Anchor{}
}

func (a Anchor) String() string {
	return fmt.Sprintf("measure %d, staff %d, beat %s", a.Measure, a.Staff, FormatBeat(a.Beat))
}

// FormatBeat prints a beat without trailing zeros.
func FormatBeat(beat float64) string {
	return strconv.FormatFloat(math.Round(beat*10000)/10000, 'f', -1, 64)
}

// Entity is anything the diff can insert, delete or edit.
type Entity interface {
	Position() Anchor
	Ref() string
	Label() string
	Describe() string
}

// Base carries the identity and position every entity shares.
type Base struct {
	ID  string `json:"id,omitempty" yaml:"id,omitempty"`
	Pos Anchor `json:"pos" yaml:"pos"`
}

func (b Base) Position() Anchor { return b.Pos }

func (b Base) Ref() string { return b.ID }
