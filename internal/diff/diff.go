// Package diff aligns two annotation trees and reports the edits between
// them together with the Symbolic Error Rate.
package diff

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/lehigh-university-libraries/scorediff/internal/align"
	"github.com/lehigh-university-libraries/scorediff/internal/annotation"
	"github.com/lehigh-university-libraries/scorediff/internal/cost"
)

// ErrLevelMismatch is returned when the two trees were built with
// different detail levels.
var ErrLevelMismatch = errors.New("annotation trees built with different detail levels")

// MeasurePolicy selects how the measures of a matched part are paired.
type MeasurePolicy int

const (
	// MeasuresDP aligns measures with the edit-distance aligner.
	MeasuresDP MeasurePolicy = iota
	// MeasuresPositional pairs measures by index.
	MeasuresPositional
)

// ParseMeasurePolicy accepts "dp" or "positional".
func ParseMeasurePolicy(s string) (MeasurePolicy, error) {
	switch s {
	case "", "dp":
		return MeasuresDP, nil
	case "positional":
		return MeasuresPositional, nil
	default:
		return 0, fmt.Errorf("unknown measure alignment %q (supported: dp, positional)", s)
	}
}

func (p MeasurePolicy) String() string {
	if p == MeasuresPositional {
		return "positional"
	}
	return "dp"
}

// Result is the outcome of one comparison.
type Result struct {
	Ops             []Op `json:"ops"`
	Cost            int  `json:"cost"`
	GroundTruthSize int  `json:"ground_truth_size"`
}

// SER is Cost over GroundTruthSize, or Cost itself when the ground truth
// is empty.
func (r *Result) SER() float64 {
	if r.GroundTruthSize == 0 {
		return float64(r.Cost)
	}
	return float64(r.Cost) / float64(r.GroundTruthSize)
}

// Differ compares annotation trees. Build one with New.
type Differ struct {
	measures MeasurePolicy
	logger   *slog.Logger
}

// Option configures a Differ.
type Option func(*Differ)

// WithMeasureAlignment selects how measures are paired.
func WithMeasureAlignment(p MeasurePolicy) Option {
	return func(d *Differ) { d.measures = p }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(d *Differ) { d.logger = l }
}

// New returns a Differ using DP measure alignment unless an option says
// otherwise.
func New(opts ...Option) *Differ {
	d := &Differ{measures: MeasuresDP, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Diff compares with the default options.
func Diff(a, b *annotation.Score) (*Result, error) {
	return New().Diff(a, b)
}

// Diff compares the predicted score a with the ground truth b. Both trees
// must have been built with the same detail level.
func (d *Differ) Diff(a, b *annotation.Score) (*Result, error) {
	if a == nil || b == nil {
		return nil, errors.New("nil annotation tree")
	}
	if a.Level != b.Level {
		return nil, fmt.Errorf("%w: %s vs %s", ErrLevelMismatch, a.Level, b.Level)
	}

	var ops []Op
	ops = append(ops, metadataOps(a.Metadata, b.Metadata)...)
	ops = append(ops, staffGroupOps(a.StaffGroups, b.StaffGroups)...)

	voicing := a.Voicing()
	for _, p := range align.Positional(len(a.Parts), len(b.Parts)) {
		switch p.Op {
		case align.Match:
			ops = append(ops, d.measureListOps(a.Parts[p.I].Measures, b.Parts[p.J].Measures, voicing)...)
		case align.Delete:
			ops = append(ops, deleteOp(a.Parts[p.I], cost.PartSize(a.Parts[p.I])))
		case align.Insert:
			ops = append(ops, insertOp(b.Parts[p.J], cost.PartSize(b.Parts[p.J])))
		}
	}

	res := &Result{
		Ops:             ops,
		Cost:            total(ops),
		GroundTruthSize: cost.ScoreSize(b),
	}
	d.logger.Debug("Diff complete",
		"ops", len(res.Ops),
		"cost", res.Cost,
		"ground_truth_size", res.GroundTruthSize,
		"measure_alignment", d.measures.String())
	return res, nil
}

func (d *Differ) measureListOps(a, b []*annotation.Measure, voicing bool) []Op {
	var pairs []align.Pair
	if d.measures == MeasuresPositional {
		pairs = align.Positional(len(a), len(b))
	} else {
		pairs = align.Align(a, b, align.Funcs[*annotation.Measure]{
			Size: cost.MeasureSize,
			Cost: func(x, y *annotation.Measure) (int, bool) {
				return total(measureOps(x, y, voicing)), true
			},
			Equal: func(x, y *annotation.Measure) bool {
				return total(measureOps(x, y, voicing)) == 0
			},
		}).Pairs
	}

	var ops []Op
	for _, p := range pairs {
		switch p.Op {
		case align.Match:
			ops = append(ops, measureOps(a[p.I], b[p.J], voicing)...)
		case align.Delete:
			ops = append(ops, deleteOp(a[p.I], cost.MeasureSize(a[p.I])))
		case align.Insert:
			ops = append(ops, insertOp(b[p.J], cost.MeasureSize(b[p.J])))
		}
	}
	return ops
}

func measureOps(a, b *annotation.Measure, voicing bool) []Op {
	var ops []Op
	if voicing {
		ops = voiceOps(a.Voices, b.Voices)
	} else {
		ops = noteOps(a.Notes, b.Notes, false)
	}
	ops = append(ops, extraOps(a.Extras, b.Extras)...)
	ops = append(ops, lyricOps(a.Lyrics, b.Lyrics)...)
	return ops
}

func voiceOps(a, b []*annotation.Voice) []Op {
	al := align.Align(a, b, align.Funcs[*annotation.Voice]{
		Size: cost.VoiceSize,
		Cost: func(x, y *annotation.Voice) (int, bool) {
			return total(noteOps(x.Notes, y.Notes, true)), true
		},
	})

	var ops []Op
	for _, p := range al.Pairs {
		switch p.Op {
		case align.Match:
			ops = append(ops, noteOps(a[p.I].Notes, b[p.J].Notes, true)...)
		case align.Delete:
			ops = append(ops, deleteOp(a[p.I], cost.VoiceSize(a[p.I])))
		case align.Insert:
			ops = append(ops, insertOp(b[p.J], cost.VoiceSize(b[p.J])))
		}
	}
	return ops
}

func noteOps(a, b []*annotation.Note, voicing bool) []Op {
	al := align.Align(a, b, align.Funcs[*annotation.Note]{
		Size: cost.NoteSize,
		Cost: func(x, y *annotation.Note) (int, bool) {
			ch, ok := cost.Note(x, y, voicing)
			return cost.Total(ch), ok
		},
	})

	var ops []Op
	for _, p := range al.Pairs {
		switch p.Op {
		case align.Match:
			ch, _ := cost.Note(a[p.I], b[p.J], voicing)
			ops = append(ops, changeOps(a[p.I], b[p.J], ch)...)
		case align.Delete:
			ops = append(ops, deleteOp(a[p.I], cost.NoteSize(a[p.I])))
		case align.Insert:
			ops = append(ops, insertOp(b[p.J], cost.NoteSize(b[p.J])))
		}
	}
	return ops
}

// extraOps aligns extras kind by kind; extras of different kinds are never
// paired.
func extraOps(a, b []annotation.Extra) []Op {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	var ops []Op
	for _, kind := range annotation.ExtraKinds {
		xa, xb := ofKind(a, kind), ofKind(b, kind)
		if len(xa) == 0 && len(xb) == 0 {
			continue
		}

		al := align.Align(xa, xb, align.Funcs[annotation.Extra]{
			Size: cost.ExtraSize,
			Cost: func(x, y annotation.Extra) (int, bool) {
				ch, ok := cost.Extra(x, y)
				return cost.Total(ch), ok
			},
		})
		for _, p := range al.Pairs {
			switch p.Op {
			case align.Match:
				ch, _ := cost.Extra(xa[p.I], xb[p.J])
				ops = append(ops, changeOps(xa[p.I], xb[p.J], ch)...)
			case align.Delete:
				ops = append(ops, deleteOp(xa[p.I], cost.ExtraSize(xa[p.I])))
			case align.Insert:
				ops = append(ops, insertOp(xb[p.J], cost.ExtraSize(xb[p.J])))
			}
		}
	}
	return ops
}

func ofKind(extras []annotation.Extra, kind annotation.ExtraKind) []annotation.Extra {
	var out []annotation.Extra
	for _, e := range extras {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

type lyricKey struct {
	number int
	offset int64
}

func lyricOps(a, b []*annotation.Lyric) []Op {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	key := func(l *annotation.Lyric) lyricKey {
		return lyricKey{number: l.Number, offset: int64(math.Round(l.Offset * 10000))}
	}

	var ops []Op
	for _, p := range align.Keyed(a, b, key) {
		switch p.Op {
		case align.Match:
			ops = append(ops, changeOps(a[p.I], b[p.J], cost.Lyric(a[p.I], b[p.J]))...)
		case align.Delete:
			ops = append(ops, deleteOp(a[p.I], cost.LyricSize(a[p.I])))
		case align.Insert:
			ops = append(ops, insertOp(b[p.J], cost.LyricSize(b[p.J])))
		}
	}
	return ops
}

func metadataOps(a, b []*annotation.MetadataItem) []Op {
	var ops []Op
	key := func(m *annotation.MetadataItem) string { return m.Key }
	for _, p := range align.Keyed(a, b, key) {
		switch p.Op {
		case align.Match:
			ops = append(ops, changeOps(a[p.I], b[p.J], cost.Metadata(a[p.I], b[p.J]))...)
		case align.Delete:
			ops = append(ops, deleteOp(a[p.I], cost.MetadataSize(a[p.I])))
		case align.Insert:
			ops = append(ops, insertOp(b[p.J], cost.MetadataSize(b[p.J])))
		}
	}
	return ops
}

func staffGroupOps(a, b []*annotation.StaffGroup) []Op {
	var ops []Op
	key := func(g *annotation.StaffGroup) [2]int { return [2]int{g.Low, g.High} }
	for _, p := range align.Keyed(a, b, key) {
		switch p.Op {
		case align.Match:
			ops = append(ops, changeOps(a[p.I], b[p.J], cost.StaffGroup(a[p.I], b[p.J]))...)
		case align.Delete:
			ops = append(ops, deleteOp(a[p.I], cost.StaffGroupSize(a[p.I])))
		case align.Insert:
			ops = append(ops, insertOp(b[p.J], cost.StaffGroupSize(b[p.J])))
		}
	}
	return ops
}
