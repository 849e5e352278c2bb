// Package annotation holds the normalized tree a score is reduced to
// before comparison. Only the categories selected by a detail.Level are
// populated; everything else is left empty.
package annotation

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/scorediff/internal/detail"
)

// RestPosition is the vertical position given to rests with no explicit
// placement.
const RestPosition = -1000

// Pitch is one notehead of a note or chord, or the single "R" of a rest.
type Pitch struct {
	Name       string `json:"name" yaml:"name"`
	Accidental string `json:"accidental,omitempty" yaml:"accidental,omitempty"`
	Tied       bool   `json:"tied,omitempty" yaml:"tied,omitempty"`
	// Position is the diatonic line/space index (step + 7*octave).
	Position int `json:"position" yaml:"position"`
}

func (p Pitch) IsRest() bool { return p.Name == "R" }

func (p Pitch) String() string {
	if p.Accidental == "" {
		return p.Name
	}
	return p.Name + " " + p.Accidental
}

// Note is a note, chord or rest. With voicing off every Note holds exactly
// one pitch.
type Note struct {
	Base
	Offset  float64 `json:"offset" yaml:"offset"`
	Pitches []Pitch `json:"pitches" yaml:"pitches"`

	Type          string   `json:"type" yaml:"type"`
	Dots          int      `json:"dots,omitempty" yaml:"dots,omitempty"`
	Tuplets       []string `json:"tuplets,omitempty" yaml:"tuplets,omitempty"`
	Beams         []string `json:"beams,omitempty" yaml:"beams,omitempty"`
	Articulations []string `json:"articulations,omitempty" yaml:"articulations,omitempty"`
	Expressions   []string `json:"expressions,omitempty" yaml:"expressions,omitempty"`

	Grace      bool `json:"grace,omitempty" yaml:"grace,omitempty"`
	GraceSlash bool `json:"grace_slash,omitempty" yaml:"grace_slash,omitempty"`

	NoteShape       string `json:"note_shape,omitempty" yaml:"note_shape,omitempty"`
	HeadFill        string `json:"head_fill,omitempty" yaml:"head_fill,omitempty"`
	HeadParenthesis bool   `json:"head_parenthesis,omitempty" yaml:"head_parenthesis,omitempty"`
	Stem            string `json:"stem,omitempty" yaml:"stem,omitempty"`
	SpaceBefore     bool   `json:"space_before,omitempty" yaml:"space_before,omitempty"`
	Style           string `json:"style,omitempty" yaml:"style,omitempty"`
}

func (n *Note) Label() string { return "Note" }

func (n *Note) IsRest() bool {
	return len(n.Pitches) == 1 && n.Pitches[0].IsRest()
}

// Head is the notehead class. Quarters and shorter share a black head.
func (n *Note) Head() string {
	switch n.Type {
	case "breve", "whole", "half":
		return n.Type
	default:
		return "black"
	}
}

// Describe renders e.g. "C4 (eighth note), tied".
func (n *Note) Describe() string {
	var b strings.Builder
	if n.Grace {
		b.WriteString("grace ")
	}

	kind := "note"
	switch {
	case n.IsRest():
		b.WriteString("rest")
		kind = ""
	case len(n.Pitches) > 1:
		kind = "chord"
		names := make([]string, len(n.Pitches))
		for i, p := range n.Pitches {
			names[i] = p.String()
		}
		b.WriteString(strings.Join(names, " "))
	case len(n.Pitches) == 1:
		b.WriteString(n.Pitches[0].String())
	}

	b.WriteString(" (")
	b.WriteString(dotted(n.Dots))
	b.WriteString(n.Type)
	if kind != "" {
		b.WriteString(" " + kind)
	}
	b.WriteString(")")

	for _, p := range n.Pitches {
		if p.Tied {
			b.WriteString(", tied")
			break
		}
	}
	return b.String()
}

func dotted(dots int) string {
	switch dots {
	case 0:
		return ""
	case 1:
		return "dotted "
	case 2:
		return "double-dotted "
	default:
		return fmt.Sprintf("%d-dotted ", dots)
	}
}

// Voice is one voice of a measure when voicing is compared.
type Voice struct {
	Base
	Notes []*Note `json:"notes" yaml:"notes"`
}

func (v *Voice) Label() string { return "Voice" }

func (v *Voice) Describe() string {
	if v.ID != "" {
		return fmt.Sprintf("voice %s (%d events)", v.ID, len(v.Notes))
	}
	return fmt.Sprintf("voice (%d events)", len(v.Notes))
}

// Measure holds either Notes (voicing off) or Voices (voicing on).
type Measure struct {
	Base
	Number int      `json:"number" yaml:"number"`
	Notes  []*Note  `json:"notes,omitempty" yaml:"notes,omitempty"`
	Voices []*Voice `json:"voices,omitempty" yaml:"voices,omitempty"`
	Extras []Extra  `json:"extras,omitempty" yaml:"-"`
	Lyrics []*Lyric `json:"lyrics,omitempty" yaml:"lyrics,omitempty"`
}

func (m *Measure) Label() string { return "Measure" }

func (m *Measure) Describe() string { return fmt.Sprintf("measure %d", m.Number) }

// Part is one staff.
type Part struct {
	Base
	Index    int        `json:"index" yaml:"index"`
	Name     string     `json:"name,omitempty" yaml:"name,omitempty"`
	Measures []*Measure `json:"measures" yaml:"measures"`
}

func (p *Part) Label() string { return "Part" }

func (p *Part) Describe() string {
	if p.Name != "" {
		return fmt.Sprintf("staff %d (%s)", p.Index, p.Name)
	}
	return fmt.Sprintf("staff %d", p.Index)
}

// Lyric is one rendered syllable of a verse.
type Lyric struct {
	Base
	Offset     float64 `json:"offset" yaml:"offset"`
	Text       string  `json:"text" yaml:"text"`
	Number     int     `json:"number,omitempty" yaml:"number,omitempty"`
	Identifier string  `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Style      string  `json:"style,omitempty" yaml:"style,omitempty"`
}

func (l *Lyric) Label() string { return "Lyric" }

func (l *Lyric) Describe() string {
	if l.Number > 0 {
		return fmt.Sprintf("%q (verse %d)", l.Text, l.Number)
	}
	return fmt.Sprintf("%q", l.Text)
}

// MetadataItem is a score-level key/value pair such as a title.
type MetadataItem struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

func (m *MetadataItem) Position() Anchor { return Anchor{} }

func (m *MetadataItem) Ref() string { return "" }

func (m *MetadataItem) Label() string { return "Metadata" }

func (m *MetadataItem) Describe() string { return m.Key + ": " + m.Value }

// StaffGroup spans staves Low..High, 1-based.
type StaffGroup struct {
	Base
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	Abbreviation string `json:"abbreviation,omitempty" yaml:"abbreviation,omitempty"`
	Symbol       string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	BarTogether  string `json:"bar_together,omitempty" yaml:"bar_together,omitempty"`
	Low          int    `json:"low" yaml:"low"`
	High         int    `json:"high" yaml:"high"`
}

func (g *StaffGroup) Label() string { return "StaffGroup" }

func (g *StaffGroup) Describe() string {
	s := fmt.Sprintf("%s staves %d-%d", g.Symbol, g.Low, g.High)
	if g.Name != "" {
		s += fmt.Sprintf(" %q", g.Name)
	}
	return strings.TrimSpace(s)
}

// BarsJoined reports whether barlines run through the group.
func (g *StaffGroup) BarsJoined() bool {
	return g.BarTogether != "" && g.BarTogether != "no"
}

// Score is the root of an annotation tree.
type Score struct {
	Parts       []*Part         `json:"parts" yaml:"parts"`
	StaffGroups []*StaffGroup   `json:"staff_groups,omitempty" yaml:"staff_groups,omitempty"`
	Metadata    []*MetadataItem `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Level       detail.Level    `json:"level" yaml:"level"`
	// Notices lists entities skipped while building.
	Notices []error `json:"-" yaml:"-"`
}

// Voicing reports whether the tree was built with voices kept.
func (s *Score) Voicing() bool {
	return s.Level.Includes(detail.Voicing)
}
