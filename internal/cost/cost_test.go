package cost

import (
	"testing"

	"github.com/lehigh-university-libraries/scorediff/internal/annotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quarter(name string, position int) *annotation.Note {
	return &annotation.Note{
		Type:    "quarter",
		Pitches: []annotation.Pitch{{Name: name, Position: position}},
	}
}

func TestProperty(t *testing.T) {
	assert.Equal(t, 0, Property("up", "up"))
	assert.Equal(t, 1, Property("", "up"))
	assert.Equal(t, 1, Property("down", ""))
	assert.Equal(t, 2, Property("up", "down"))
}

func TestPitchSize(t *testing.T) {
	tests := []struct {
		name  string
		pitch annotation.Pitch
		want  int
	}{
		{"plain", annotation.Pitch{Name: "C4"}, 1},
		{"accidental", annotation.Pitch{Name: "F4", Accidental: "sharp"}, 2},
		{"tied with accidental", annotation.Pitch{Name: "B3", Accidental: "flat", Tied: true}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PitchSize(tt.pitch))
		})
	}
}

func TestNoteSize(t *testing.T) {
	n := &annotation.Note{
		Type: "eighth",
		Dots: 1,
		Pitches: []annotation.Pitch{
			{Name: "C4", Tied: true},
			{Name: "E4", Accidental: "flat"},
		},
		Beams:         []string{"start"},
		Articulations: []string{"staccato"},
		Stem:          "up",
	}
	// pitches 2+2, dots 1*2, beam 1, articulation 1, stem 1
	assert.Equal(t, 9, NoteSize(n))
}

func TestNoteCostTie(t *testing.T) {
	a := quarter("C4", 28)
	a.Type = "eighth"
	a.Beams = []string{"partial"}
	a.Pitches[0].Tied = true
	b := quarter("C4", 28)
	b.Type = "eighth"
	b.Beams = []string{"partial"}

	ch, ok := Note(a, b, false)
	require.True(t, ok)
	require.Len(t, ch, 1)
	assert.Equal(t, Change{Aspect: "tie", Action: Delete, Cost: 1}, ch[0])
}

func TestNoteUnvoicedRequiresSamePosition(t *testing.T) {
	_, ok := Note(quarter("C4", 28), quarter("D4", 29), false)
	assert.False(t, ok)

	shifted := quarter("C4", 28)
	shifted.Offset = 1
	_, ok = Note(quarter("C4", 28), shifted, false)
	assert.False(t, ok)

	ch, ok := Note(quarter("C4", 28), quarter("D4", 29), true)
	require.True(t, ok)
	assert.Equal(t, []Change{{Aspect: "pitch", Action: Edit, Cost: 2}}, ch)
}

func TestNoteHeadAndDots(t *testing.T) {
	a := quarter("G4", 32)
	b := quarter("G4", 32)
	b.Type = "half"
	b.Dots = 1

	ch, ok := Note(a, b, true)
	require.True(t, ok)
	assert.Equal(t, 3, Total(ch))
	assert.Contains(t, ch, Change{Aspect: "head", Action: Edit, Cost: 2})
	assert.Contains(t, ch, Change{Aspect: "dots", Action: Insert, Cost: 1})
}

func TestChordPitches(t *testing.T) {
	a := []annotation.Pitch{{Name: "C4", Position: 28}, {Name: "E4", Position: 30}, {Name: "G4", Position: 32}}
	b := []annotation.Pitch{{Name: "C4", Position: 28}, {Name: "G4", Position: 32}}

	ch := Pitches(a, b)
	assert.Equal(t, []Change{{Aspect: "pitch", Action: Delete, Cost: 1}}, ch)
}

func TestExtraCosts(t *testing.T) {
	clef := func(sign string, line int) *annotation.Clef {
		return &annotation.Clef{Sign: sign, Line: line}
	}

	ch, ok := Extra(clef("G", 2), clef("F", 4))
	require.True(t, ok)
	assert.Equal(t, 1, Total(ch))

	_, ok = Extra(clef("G", 2), &annotation.Dynamic{Value: "p"})
	assert.False(t, ok)

	a := &annotation.Direction{Text: "dolce"}
	b := &annotation.Direction{Text: "dolcemente"}
	b.Offset = 2
	ch, ok = Extra(a, b)
	require.True(t, ok)
	assert.Equal(t, 6, Total(ch), "5 characters inserted plus the offset change")

	ch, ok = Extra(&annotation.KeySig{Sharps: 2}, &annotation.KeySig{Sharps: 3})
	require.True(t, ok)
	assert.Equal(t, 1, Total(ch))

	ch, ok = Extra(&annotation.KeySig{Sharps: 2}, &annotation.KeySig{Sharps: -1})
	require.True(t, ok)
	assert.Equal(t, 3, Total(ch))
}

func TestMetadataAndStaffGroup(t *testing.T) {
	a := &annotation.MetadataItem{Key: "composer", Value: "Bach"}
	b := &annotation.MetadataItem{Key: "composer", Value: "Bach, J.S."}
	assert.Equal(t, 12, MetadataSize(a))
	assert.Equal(t, 6, Total(Metadata(a, b)))

	g1 := &annotation.StaffGroup{Name: "Piano", Symbol: "brace", BarTogether: "yes", Low: 1, High: 2}
	g2 := &annotation.StaffGroup{Name: "Piano", Symbol: "bracket", Low: 1, High: 2}
	assert.Equal(t, 7, StaffGroupSize(g1))
	assert.Equal(t, 2, Total(StaffGroup(g1, g2)))
}

func TestSizeAdditivity(t *testing.T) {
	n1 := quarter("C4", 28)
	n2 := quarter("E4", 30)
	n2.Pitches[0].Accidental = "flat"
	m := &annotation.Measure{
		Notes:  []*annotation.Note{n1, n2},
		Extras: []annotation.Extra{&annotation.Clef{Sign: "G", Line: 2}, &annotation.Direction{Text: "p dolce"}},
		Lyrics: []*annotation.Lyric{{Text: "la"}},
	}
	want := NoteSize(n1) + NoteSize(n2) + ExtraSize(m.Extras[0]) + ExtraSize(m.Extras[1]) + LyricSize(m.Lyrics[0])
	assert.Equal(t, want, MeasureSize(m))
	assert.Equal(t, 1+2+1+7+2, MeasureSize(m))

	p := &annotation.Part{Measures: []*annotation.Measure{m, m}}
	s := &annotation.Score{
		Parts:    []*annotation.Part{p},
		Metadata: []*annotation.MetadataItem{{Key: "title", Value: "x"}},
	}
	assert.Equal(t, 2*MeasureSize(m), PartSize(p))
	assert.Equal(t, PartSize(p)+6, ScoreSize(s))
	assert.Equal(t, ScoreSize(s)-6, Size(p))
}
