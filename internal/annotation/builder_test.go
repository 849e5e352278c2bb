package annotation

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/lehigh-university-libraries/scorediff/internal/detail"
	"github.com/lehigh-university-libraries/scorediff/internal/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func build(t *testing.T, level detail.Level, src *score.Score) *Score {
	t.Helper()
	out, err := NewBuilder(level, quiet).Build(src)
	require.NoError(t, err)
	return out
}

func oneMeasure(m score.Measure) *score.Score {
	return &score.Score{Staves: []score.Staff{{Measures: []score.Measure{m}}}}
}

func pitch(step string, octave int) score.Pitch {
	return score.Pitch{Step: step, Octave: octave}
}

func TestBuildAnchorsAndMeter(t *testing.T) {
	src := &score.Score{Staves: []score.Staff{
		{Measures: []score.Measure{
			{Number: 1, Voices: []score.Voice{{Events: []score.Event{
				{Offset: 0, Type: "half", Pitches: []score.Pitch{pitch("C", 4)}},
				{Offset: 2, Type: "half", Pitches: []score.Pitch{pitch("D", 4)}},
			}}}},
			{
				Objects: []score.Object{{Kind: "timesig", Numerator: 6, Denominator: 8}},
				Voices: []score.Voice{{Events: []score.Event{
					{Offset: 1.5, Type: "quarter", Pitches: []score.Pitch{pitch("E", 4)}},
				}}},
			},
		}},
		{Measures: []score.Measure{{Number: 7}}},
	}}

	out := build(t, detail.AllObjects, src)
	require.Len(t, out.Parts, 2)

	m1 := out.Parts[0].Measures[0]
	assert.Equal(t, Anchor{Measure: 1, Staff: 1, Beat: 3}, m1.Notes[1].Position())

	// unnumbered measure takes its index; 6/8 counts eighths
	m2 := out.Parts[0].Measures[1]
	assert.Equal(t, 2, m2.Number)
	assert.Equal(t, Anchor{Measure: 2, Staff: 1, Beat: 4}, m2.Notes[0].Position())
	require.Len(t, m2.Extras, 1)
	assert.Equal(t, KindTimeSig, m2.Extras[0].Kind())

	assert.Equal(t, 7, out.Parts[1].Measures[0].Number)
	assert.Equal(t, 2, out.Parts[1].Index)
	assert.Equal(t, Anchor{Measure: 7, Staff: 2, Beat: 1}, out.Parts[1].Position())

	empty := build(t, detail.AllObjects, &score.Score{Staves: []score.Staff{{}}})
	assert.Equal(t, Anchor{Staff: 1}, empty.Parts[0].Position())
}

func TestBuildMalformed(t *testing.T) {
	tests := []struct {
		name string
		src  *score.Score
	}{
		{name: "nil score", src: nil},
		{
			name: "negative offset",
			src: oneMeasure(score.Measure{Voices: []score.Voice{{Events: []score.Event{
				{Offset: -1, Type: "quarter", Rest: true},
			}}}}),
		},
		{
			name: "nan offset",
			src: oneMeasure(score.Measure{Objects: []score.Object{
				{Kind: "dynamic", Type: "p", Offset: math.NaN()},
			}}),
		},
		{
			name: "note without pitches",
			src: oneMeasure(score.Measure{Voices: []score.Voice{{Events: []score.Event{
				{Offset: 0, Type: "quarter"},
			}}}}),
		},
		{
			name: "staff group out of range",
			src: &score.Score{
				Staves:      []score.Staff{{}},
				StaffGroups: []score.StaffGroup{{Staves: []int{0, 1}}},
			},
		},
		{
			name: "empty staff group",
			src: &score.Score{
				Staves:      []score.Staff{{}},
				StaffGroups: []score.StaffGroup{{Name: "Piano"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder(detail.AllObjects, quiet).Build(tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput))
			assert.False(t, errors.Is(err, ErrUnsupportedEntity))
		})
	}
}

func TestBuildSkipsUnsupported(t *testing.T) {
	src := oneMeasure(score.Measure{
		Number: 3,
		Voices: []score.Voice{{Events: []score.Event{
			{Offset: 0, Type: "quarter", Pitches: []score.Pitch{pitch("C", 4)}},
			{Offset: 1, Type: "maxima", Pitches: []score.Pitch{pitch("C", 4)}},
			{Offset: 2, Type: "quarter", Pitches: []score.Pitch{pitch("H", 4)}},
		}}},
		Objects: []score.Object{
			{Kind: "glissando"},
			{Kind: "timesig", Numerator: 3},
		},
	})

	out := build(t, detail.AllObjects, src)
	require.Len(t, out.Parts[0].Measures[0].Notes, 1)
	assert.Empty(t, out.Parts[0].Measures[0].Extras)
	require.Len(t, out.Notices, 4)

	var unsupported *UnsupportedEntityError
	require.True(t, errors.As(out.Notices[0], &unsupported))
	assert.Equal(t, 3, unsupported.Measure)
	assert.Equal(t, 1, unsupported.Staff)
	for _, n := range out.Notices {
		assert.ErrorIs(t, n, ErrUnsupportedEntity)
	}
}

func TestBuildHiddenObjectsExcluded(t *testing.T) {
	src := oneMeasure(score.Measure{
		Voices: []score.Voice{{Events: []score.Event{
			{Offset: 0, Type: "quarter", Pitches: []score.Pitch{pitch("C", 4)}, Hidden: true},
		}}},
		Objects: []score.Object{{Kind: "dynamic", Type: "f", Hidden: true}},
	})
	out := build(t, detail.AllObjects, src)
	assert.Empty(t, out.Parts[0].Measures[0].Notes)
	assert.Empty(t, out.Parts[0].Measures[0].Extras)
}

func TestBuildFlattenOrder(t *testing.T) {
	src := oneMeasure(score.Measure{Voices: []score.Voice{
		{Events: []score.Event{
			{Offset: 0, Type: "half", Pitches: []score.Pitch{pitch("G", 4), pitch("E", 4)}},
			{Offset: 2, Type: "half", Pitches: []score.Pitch{pitch("F", 4)}},
		}},
		{Events: []score.Event{
			{Offset: 0, Type: "eighth", Grace: true, Pitches: []score.Pitch{pitch("D", 5)}},
			{Offset: 0, Type: "half", Pitches: []score.Pitch{pitch("C", 3)}},
			{Offset: 2, Type: "half", Rest: true},
		}},
	}})

	out := build(t, detail.AllObjects, src)
	m := out.Parts[0].Measures[0]
	assert.Empty(t, m.Voices)

	var names []string
	for _, n := range m.Notes {
		require.Len(t, n.Pitches, 1)
		names = append(names, n.Pitches[0].Name)
	}
	assert.Equal(t, []string{"D5", "C3", "E4", "G4", "R", "F4"}, names)
}

func TestBuildVoicing(t *testing.T) {
	src := oneMeasure(score.Measure{Voices: []score.Voice{
		{ID: "v1", Events: []score.Event{
			{Offset: 0, Type: "whole", Pitches: []score.Pitch{pitch("G", 4), pitch("C", 4)}},
		}},
		{ID: "v2", Events: []score.Event{
			{Offset: 0, Type: "whole", Pitches: []score.Pitch{pitch("C", 3)}},
		}},
	}})

	out := build(t, detail.AllObjects|detail.Voicing, src)
	m := out.Parts[0].Measures[0]
	assert.Empty(t, m.Notes)
	require.Len(t, m.Voices, 2)
	require.Len(t, m.Voices[0].Notes, 1)
	chord := m.Voices[0].Notes[0]
	assert.Equal(t, "C4", chord.Pitches[0].Name)
	assert.Equal(t, "G4", chord.Pitches[1].Name)
	assert.True(t, out.Voicing())
}

func TestBuildBeams(t *testing.T) {
	events := []score.Event{
		{Offset: 0, Type: "eighth", Pitches: []score.Pitch{pitch("C", 4)}, Beams: []string{"start"}},
		{Offset: 0.5, Type: "eighth", Rest: true},
		{Offset: 1, Type: "eighth", Pitches: []score.Pitch{pitch("E", 4)}, Beams: []string{"stop"}},
		{Offset: 1.5, Type: "16th", Pitches: []score.Pitch{pitch("F", 4)}},
		{Offset: 1.75, Type: "16th", Rest: true},
		{Offset: 2, Type: "half", Pitches: []score.Pitch{pitch("G", 4)}},
	}
	src := oneMeasure(score.Measure{Voices: []score.Voice{{Events: events}}})

	out := build(t, detail.AllObjects, src)
	notes := out.Parts[0].Measures[0].Notes
	require.Len(t, notes, 6)
	assert.Equal(t, []string{"start"}, notes[0].Beams)
	assert.Equal(t, []string{"continue"}, notes[1].Beams)
	assert.Equal(t, []string{"stop"}, notes[2].Beams)
	assert.Equal(t, []string{"partial", "partial"}, notes[3].Beams)
	assert.Equal(t, []string{"partial", "partial"}, notes[4].Beams)
	assert.Empty(t, notes[5].Beams)

	out = build(t, detail.AllObjects&^detail.Beams, src)
	notes = out.Parts[0].Measures[0].Notes
	assert.Equal(t, []string{"partial"}, notes[0].Beams)
	assert.Equal(t, []string{"partial"}, notes[1].Beams)
}

func TestBuildTuplets(t *testing.T) {
	triplet := func(typ string) []score.Tuplet {
		return []score.Tuplet{{Type: typ, Actual: 3, Normal: 2, Bracket: true}}
	}
	events := []score.Event{
		{Offset: 0, Type: "eighth", Pitches: []score.Pitch{pitch("C", 4)}, Tuplets: triplet("")},
		{Offset: 1.0 / 3, Type: "eighth", Pitches: []score.Pitch{pitch("D", 4)}, Tuplets: triplet("")},
		{Offset: 2.0 / 3, Type: "eighth", Pitches: []score.Pitch{pitch("E", 4)}, Tuplets: triplet("")},
		{Offset: 1, Type: "quarter", Pitches: []score.Pitch{pitch("F", 4)}},
	}
	src := oneMeasure(score.Measure{Voices: []score.Voice{{Events: events}}})

	notes := build(t, detail.AllObjects, src).Parts[0].Measures[0].Notes
	assert.Equal(t, []string{"start 3"}, notes[0].Tuplets)
	assert.Equal(t, []string{"continue 3"}, notes[1].Tuplets)
	assert.Equal(t, []string{"stop 3"}, notes[2].Tuplets)
	assert.Empty(t, notes[3].Tuplets)

	notes = build(t, detail.AllObjects|detail.Style, src).Parts[0].Measures[0].Notes
	assert.Equal(t, []string{"start 3B"}, notes[0].Tuplets)
}

func TestBuildNoteDecorations(t *testing.T) {
	fill := false
	ev := score.Event{
		Offset:        0,
		Type:          "quarter",
		Pitches:       []score.Pitch{{Step: "c", Octave: 5, Accidental: "sharp", Tie: "start"}},
		Articulations: []string{"staccato", "accent"},
		Expressions:   []string{"trill", "tremolo-3"},
		HeadFill:      &fill,
		Stem:          "down",
	}
	src := oneMeasure(score.Measure{Voices: []score.Voice{{Events: []score.Event{ev}}}})

	n := build(t, detail.AllObjects, src).Parts[0].Measures[0].Notes[0]
	assert.Equal(t, Pitch{Name: "C5", Accidental: "sharp", Tied: true, Position: 35}, n.Pitches[0])
	assert.Equal(t, []string{"accent", "staccato"}, n.Articulations)
	assert.Equal(t, []string{"tremolo-3", "trill"}, n.Expressions)
	assert.Empty(t, n.Stem)
	assert.Empty(t, n.HeadFill)

	n = build(t, detail.NotesAndRests|detail.Tremolos|detail.Style, src).Parts[0].Measures[0].Notes[0]
	assert.False(t, n.Pitches[0].Tied)
	assert.Empty(t, n.Articulations)
	assert.Equal(t, []string{"tremolo-3"}, n.Expressions)
	assert.Equal(t, "down", n.Stem)
	assert.Equal(t, "hollow", n.HeadFill)
}

func TestBuildExtrasFilteredAndSorted(t *testing.T) {
	src := oneMeasure(score.Measure{Objects: []score.Object{
		{Kind: "dynamic", Text: "mf", Offset: 2},
		{Kind: "clef", Sign: "F", Line: 4},
		{Kind: "barline", Type: "final", Offset: 4},
		{Kind: "chordsym", Text: "Cmaj7", Offset: 1},
	}})

	extras := build(t, detail.AllObjects, src).Parts[0].Measures[0].Extras
	var kinds []ExtraKind
	for _, e := range extras {
		kinds = append(kinds, e.Kind())
	}
	assert.Equal(t, []ExtraKind{KindClef, KindChordSymbol, KindDynamic, KindBarline}, kinds)
	assert.Equal(t, "mf", extras[2].(*Dynamic).Value)

	extras = build(t, detail.Signatures|detail.Barlines, src).Parts[0].Measures[0].Extras
	require.Len(t, extras, 2)
	assert.Equal(t, KindClef, extras[0].Kind())
	assert.Equal(t, KindBarline, extras[1].Kind())
}

func TestBuildLyrics(t *testing.T) {
	src := oneMeasure(score.Measure{Lyrics: []score.Lyric{
		{Offset: 1, Text: "ia", Syllabic: "end", Number: 1},
		{Offset: 0, Text: "Glo", Syllabic: "begin", Number: 1},
		{Offset: 0, Text: "Et", Number: 2},
		{Offset: 0.5, Text: "ri", Syllabic: "middle", Number: 1},
	}})

	lyrics := build(t, detail.AllObjects, src).Parts[0].Measures[0].Lyrics
	var texts []string
	for _, l := range lyrics {
		texts = append(texts, l.Text)
	}
	assert.Equal(t, []string{"Glo-", "Et", "-ri-", "-ia"}, texts)

	assert.Empty(t, build(t, detail.DecoratedNotesAndRests, src).Parts[0].Measures[0].Lyrics)
}

func TestBuildStaffGroupsAndMetadata(t *testing.T) {
	src := &score.Score{
		Staves:      []score.Staff{{}, {}, {}},
		StaffGroups: []score.StaffGroup{{Name: "Piano", Symbol: "brace", BarTogether: "yes", Staves: []int{2, 1}}},
		Metadata:    []score.MetadataItem{{Key: "composer", Value: "Anon"}},
	}

	out := build(t, detail.AllObjects, src)
	require.Len(t, out.StaffGroups, 1)
	assert.Equal(t, 2, out.StaffGroups[0].Low)
	assert.Equal(t, 3, out.StaffGroups[0].High)
	assert.Empty(t, out.Metadata)

	out = build(t, detail.Metadata, src)
	assert.Empty(t, out.StaffGroups)
	require.Len(t, out.Metadata, 1)
	assert.Equal(t, "composer", out.Metadata[0].Key)
}

func TestBuildDoesNotModifySource(t *testing.T) {
	arts := []string{"tenuto", "accent"}
	src := oneMeasure(score.Measure{Voices: []score.Voice{{Events: []score.Event{
		{Offset: 0, Type: "quarter", Pitches: []score.Pitch{pitch("G", 4), pitch("C", 4)}, Articulations: arts},
	}}}})

	build(t, detail.AllObjects, src)
	ev := src.Staves[0].Measures[0].Voices[0].Events[0]
	assert.Equal(t, []string{"tenuto", "accent"}, ev.Articulations)
	assert.Equal(t, "G", ev.Pitches[0].Step)
}
