package cost

import (
	"github.com/lehigh-university-libraries/scorediff/internal/annotation"
)

// PitchSize counts the notehead plus a displayed accidental and a tie.
func PitchSize(p annotation.Pitch) int {
	return 1 + b2i(p.Accidental != "") + b2i(p.Tied)
}

// NoteSize counts pitches, dots per pitch, beams, tuplets, articulations,
// expressions, grace marks and each style field present.
func NoteSize(n *annotation.Note) int {
	size := 0
	for _, p := range n.Pitches {
		size += PitchSize(p)
	}
	size += n.Dots * len(n.Pitches)
	size += len(n.Beams) + len(n.Tuplets) + len(n.Articulations) + len(n.Expressions)
	size += b2i(n.Grace) + b2i(n.GraceSlash)
	size += b2i(n.NoteShape != "") + b2i(n.HeadFill != "") + b2i(n.HeadParenthesis)
	size += b2i(n.Stem != "") + b2i(n.SpaceBefore) + b2i(n.Style != "")
	return size
}

// VoiceSize is the sum of its notes.
func VoiceSize(v *annotation.Voice) int {
	size := 0
	for _, n := range v.Notes {
		size += NoteSize(n)
	}
	return size
}

// ExtraSize is 1 for most extras; text-bearing ones count their runes.
func ExtraSize(e annotation.Extra) int {
	size := 1
	switch x := e.(type) {
	case *annotation.TimeSig:
		size += b2i(x.Symbol != "")
	case *annotation.KeySig:
		size = max(1, abs(x.Sharps))
	case *annotation.Tempo:
		n := TextSize(x.Text)
		if x.BPM > 0 {
			n += 2
		}
		size = max(1, n)
	case *annotation.Direction:
		size = max(1, TextSize(x.Text))
	case *annotation.Ending:
		size = max(1, TextSize(x.Name))
	case *annotation.Barline:
		size += b2i(x.Repeat != "")
	}
	return size + b2i(e.StyleKey() != "")
}

// LyricSize is the syllable length, at least 1, plus its style.
func LyricSize(l *annotation.Lyric) int {
	return max(1, TextSize(l.Text)) + b2i(l.Style != "")
}

// MetadataSize counts the runes of key and value.
func MetadataSize(m *annotation.MetadataItem) int {
	return TextSize(m.Key) + TextSize(m.Value)
}

// StaffGroupSize counts name and abbreviation runes, the symbol and joined barlines.
func StaffGroupSize(g *annotation.StaffGroup) int {
	return TextSize(g.Name) + TextSize(g.Abbreviation) + 1 + b2i(g.BarsJoined())
}

// MeasureSize is the sum of its notes or voices, extras and lyrics.
func MeasureSize(m *annotation.Measure) int {
	size := 0
	for _, n := range m.Notes {
		size += NoteSize(n)
	}
	for _, v := range m.Voices {
		size += VoiceSize(v)
	}
	for _, e := range m.Extras {
		size += ExtraSize(e)
	}
	for _, l := range m.Lyrics {
		size += LyricSize(l)
	}
	return size
}

// PartSize is the sum of its measures.
func PartSize(p *annotation.Part) int {
	size := 0
	for _, m := range p.Measures {
		size += MeasureSize(m)
	}
	return size
}

// ScoreSize is the number of symbols in a whole tree. For the ground truth
// score this is the SER denominator.
func ScoreSize(s *annotation.Score) int {
	size := 0
	for _, p := range s.Parts {
		size += PartSize(p)
	}
	for _, g := range s.StaffGroups {
		size += StaffGroupSize(g)
	}
	for _, m := range s.Metadata {
		size += MetadataSize(m)
	}
	return size
}

// Size dispatches on the entity type. Unknown entities have size 0.
func Size(e annotation.Entity) int {
	switch x := e.(type) {
	case *annotation.Note:
		return NoteSize(x)
	case *annotation.Voice:
		return VoiceSize(x)
	case *annotation.Measure:
		return MeasureSize(x)
	case *annotation.Part:
		return PartSize(x)
	case *annotation.Lyric:
		return LyricSize(x)
	case *annotation.MetadataItem:
		return MetadataSize(x)
	case *annotation.StaffGroup:
		return StaffGroupSize(x)
	case annotation.Extra:
		return ExtraSize(x)
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
