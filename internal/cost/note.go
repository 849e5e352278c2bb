package cost

import (
	"github.com/lehigh-university-libraries/scorediff/internal/align"
	"github.com/lehigh-university-libraries/scorediff/internal/annotation"
)

// Pitch compares two paired pitches. A different name is a replacement
// (delete plus add) and costs 2.
func Pitch(a, b annotation.Pitch) []Change {
	var ch []Change
	if a.Name != b.Name {
		aspect := "pitch"
		if a.IsRest() != b.IsRest() {
			aspect = "rest"
		}
		ch = append(ch, Change{Aspect: aspect, Action: Edit, Cost: 2})
	}
	ch = appendIf(ch, "accidental", action(a.Accidental == "", b.Accidental == ""), Property(a.Accidental, b.Accidental))
	ch = appendIf(ch, "tie", boolAction(a.Tied, b.Tied), Categorical(a.Tied, b.Tied))
	return ch
}

// Pitches aligns the pitch lists of two notes.
func Pitches(a, b []annotation.Pitch) []Change {
	al := align.Align(a, b, align.Funcs[annotation.Pitch]{
		Size: PitchSize,
		Cost: func(x, y annotation.Pitch) (int, bool) {
			return Total(Pitch(x, y)), true
		},
		Equal: func(x, y annotation.Pitch) bool { return x == y },
	})

	var ch []Change
	for _, p := range al.Pairs {
		switch p.Op {
		case align.Match:
			ch = append(ch, Pitch(a[p.I], b[p.J])...)
		case align.Delete:
			ch = append(ch, Change{Aspect: "pitch", Action: Delete, Cost: PitchSize(a[p.I])})
		case align.Insert:
			ch = append(ch, Change{Aspect: "pitch", Action: Insert, Cost: PitchSize(b[p.J])})
		}
	}
	return ch
}

func position(n *annotation.Note) int {
	if len(n.Pitches) == 0 {
		return annotation.RestPosition
	}
	return n.Pitches[0].Position
}

// Pairable reports whether two notes may be matched at all. With voicing
// any two notes may; without it they must share offset and staff position.
func Pairable(a, b *annotation.Note, voicing bool) bool {
	if voicing {
		return true
	}
	return sameOffset(a.Offset, b.Offset) && position(a) == position(b)
}

// Note compares two notes field by field. ok is false when the notes are
// not Pairable.
func Note(a, b *annotation.Note, voicing bool) (changes []Change, ok bool) {
	if !Pairable(a, b, voicing) {
		return nil, false
	}

	ch := Pitches(a.Pitches, b.Pitches)

	if a.Head() != b.Head() {
		ch = append(ch, Change{Aspect: "head", Action: Edit, Cost: 2})
	}
	if d := b.Dots - a.Dots; d > 0 {
		ch = append(ch, Change{Aspect: "dots", Action: Insert, Cost: d})
	} else if d < 0 {
		ch = append(ch, Change{Aspect: "dots", Action: Delete, Cost: -d})
	}
	ch = appendIf(ch, "grace", boolAction(a.Grace, b.Grace), Categorical(a.Grace, b.Grace))
	ch = appendIf(ch, "graceslash", boolAction(a.GraceSlash, b.GraceSlash), Categorical(a.GraceSlash, b.GraceSlash))

	ch = appendSequence(ch, "beam", a.Beams, b.Beams)
	ch = appendSequence(ch, "tuplet", a.Tuplets, b.Tuplets)
	ch = appendSequence(ch, "articulation", a.Articulations, b.Articulations)
	ch = appendSequence(ch, "expression", a.Expressions, b.Expressions)

	ch = appendIf(ch, "noteshape", action(a.NoteShape == "", b.NoteShape == ""), Property(a.NoteShape, b.NoteShape))
	ch = appendIf(ch, "headfill", action(a.HeadFill == "", b.HeadFill == ""), Property(a.HeadFill, b.HeadFill))
	ch = appendIf(ch, "headparenthesis", boolAction(a.HeadParenthesis, b.HeadParenthesis), Categorical(a.HeadParenthesis, b.HeadParenthesis))
	ch = appendIf(ch, "stem", action(a.Stem == "", b.Stem == ""), Property(a.Stem, b.Stem))
	ch = appendIf(ch, "spacebefore", boolAction(a.SpaceBefore, b.SpaceBefore), Categorical(a.SpaceBefore, b.SpaceBefore))
	ch = appendIf(ch, "style", action(a.Style == "", b.Style == ""), Categorical(a.Style, b.Style))

	return ch, true
}

func appendSequence(ch []Change, aspect string, a, b []string) []Change {
	return appendIf(ch, aspect, action(len(a) == 0, len(b) == 0), Sequence(a, b))
}
