package cost

import (
	"github.com/lehigh-university-libraries/scorediff/internal/annotation"
)

// Extra compares two extras of the same kind. ok is false for extras of
// different kinds, which are never paired.
func Extra(a, b annotation.Extra) (changes []Change, ok bool) {
	if a.Kind() != b.Kind() {
		return nil, false
	}

	var ch []Change
	switch x := a.(type) {
	case *annotation.Clef:
		y := b.(*annotation.Clef)
		ch = appendIf(ch, "sign", Edit, max(
			Categorical(x.Sign, y.Sign),
			Categorical(x.Line, y.Line),
			Categorical(x.OctaveChange, y.OctaveChange)))
	case *annotation.TimeSig:
		y := b.(*annotation.TimeSig)
		ch = appendIf(ch, "numbers", Edit, Categorical(
			[2]int{x.Numerator, x.Denominator},
			[2]int{y.Numerator, y.Denominator}))
		ch = appendIf(ch, "symbol", action(x.Symbol == "", y.Symbol == ""), Categorical(x.Symbol, y.Symbol))
	case *annotation.KeySig:
		y := b.(*annotation.KeySig)
		ch = appendIf(ch, "accidentals", Edit, keySig(x.Sharps, y.Sharps))
	case *annotation.Tempo:
		y := b.(*annotation.Tempo)
		ch = appendIf(ch, "text", action(x.Text == "", y.Text == ""), Text(x.Text, y.Text))
		ch = appendIf(ch, "bpm", action(x.BPM == 0, y.BPM == 0), Categorical(x.BPM, y.BPM))
		ch = appendIf(ch, "unit", Edit, Categorical(x.BeatUnit, y.BeatUnit))
	case *annotation.Barline:
		y := b.(*annotation.Barline)
		ch = appendIf(ch, "type", Edit, Categorical(x.Type, y.Type))
		ch = appendIf(ch, "repeat", action(x.Repeat == "", y.Repeat == ""), Property(x.Repeat, y.Repeat))
	case *annotation.Ottava:
		y := b.(*annotation.Ottava)
		ch = appendIf(ch, "type", Edit, Categorical(x.Type, y.Type))
	case *annotation.Direction:
		y := b.(*annotation.Direction)
		ch = appendIf(ch, "text", Edit, Text(x.Text, y.Text))
		ch = appendIf(ch, "placement", Edit, Categorical(x.Placement, y.Placement))
	case *annotation.Dynamic:
		y := b.(*annotation.Dynamic)
		ch = appendIf(ch, "value", Edit, Categorical(x.Value, y.Value))
	case *annotation.Wedge:
		y := b.(*annotation.Wedge)
		ch = appendIf(ch, "type", Edit, Categorical(x.Type, y.Type))
	case *annotation.Slur:
		y := b.(*annotation.Slur)
		ch = appendIf(ch, "placement", Edit, Categorical(x.Placement, y.Placement))
	case *annotation.Arpeggio:
		y := b.(*annotation.Arpeggio)
		ch = appendIf(ch, "type", Edit, Categorical(x.Type, y.Type))
	case *annotation.ChordSymbol:
		y := b.(*annotation.ChordSymbol)
		ch = appendIf(ch, "name", Edit, Categorical(x.Name, y.Name))
	case *annotation.Ending:
		y := b.(*annotation.Ending)
		ch = appendIf(ch, "name", Edit, Text(x.Name, y.Name))
	case *annotation.Break:
		y := b.(*annotation.Break)
		ch = appendIf(ch, "type", Edit, Categorical(x.Type, y.Type))
	case *annotation.StaffInfo:
		y := b.(*annotation.StaffInfo)
		ch = appendIf(ch, "lines", Edit, Categorical(x.Lines, y.Lines))
		ch = appendIf(ch, "scale", Edit, Categorical(x.Scale, y.Scale))
	}

	if !sameOffset(a.At(), b.At()) {
		ch = append(ch, Change{Aspect: "offset", Action: Edit, Cost: 1})
	}
	if !sameOffset(a.Length(), b.Length()) {
		ch = append(ch, Change{Aspect: "duration", Action: Edit, Cost: 1})
	}
	ch = appendIf(ch, "style", action(a.StyleKey() == "", b.StyleKey() == ""), Categorical(a.StyleKey(), b.StyleKey()))
	return ch, true
}

// keySig charges one per accidental added or removed while the key keeps
// its direction, and a full replacement when sharps turn into flats.
func keySig(a, b int) int {
	if a == b {
		return 0
	}
	if (a >= 0 && b >= 0) || (a <= 0 && b <= 0) {
		return abs(a - b)
	}
	return max(1, abs(a)) + max(1, abs(b))
}

// Lyric compares text, verse identifier and style.
func Lyric(a, b *annotation.Lyric) []Change {
	var ch []Change
	ch = appendIf(ch, "text", Edit, Text(a.Text, b.Text))
	ch = appendIf(ch, "identifier", action(a.Identifier == "", b.Identifier == ""), Categorical(a.Identifier, b.Identifier))
	ch = appendIf(ch, "style", action(a.Style == "", b.Style == ""), Categorical(a.Style, b.Style))
	return ch
}

// Metadata compares the values of two items with the same key.
func Metadata(a, b *annotation.MetadataItem) []Change {
	return appendIf(nil, "value", action(a.Value == "", b.Value == ""), Text(a.Value, b.Value))
}

// StaffGroup compares two groups spanning the same staves.
func StaffGroup(a, b *annotation.StaffGroup) []Change {
	var ch []Change
	ch = appendIf(ch, "name", action(a.Name == "", b.Name == ""), Text(a.Name, b.Name))
	ch = appendIf(ch, "abbreviation", action(a.Abbreviation == "", b.Abbreviation == ""), Text(a.Abbreviation, b.Abbreviation))
	ch = appendIf(ch, "symbol", Edit, Categorical(a.Symbol, b.Symbol))
	ch = appendIf(ch, "barline", boolAction(a.BarsJoined(), b.BarsJoined()), Categorical(a.BarsJoined(), b.BarsJoined()))
	return ch
}
