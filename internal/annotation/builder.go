package annotation

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/scorediff/internal/detail"
	"github.com/lehigh-university-libraries/scorediff/internal/score"
)

// flagCounts maps graphical duration types to their flag count. Types
// missing here are not supported.
var flagCounts = map[string]int{
	"breve": 0, "whole": 0, "half": 0, "quarter": 0,
	"eighth": 1, "16th": 2, "32nd": 3, "64th": 4, "128th": 5, "256th": 6,
}

var stepIndex = map[string]int{"C": 0, "D": 1, "E": 2, "F": 3, "G": 4, "A": 5, "B": 6}

var extraCategory = map[ExtraKind]detail.Level{
	KindClef:        detail.Signatures,
	KindKeySig:      detail.Signatures,
	KindTimeSig:     detail.Signatures,
	KindTempo:       detail.Directions,
	KindDirection:   detail.Directions,
	KindDynamic:     detail.Directions,
	KindWedge:       detail.Directions,
	KindEnding:      detail.Directions,
	KindBarline:     detail.Barlines,
	KindStaffInfo:   detail.StaffDetails,
	KindChordSymbol: detail.ChordSymbols,
	KindOttava:      detail.Ottavas,
	KindArpeggio:    detail.Arpeggios,
	KindSlur:        detail.Slurs,
	KindBreak:       detail.Style,
}

// Builder turns a parsed score into an annotation tree restricted to a
// detail level.
type Builder struct {
	level  detail.Level
	logger *slog.Logger
}

// NewBuilder returns a Builder for level. A nil logger uses slog.Default.
func NewBuilder(level detail.Level, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{level: level, logger: logger}
}

// Build never modifies src. Unsupported entities are skipped and recorded
// in the returned Score.Notices; a MalformedInputError aborts the build.
func (b *Builder) Build(src *score.Score) (*Score, error) {
	if src == nil {
		return nil, &MalformedInputError{Reason: "no score"}
	}

	out := &Score{Level: b.level}
	for i, st := range src.Staves {
		part, err := b.buildPart(out, i+1, st)
		if err != nil {
			return nil, err
		}
		out.Parts = append(out.Parts, part)
	}

	for _, g := range src.StaffGroups {
		group, err := b.buildStaffGroup(g, len(src.Staves))
		if err != nil {
			return nil, err
		}
		if b.level.Includes(detail.StaffDetails) {
			out.StaffGroups = append(out.StaffGroups, group)
		}
	}

	if b.level.Includes(detail.Metadata) {
		for _, item := range src.Metadata {
			out.Metadata = append(out.Metadata, &MetadataItem{Key: item.Key, Value: item.Value})
		}
	}

	b.logger.Debug("Built annotation tree",
		"parts", len(out.Parts),
		"staff_groups", len(out.StaffGroups),
		"metadata", len(out.Metadata),
		"skipped", len(out.Notices),
		"detail", b.level.String())

	return out, nil
}

func (b *Builder) buildStaffGroup(g score.StaffGroup, staves int) (*StaffGroup, error) {
	if len(g.Staves) == 0 {
		return nil, &MalformedInputError{Reason: "staff group without staves"}
	}
	low, high := math.MaxInt, math.MinInt
	for _, idx := range g.Staves {
		if idx < 0 || idx >= staves {
			return nil, &MalformedInputError{Reason: fmt.Sprintf("staff group references staff %d of %d", idx, staves)}
		}
		low = min(low, idx+1)
		high = max(high, idx+1)
	}
	return &StaffGroup{
		Base:         Base{ID: g.ID},
		Name:         g.Name,
		Abbreviation: g.Abbreviation,
		Symbol:       g.Symbol,
		BarTogether:  g.BarTogether,
		Low:          low,
		High:         high,
	}, nil
}

// meter tracks the time signature in force on a staff.
type meter struct {
	denominator int
}

func (m meter) beat(offset float64) float64 {
	return 1 + offset*float64(m.denominator)/4
}

func (b *Builder) buildPart(out *Score, staff int, st score.Staff) (*Part, error) {
	part := &Part{
		Base:  Base{ID: st.ID, Pos: Anchor{Staff: staff}},
		Index: staff,
		Name:  st.Name,
	}

	m := meter{denominator: 4}
	for i, sm := range st.Measures {
		number := sm.Number
		if number == 0 {
			number = i + 1
		}
		for _, obj := range sm.Objects {
			if obj.Kind == string(KindTimeSig) && obj.Denominator > 0 {
				m.denominator = obj.Denominator
			}
		}

		measure, err := b.buildMeasure(out, staff, number, m, sm)
		if err != nil {
			return nil, err
		}
		part.Measures = append(part.Measures, measure)
	}
	if len(part.Measures) > 0 {
		part.Pos = part.Measures[0].Pos
	}
	return part, nil
}

func badOffset(x float64) bool {
	return x < 0 || math.IsNaN(x) || math.IsInf(x, 0)
}

// skip records an unsupported entity.
func (b *Builder) skip(out *Score, entity string, staff, measure int, reason string) {
	notice := &UnsupportedEntityError{Entity: entity, Staff: staff, Measure: measure, Reason: reason}
	b.logger.Warn("Skipping unsupported entity", "entity", entity, "staff", staff, "measure", measure, "reason", reason)
	out.Notices = append(out.Notices, notice)
}

func (b *Builder) buildMeasure(out *Score, staff, number int, m meter, sm score.Measure) (*Measure, error) {
	measure := &Measure{
		Base:   Base{ID: sm.ID, Pos: Anchor{Measure: number, Staff: staff, Beat: 1}},
		Number: number,
	}
	malformed := func(reason string) error {
		return &MalformedInputError{Staff: staff, Measure: number, Reason: reason}
	}

	for _, v := range sm.Voices {
		for _, ev := range v.Events {
			if badOffset(ev.Offset) {
				return nil, malformed(fmt.Sprintf("event offset %v", ev.Offset))
			}
			if !ev.Rest && len(ev.Pitches) == 0 {
				return nil, malformed("note event without pitches")
			}
		}
	}
	for _, obj := range sm.Objects {
		if badOffset(obj.Offset) || badOffset(obj.Duration) {
			return nil, malformed(fmt.Sprintf("%s offset %v", obj.Kind, obj.Offset))
		}
	}
	for _, l := range sm.Lyrics {
		if badOffset(l.Offset) {
			return nil, malformed(fmt.Sprintf("lyric offset %v", l.Offset))
		}
	}

	if b.level.Includes(detail.NotesAndRests) {
		b.buildNotes(out, measure, m, sm)
	}

	for _, obj := range sm.Objects {
		if obj.Hidden {
			continue
		}
		kind := ExtraKind(strings.ToLower(obj.Kind))
		category, ok := extraCategory[kind]
		if !ok {
			b.skip(out, obj.Kind, staff, number, "unknown object kind")
			continue
		}
		if !b.level.Includes(category) {
			continue
		}
		if kind == KindTimeSig && obj.Denominator <= 0 {
			b.skip(out, obj.Kind, staff, number, "time signature without denominator")
			continue
		}
		measure.Extras = append(measure.Extras, b.buildExtra(kind, obj, Anchor{Measure: number, Staff: staff, Beat: m.beat(obj.Offset)}))
	}
	sort.SliceStable(measure.Extras, func(i, j int) bool {
		return measure.Extras[i].At() < measure.Extras[j].At()
	})

	if b.level.Includes(detail.Lyrics) {
		for _, l := range sm.Lyrics {
			measure.Lyrics = append(measure.Lyrics, &Lyric{
				Base:       Base{ID: l.ID, Pos: Anchor{Measure: number, Staff: staff, Beat: m.beat(l.Offset)}},
				Offset:     l.Offset,
				Text:       syllable(l.Text, l.Syllabic),
				Number:     l.Number,
				Identifier: l.Identifier,
				Style:      b.style(l.Style),
			})
		}
		sort.SliceStable(measure.Lyrics, func(i, j int) bool {
			if measure.Lyrics[i].Offset != measure.Lyrics[j].Offset {
				return measure.Lyrics[i].Offset < measure.Lyrics[j].Offset
			}
			return measure.Lyrics[i].Number < measure.Lyrics[j].Number
		})
	}

	return measure, nil
}

func syllable(text, syllabic string) string {
	switch syllabic {
	case "begin":
		return text + "-"
	case "middle":
		return "-" + text + "-"
	case "end":
		return "-" + text
	default:
		return text
	}
}

// style renders a style map canonically, or nothing when style is not
// compared.
func (b *Builder) style(m map[string]string) string {
	if !b.level.Includes(detail.Style) || len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + m[k]
	}
	return strings.Join(parts, ";")
}

// flatNote orders notes when voices are flattened.
type flatNote struct {
	note  *Note
	grace int
	seq   int
}

func (b *Builder) buildNotes(out *Score, measure *Measure, m meter, sm score.Measure) {
	staff, number := measure.Pos.Staff, measure.Number
	var flat []flatNote

	for _, v := range sm.Voices {
		var events []score.Event
		for _, ev := range v.Events {
			if ev.Hidden {
				continue
			}
			if _, ok := flagCounts[ev.Type]; !ok {
				b.skip(out, "note", staff, number, fmt.Sprintf("duration type %q", ev.Type))
				continue
			}
			if bad := badStep(ev); bad != "" {
				b.skip(out, "note", staff, number, fmt.Sprintf("pitch step %q", bad))
				continue
			}
			events = append(events, ev)
		}
		if len(events) == 0 {
			continue
		}

		beams := enhancedBeams(events, b.level.Includes(detail.Beams))
		tuplets := tupletLabels(events, b.level.Includes(detail.Style))

		voice := &Voice{Base: Base{ID: v.ID, Pos: measure.Pos}}
		graceSeq := 0
		for i, ev := range events {
			pos := Anchor{Measure: number, Staff: staff, Beat: m.beat(ev.Offset)}
			note := b.buildNote(ev, beams[i], tuplets[i], pos)

			if ev.Grace {
				graceSeq++
			} else {
				graceSeq = 0
			}

			if b.level.Includes(detail.Voicing) {
				voice.Notes = append(voice.Notes, note)
				continue
			}
			grace := 1
			if note.Grace {
				grace = 0
			}
			for _, p := range note.Pitches {
				single := *note
				single.Pitches = []Pitch{p}
				flat = append(flat, flatNote{note: &single, grace: grace, seq: graceSeq})
			}
		}
		if b.level.Includes(detail.Voicing) {
			measure.Voices = append(measure.Voices, voice)
		}
	}

	sort.SliceStable(flat, func(i, j int) bool {
		a, c := flat[i], flat[j]
		if a.note.Offset != c.note.Offset {
			return a.note.Offset < c.note.Offset
		}
		if a.grace != c.grace {
			return a.grace < c.grace
		}
		if a.seq != c.seq {
			return a.seq < c.seq
		}
		return a.note.Pitches[0].Position < c.note.Pitches[0].Position
	})
	for _, f := range flat {
		measure.Notes = append(measure.Notes, f.note)
	}
}

func badStep(ev score.Event) string {
	if ev.Rest {
		return ""
	}
	for _, p := range ev.Pitches {
		if _, ok := stepIndex[strings.ToUpper(p.Step)]; !ok {
			return p.Step
		}
	}
	return ""
}

func (b *Builder) buildNote(ev score.Event, beams, tuplets []string, pos Anchor) *Note {
	note := &Note{
		Base:    Base{ID: ev.ID, Pos: pos},
		Offset:  ev.Offset,
		Type:    ev.Type,
		Dots:    ev.Dots,
		Beams:   beams,
		Tuplets: tuplets,
		Grace:   ev.Grace,
	}
	note.GraceSlash = ev.Grace && ev.GraceSlash

	if ev.Rest {
		position := RestPosition
		if ev.RestLine != nil {
			position = *ev.RestLine
		}
		note.Pitches = []Pitch{{Name: "R", Position: position}}
	} else {
		for _, p := range ev.Pitches {
			step := strings.ToUpper(p.Step)
			pitch := Pitch{
				Name:       step + strconv.Itoa(p.Octave),
				Accidental: p.Accidental,
				Position:   stepIndex[step] + 7*p.Octave,
			}
			if b.level.Includes(detail.Ties) {
				pitch.Tied = p.Tie == "start" || p.Tie == "continue"
			}
			note.Pitches = append(note.Pitches, pitch)
		}
		sort.SliceStable(note.Pitches, func(i, j int) bool {
			return note.Pitches[i].Position < note.Pitches[j].Position
		})
	}

	if b.level.Includes(detail.Articulations) {
		note.Articulations = sortedCopy(ev.Articulations)
	}
	for _, e := range ev.Expressions {
		tremolo := strings.Contains(strings.ToLower(e), "tremolo")
		if (tremolo && b.level.Includes(detail.Tremolos)) || (!tremolo && b.level.Includes(detail.Ornaments)) {
			note.Expressions = append(note.Expressions, e)
		}
	}
	sort.Strings(note.Expressions)

	if b.level.Includes(detail.Style) {
		if ev.NoteShape != "normal" {
			note.NoteShape = ev.NoteShape
		}
		if ev.HeadFill != nil && *ev.HeadFill != (note.Head() == "black") {
			if *ev.HeadFill {
				note.HeadFill = "filled"
			} else {
				note.HeadFill = "hollow"
			}
		}
		note.HeadParenthesis = ev.HeadParenthesis
		note.Stem = ev.Stem
		note.SpaceBefore = ev.SpaceBefore > 0
		note.Style = b.style(ev.Style)
	}
	return note
}

func sortedCopy(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

// enhancedBeams gives every event one entry per beam or flag. Unbeamed
// notes shorter than a quarter get "partial" flags; a rest inside a beamed
// group gets "continue" at the levels its neighbours continue. Without beam
// detail every entry is reduced to "partial" so only the count is compared.
func enhancedBeams(events []score.Event, withBeams bool) [][]string {
	out := make([][]string, len(events))
	for i, ev := range events {
		beams := append([]string(nil), ev.Beams...)
		if len(beams) == 0 {
			for level := 0; level < flagCounts[ev.Type]; level++ {
				entry := "partial"
				if ev.Rest && beamContinues(events, i, level) {
					entry = "continue"
				}
				beams = append(beams, entry)
			}
		}
		if !withBeams {
			for j := range beams {
				beams[j] = "partial"
			}
		}
		out[i] = beams
	}
	return out
}

func beamContinues(events []score.Event, i, level int) bool {
	if i == 0 || i == len(events)-1 {
		return false
	}
	prev, next := events[i-1].Beams, events[i+1].Beams
	if len(prev) <= level || len(next) <= level {
		return false
	}
	return (prev[level] == "start" || prev[level] == "continue") &&
		(next[level] == "continue" || next[level] == "stop")
}

// tupletLabels renders each event's tuplet nesting. Missing tuplet types
// are repaired from their neighbours.
func tupletLabels(events []score.Event, withStyle bool) [][]string {
	out := make([][]string, len(events))
	var open []bool
	for i, ev := range events {
		if len(ev.Tuplets) == 0 {
			continue
		}
		for len(open) < len(ev.Tuplets) {
			open = append(open, false)
		}
		labels := make([]string, len(ev.Tuplets))
		for level, t := range ev.Tuplets {
			typ := t.Type
			if typ == "" {
				switch {
				case !open[level]:
					typ = "start"
				case i+1 >= len(events) || len(events[i+1].Tuplets) <= level:
					typ = "stop"
				default:
					typ = "continue"
				}
			}
			open[level] = typ == "start" || typ == "continue"
			labels[level] = strings.TrimSpace(typ + " " + tupletInfo(t, withStyle))
		}
		out[i] = labels
	}
	return out
}

func tupletInfo(t score.Tuplet, withStyle bool) string {
	var info string
	switch t.Show {
	case "none":
	case "ratio":
		info = fmt.Sprintf("%d:%d", t.Actual, t.Normal)
	default:
		info = strconv.Itoa(t.Actual)
	}
	if withStyle && t.Bracket {
		info += "B"
	}
	return info
}

func (b *Builder) buildExtra(kind ExtraKind, obj score.Object, pos Anchor) Extra {
	base := ExtraBase{
		Base:     Base{ID: obj.ID, Pos: pos},
		Offset:   obj.Offset,
		Duration: obj.Duration,
		Style:    b.style(obj.Style),
	}

	switch kind {
	case KindClef:
		return &Clef{ExtraBase: base, Sign: obj.Sign, Line: obj.Line, OctaveChange: obj.OctaveChange}
	case KindTimeSig:
		return &TimeSig{ExtraBase: base, Numerator: obj.Numerator, Denominator: obj.Denominator, Symbol: obj.Symbol}
	case KindKeySig:
		return &KeySig{ExtraBase: base, Sharps: obj.Sharps, Mode: obj.Mode}
	case KindTempo:
		return &Tempo{ExtraBase: base, Text: obj.Text, BPM: obj.BPM, BeatUnit: obj.BeatUnit}
	case KindBarline:
		return &Barline{ExtraBase: base, Type: obj.Type, Repeat: obj.Repeat}
	case KindOttava:
		return &Ottava{ExtraBase: base, Type: obj.Type}
	case KindDirection:
		return &Direction{ExtraBase: base, Text: obj.Text, Placement: obj.Placement}
	case KindDynamic:
		value := obj.Type
		if value == "" {
			value = obj.Text
		}
		return &Dynamic{ExtraBase: base, Value: value}
	case KindWedge:
		return &Wedge{ExtraBase: base, Type: obj.Type}
	case KindSlur:
		return &Slur{ExtraBase: base, Placement: obj.Placement}
	case KindArpeggio:
		return &Arpeggio{ExtraBase: base, Type: obj.Type}
	case KindChordSymbol:
		return &ChordSymbol{ExtraBase: base, Name: obj.Text}
	case KindEnding:
		return &Ending{ExtraBase: base, Name: obj.Text}
	case KindBreak:
		return &Break{ExtraBase: base, Type: obj.Type}
	default:
		scale := 0.0
		if b.level.Includes(detail.Style) {
			scale = obj.Scale
		}
		return &StaffInfo{ExtraBase: base, Lines: obj.Lines, Scale: scale}
	}
}
