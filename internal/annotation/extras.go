package annotation

import (
	"fmt"
	"strconv"
	"strings"
)

// ExtraKind names an Extra variant.
type ExtraKind string

const (
	KindClef        ExtraKind = "clef"
	KindTimeSig     ExtraKind = "timesig"
	KindKeySig      ExtraKind = "keysig"
	KindTempo       ExtraKind = "tempo"
	KindBarline     ExtraKind = "barline"
	KindOttava      ExtraKind = "ottava"
	KindDirection   ExtraKind = "direction"
	KindDynamic     ExtraKind = "dynamic"
	KindWedge       ExtraKind = "wedge"
	KindSlur        ExtraKind = "slur"
	KindArpeggio    ExtraKind = "arpeggio"
	KindChordSymbol ExtraKind = "chordsym"
	KindEnding      ExtraKind = "ending"
	KindBreak       ExtraKind = "break"
	KindStaffInfo   ExtraKind = "staffinfo"
)

// ExtraKinds lists every variant in the order extras are compared.
var ExtraKinds = []ExtraKind{
	KindClef, KindKeySig, KindTimeSig, KindTempo, KindDirection, KindDynamic,
	KindWedge, KindEnding, KindBarline, KindStaffInfo, KindChordSymbol,
	KindOttava, KindArpeggio, KindSlur, KindBreak,
}

// Extra is a non-note object in a measure. The concrete types below are
// the only implementations.
type Extra interface {
	Entity
	Kind() ExtraKind
	At() float64
	Length() float64
	StyleKey() string
}

// ExtraBase holds the fields every Extra variant shares.
type ExtraBase struct {
	Base
	Offset   float64 `json:"offset"`
	Duration float64 `json:"duration,omitempty"`
	Style    string  `json:"style,omitempty"`
}

func (e ExtraBase) At() float64      { return e.Offset }
func (e ExtraBase) Length() float64  { return e.Duration }
func (e ExtraBase) StyleKey() string { return e.Style }

type Clef struct {
	ExtraBase
	Sign         string `json:"sign"`
	Line         int    `json:"line,omitempty"`
	OctaveChange int    `json:"octave_change,omitempty"`
}

func (c *Clef) Kind() ExtraKind { return KindClef }
func (c *Clef) Label() string   { return "Clef" }
func (c *Clef) Describe() string {
	s := c.Sign + " clef"
	if c.Line > 0 {
		s += " on line " + strconv.Itoa(c.Line)
	}
	if c.OctaveChange != 0 {
		s += fmt.Sprintf(" (octave %+d)", c.OctaveChange)
	}
	return s
}

type TimeSig struct {
	ExtraBase
	Numerator   int    `json:"numerator"`
	Denominator int    `json:"denominator"`
	Symbol      string `json:"symbol,omitempty"`
}

func (t *TimeSig) Kind() ExtraKind { return KindTimeSig }
func (t *TimeSig) Label() string   { return "TimeSig" }
func (t *TimeSig) Describe() string {
	s := fmt.Sprintf("%d/%d", t.Numerator, t.Denominator)
	if t.Symbol != "" {
		s += " (" + t.Symbol + ")"
	}
	return s
}

type KeySig struct {
	ExtraBase
	Sharps int    `json:"sharps"`
	Mode   string `json:"mode,omitempty"`
}

func (k *KeySig) Kind() ExtraKind { return KindKeySig }
func (k *KeySig) Label() string   { return "KeySig" }
func (k *KeySig) Describe() string {
	switch {
	case k.Sharps > 0:
		return fmt.Sprintf("%d sharps", k.Sharps)
	case k.Sharps < 0:
		return fmt.Sprintf("%d flats", -k.Sharps)
	default:
		return "no accidentals"
	}
}

type Tempo struct {
	ExtraBase
	Text     string  `json:"text,omitempty"`
	BPM      float64 `json:"bpm,omitempty"`
	BeatUnit string  `json:"beat_unit,omitempty"`
}

func (t *Tempo) Kind() ExtraKind { return KindTempo }
func (t *Tempo) Label() string   { return "Tempo" }
func (t *Tempo) Describe() string {
	parts := []string{}
	if t.Text != "" {
		parts = append(parts, strconv.Quote(t.Text))
	}
	if t.BPM > 0 {
		unit := t.BeatUnit
		if unit == "" {
			unit = "quarter"
		}
		parts = append(parts, fmt.Sprintf("%s=%s", unit, strconv.FormatFloat(t.BPM, 'f', -1, 64)))
	}
	return strings.Join(parts, " ")
}

type Barline struct {
	ExtraBase
	Type   string `json:"type"`
	Repeat string `json:"repeat,omitempty"`
}

func (b *Barline) Kind() ExtraKind { return KindBarline }
func (b *Barline) Label() string   { return "Barline" }
func (b *Barline) Describe() string {
	if b.Repeat != "" {
		return b.Type + " barline, repeat " + b.Repeat
	}
	return b.Type + " barline"
}

type Ottava struct {
	ExtraBase
	Type string `json:"type"`
}

func (o *Ottava) Kind() ExtraKind  { return KindOttava }
func (o *Ottava) Label() string    { return "Ottava" }
func (o *Ottava) Describe() string { return o.Type }

type Direction struct {
	ExtraBase
	Text      string `json:"text"`
	Placement string `json:"placement,omitempty"`
}

func (d *Direction) Kind() ExtraKind  { return KindDirection }
func (d *Direction) Label() string    { return "Direction" }
func (d *Direction) Describe() string { return strconv.Quote(d.Text) }

type Dynamic struct {
	ExtraBase
	Value string `json:"value"`
}

func (d *Dynamic) Kind() ExtraKind  { return KindDynamic }
func (d *Dynamic) Label() string    { return "Dynamic" }
func (d *Dynamic) Describe() string { return d.Value }

type Wedge struct {
	ExtraBase
	Type string `json:"type"`
}

func (w *Wedge) Kind() ExtraKind  { return KindWedge }
func (w *Wedge) Label() string    { return "Wedge" }
func (w *Wedge) Describe() string { return w.Type }

type Slur struct {
	ExtraBase
	Placement string `json:"placement,omitempty"`
}

func (s *Slur) Kind() ExtraKind { return KindSlur }
func (s *Slur) Label() string   { return "Slur" }
func (s *Slur) Describe() string {
	return "slur over " + strconv.FormatFloat(s.Duration, 'f', -1, 64) + " quarters"
}

type Arpeggio struct {
	ExtraBase
	Type string `json:"type,omitempty"`
}

func (a *Arpeggio) Kind() ExtraKind { return KindArpeggio }
func (a *Arpeggio) Label() string   { return "Arpeggio" }
func (a *Arpeggio) Describe() string {
	if a.Type == "" {
		return "arpeggio"
	}
	return a.Type + " arpeggio"
}

type ChordSymbol struct {
	ExtraBase
	Name string `json:"name"`
}

func (c *ChordSymbol) Kind() ExtraKind  { return KindChordSymbol }
func (c *ChordSymbol) Label() string    { return "ChordSymbol" }
func (c *ChordSymbol) Describe() string { return c.Name }

type Ending struct {
	ExtraBase
	Name string `json:"name"`
}

func (e *Ending) Kind() ExtraKind  { return KindEnding }
func (e *Ending) Label() string    { return "Ending" }
func (e *Ending) Describe() string { return "ending " + e.Name }

// Break is a system or page break.
type Break struct {
	ExtraBase
	Type string `json:"type"`
}

func (b *Break) Kind() ExtraKind  { return KindBreak }
func (b *Break) Label() string    { return "Break" }
func (b *Break) Describe() string { return b.Type + " break" }

type StaffInfo struct {
	ExtraBase
	Lines int     `json:"lines,omitempty"`
	Scale float64 `json:"scale,omitempty"`
}

func (s *StaffInfo) Kind() ExtraKind { return KindStaffInfo }
func (s *StaffInfo) Label() string   { return "StaffInfo" }
func (s *StaffInfo) Describe() string {
	d := fmt.Sprintf("%d-line staff", s.Lines)
	if s.Scale != 0 {
		d += fmt.Sprintf(" at %s%%", strconv.FormatFloat(s.Scale, 'f', -1, 64))
	}
	return d
}
