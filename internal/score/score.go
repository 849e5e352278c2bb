// Package score defines the parsed-score document that diffs are built from.
//
// A notation parser (MusicXML, MEI, Humdrum, ...) is expected to emit this
// shape; scorediff never reads the notation formats itself.
package score

// Score is one parsed score. Staves are in top-to-bottom order.
type Score struct {
	Title       string         `json:"title,omitempty" yaml:"title,omitempty"`
	Staves      []Staff        `json:"staves" yaml:"staves"`
	StaffGroups []StaffGroup   `json:"staff_groups,omitempty" yaml:"staff_groups,omitempty"`
	Metadata    []MetadataItem `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type Staff struct {
	ID       string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string    `json:"name,omitempty" yaml:"name,omitempty"`
	Measures []Measure `json:"measures" yaml:"measures"`
}

// Measure is the content of one staff in one bar.
type Measure struct {
	ID      string   `json:"id,omitempty" yaml:"id,omitempty"`
	Number  int      `json:"number,omitempty" yaml:"number,omitempty"`
	Voices  []Voice  `json:"voices,omitempty" yaml:"voices,omitempty"`
	Objects []Object `json:"objects,omitempty" yaml:"objects,omitempty"`
	Lyrics  []Lyric  `json:"lyrics,omitempty" yaml:"lyrics,omitempty"`
}

type Voice struct {
	ID     string  `json:"id,omitempty" yaml:"id,omitempty"`
	Events []Event `json:"events" yaml:"events"`
}

// Event is a note, chord or rest. A chord is an event with several pitches.
type Event struct {
	ID     string  `json:"id,omitempty" yaml:"id,omitempty"`
	Offset float64 `json:"offset" yaml:"offset"`
	Rest   bool    `json:"rest,omitempty" yaml:"rest,omitempty"`
	// RestLine optionally places a rest vertically, in the same units as
	// Pitch.Position.
	RestLine *int    `json:"rest_line,omitempty" yaml:"rest_line,omitempty"`
	Pitches  []Pitch `json:"pitches,omitempty" yaml:"pitches,omitempty"`

	// Type is the graphical duration: breve, whole, half, quarter, eighth,
	// 16th, 32nd, 64th, 128th, 256th.
	Type          string   `json:"type" yaml:"type"`
	Dots          int      `json:"dots,omitempty" yaml:"dots,omitempty"`
	Tuplets       []Tuplet `json:"tuplets,omitempty" yaml:"tuplets,omitempty"`
	Beams         []string `json:"beams,omitempty" yaml:"beams,omitempty"`
	Articulations []string `json:"articulations,omitempty" yaml:"articulations,omitempty"`
	Expressions   []string `json:"expressions,omitempty" yaml:"expressions,omitempty"`

	Grace      bool `json:"grace,omitempty" yaml:"grace,omitempty"`
	GraceSlash bool `json:"grace_slash,omitempty" yaml:"grace_slash,omitempty"`

	NoteShape       string            `json:"note_shape,omitempty" yaml:"note_shape,omitempty"`
	HeadFill        *bool             `json:"head_fill,omitempty" yaml:"head_fill,omitempty"`
	HeadParenthesis bool              `json:"head_parenthesis,omitempty" yaml:"head_parenthesis,omitempty"`
	Stem            string            `json:"stem,omitempty" yaml:"stem,omitempty"`
	SpaceBefore     float64           `json:"space_before,omitempty" yaml:"space_before,omitempty"`
	Style           map[string]string `json:"style,omitempty" yaml:"style,omitempty"`
	Hidden          bool              `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// Pitch is one notehead. Step is A-G, Accidental is the displayed
// accidental only (empty when none is printed).
type Pitch struct {
	Step       string `json:"step" yaml:"step"`
	Octave     int    `json:"octave" yaml:"octave"`
	Accidental string `json:"accidental,omitempty" yaml:"accidental,omitempty"`
	// Tie is start, stop or continue.
	Tie string `json:"tie,omitempty" yaml:"tie,omitempty"`
}

type Tuplet struct {
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Actual  int    `json:"actual" yaml:"actual"`
	Normal  int    `json:"normal,omitempty" yaml:"normal,omitempty"`
	Bracket bool   `json:"bracket,omitempty" yaml:"bracket,omitempty"`
	// Show is number, ratio or none.
	Show string `json:"show,omitempty" yaml:"show,omitempty"`
}

// Object is any non-note notation object in a measure. Which attributes
// apply depends on Kind.
type Object struct {
	ID       string  `json:"id,omitempty" yaml:"id,omitempty"`
	Kind     string  `json:"kind" yaml:"kind"`
	Offset   float64 `json:"offset" yaml:"offset"`
	Duration float64 `json:"duration,omitempty" yaml:"duration,omitempty"`

	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Text      string `json:"text,omitempty" yaml:"text,omitempty"`
	Placement string `json:"placement,omitempty" yaml:"placement,omitempty"`

	// clef
	Sign         string `json:"sign,omitempty" yaml:"sign,omitempty"`
	Line         int    `json:"line,omitempty" yaml:"line,omitempty"`
	OctaveChange int    `json:"octave_change,omitempty" yaml:"octave_change,omitempty"`

	// keysig
	Sharps int    `json:"sharps,omitempty" yaml:"sharps,omitempty"`
	Mode   string `json:"mode,omitempty" yaml:"mode,omitempty"`

	// timesig
	Numerator   int    `json:"numerator,omitempty" yaml:"numerator,omitempty"`
	Denominator int    `json:"denominator,omitempty" yaml:"denominator,omitempty"`
	Symbol      string `json:"symbol,omitempty" yaml:"symbol,omitempty"`

	// tempo
	BPM      float64 `json:"bpm,omitempty" yaml:"bpm,omitempty"`
	BeatUnit string  `json:"beat_unit,omitempty" yaml:"beat_unit,omitempty"`

	// barline
	Repeat string `json:"repeat,omitempty" yaml:"repeat,omitempty"`

	// staffinfo
	Lines int     `json:"lines,omitempty" yaml:"lines,omitempty"`
	Scale float64 `json:"scale,omitempty" yaml:"scale,omitempty"`

	Style  map[string]string `json:"style,omitempty" yaml:"style,omitempty"`
	Hidden bool              `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

type Lyric struct {
	ID     string  `json:"id,omitempty" yaml:"id,omitempty"`
	Offset float64 `json:"offset" yaml:"offset"`
	Text   string  `json:"text" yaml:"text"`
	// Number is the verse number.
	Number     int    `json:"number,omitempty" yaml:"number,omitempty"`
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	// Syllabic is single, begin, middle or end.
	Syllabic string            `json:"syllabic,omitempty" yaml:"syllabic,omitempty"`
	Style    map[string]string `json:"style,omitempty" yaml:"style,omitempty"`
}

// StaffGroup brackets or braces a run of staves. Staves holds 0-based
// indexes into Score.Staves.
type StaffGroup struct {
	ID           string `json:"id,omitempty" yaml:"id,omitempty"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	Abbreviation string `json:"abbreviation,omitempty" yaml:"abbreviation,omitempty"`
	Symbol       string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	BarTogether  string `json:"bar_together,omitempty" yaml:"bar_together,omitempty"`
	Staves       []int  `json:"staves" yaml:"staves"`
}

type MetadataItem struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}
