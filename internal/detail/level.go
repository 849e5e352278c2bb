// Package detail selects which categories of notation a diff looks at.
package detail

import (
	"sort"
	"strings"
)

// Level is a bitmask of notation categories.
type Level uint32

const (
	NotesAndRests Level = 1 << iota
	Beams
	Tremolos
	Ornaments
	Articulations
	Ties
	Slurs
	Signatures
	Directions
	Barlines
	StaffDetails
	ChordSymbols
	Ottavas
	Arpeggios
	Lyrics
	Style
	Metadata
	Voicing
)

// Combinations. Style, Metadata and Voicing are never implied by one.
const (
	DecoratedNotesAndRests = NotesAndRests | Beams | Tremolos | Ornaments | Articulations | Ties | Slurs
	OtherObjects           = Signatures | Directions | Barlines | StaffDetails | ChordSymbols | Ottavas | Arpeggios | Lyrics
	AllObjects             = DecoratedNotesAndRests | OtherObjects

	Default = AllObjects
)

var names = map[string]Level{
	"notesandrests":          NotesAndRests,
	"beams":                  Beams,
	"tremolos":               Tremolos,
	"ornaments":              Ornaments,
	"articulations":          Articulations,
	"ties":                   Ties,
	"slurs":                  Slurs,
	"signatures":             Signatures,
	"directions":             Directions,
	"barlines":               Barlines,
	"staffdetails":           StaffDetails,
	"chordsymbols":           ChordSymbols,
	"ottavas":                Ottavas,
	"arpeggios":              Arpeggios,
	"lyrics":                 Lyrics,
	"style":                  Style,
	"metadata":               Metadata,
	"voicing":                Voicing,
	"decoratednotesandrests": DecoratedNotesAndRests,
	"otherobjects":           OtherObjects,
	"allobjects":             AllObjects,
}

// Names returns every accepted category name, sorted.
func Names() []string {
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Lookup resolves a single category name. Matching ignores case and
// surrounding whitespace.
func Lookup(name string) (Level, error) {
	l, ok := names[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, &FilterConflictError{Name: name}
	}
	return l, nil
}

// Parse builds a level from include and exclude lists. An empty include
// list means AllObjects. Entries may themselves be comma separated.
func Parse(include, exclude []string) (Level, error) {
	inc, err := union(include)
	if err != nil {
		return 0, err
	}
	if inc == 0 {
		inc = Default
	}
	exc, err := union(exclude)
	if err != nil {
		return 0, err
	}
	return inc &^ exc, nil
}

func union(list []string) (Level, error) {
	var l Level
	for _, entry := range list {
		for _, name := range strings.Split(entry, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			v, err := Lookup(name)
			if err != nil {
				return 0, err
			}
			l |= v
		}
	}
	return l, nil
}

// Includes reports whether every bit of x is set in l.
func (l Level) Includes(x Level) bool {
	return x != 0 && l&x == x
}

// String lists the single categories of l in declaration order.
func (l Level) String() string {
	if l == 0 {
		return "none"
	}
	var parts []string
	for bit := NotesAndRests; bit <= Voicing; bit <<= 1 {
		if l&bit == 0 {
			continue
		}
		for n, v := range names {
			if v == bit {
				parts = append(parts, n)
				break
			}
		}
	}
	return strings.Join(parts, ",")
}
