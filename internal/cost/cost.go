// Package cost defines how many visual symbols each annotation entity is
// worth and what it costs to edit one into another.
package cost

import (
	"math"
	"unicode/utf8"

	"github.com/lehigh-university-libraries/scorediff/internal/align"
)

// offsetEpsilon is the smallest offset or duration difference, in quarter
// notes, that counts as a change.
const offsetEpsilon = 0.0001

// Action is the kind of edit a Change or operation applies.
type Action string

const (
	Insert Action = "insert"
	Delete Action = "delete"
	Edit   Action = "edit"
)

// Change is one costed difference between two matched entities.
type Change struct {
	Aspect string `json:"aspect"`
	Action Action `json:"action"`
	Cost   int    `json:"cost"`
}

// Total sums the costs of changes.
func Total(changes []Change) int {
	total := 0
	for _, c := range changes {
		total += c.Cost
	}
	return total
}

// Categorical is 1 when a and b differ.
func Categorical[T comparable](a, b T) int {
	if a == b {
		return 0
	}
	return 1
}

// Property costs 1 to add or remove a property and 2 to replace one
// value with another.
func Property(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "" || b == "":
		return 1
	default:
		return 2
	}
}

// Text is the Levenshtein distance between two strings.
func Text(a, b string) int {
	return align.StringDistance(a, b)
}

// TextSize is the number of characters in s.
func TextSize(s string) int {
	return utf8.RuneCountInString(s)
}

// Sequence is the Levenshtein distance between two lists.
func Sequence(a, b []string) int {
	return align.Levenshtein(a, b).Cost
}

func sameOffset(a, b float64) bool {
	return math.Abs(a-b) <= offsetEpsilon
}

func action(aEmpty, bEmpty bool) Action {
	switch {
	case aEmpty && !bEmpty:
		return Insert
	case bEmpty && !aEmpty:
		return Delete
	default:
		return Edit
	}
}

// appendIf adds a change when c is positive.
func appendIf(changes []Change, aspect string, act Action, c int) []Change {
	if c <= 0 {
		return changes
	}
	return append(changes, Change{Aspect: aspect, Action: act, Cost: c})
}

func boolAction(a, b bool) Action {
	return action(!a, !b)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
