package annotation

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedEntity = errors.New("unsupported entity")
	ErrMalformedInput    = errors.New("malformed input")
)

// UnsupportedEntityError describes an entity the builder skipped. It is
// never returned from Build; it is logged and kept in Score.Notices.
type UnsupportedEntityError struct {
	Entity  string
	Staff   int
	Measure int
	Reason  string
}

func (e *UnsupportedEntityError) Error() string {
	return fmt.Sprintf("unsupported %s in staff %d, measure %d: %s", e.Entity, e.Staff, e.Measure, e.Reason)
}

func (e *UnsupportedEntityError) Is(target error) bool {
	return target == ErrUnsupportedEntity
}

// MalformedInputError means the score violates a structural assumption and
// no tree can be built from it.
type MalformedInputError struct {
	Staff   int
	Measure int
	Reason  string
}

func (e *MalformedInputError) Error() string {
	if e.Staff == 0 && e.Measure == 0 {
		return "malformed score: " + e.Reason
	}
	return fmt.Sprintf("malformed score at staff %d, measure %d: %s", e.Staff, e.Measure, e.Reason)
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}
