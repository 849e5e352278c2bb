package detail

import (
	"errors"
	"fmt"
)

// ErrFilterConflict matches any FilterConflictError via errors.Is.
var ErrFilterConflict = errors.New("filter conflict")

// FilterConflictError reports an unknown category name.
type FilterConflictError struct {
	Name string
}

func (e *FilterConflictError) Error() string {
	return fmt.Sprintf("unknown detail category %q", e.Name)
}

func (e *FilterConflictError) Is(target error) bool {
	return target == ErrFilterConflict
}
