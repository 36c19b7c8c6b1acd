package edit

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/yaklabco/locedit/pkg/location"
)

// ErrInvalidEdit is wrapped by every ValidationError.
var ErrInvalidEdit = errors.New("invalid edit")

// ValidationError describes a structurally invalid edit.
type ValidationError struct {
	Edit    Edit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit %s: %s", e.Edit, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidEdit.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidEdit
}

// ConflictError describes two edits of one file whose spans overlap.
type ConflictError struct {
	First  Span
	Second Span
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: %s [%d:%d] and %s [%d:%d]",
		e.First.Edit, e.First.Start, e.First.End,
		e.Second.Edit, e.Second.Start, e.Second.End)
}

// Validate checks every edit for problems detectable without reading the
// file, and returns all of them joined. It returns nil when every edit is
// well formed.
func Validate(edits []Edit) error {
	var errs []error
	for _, e := range edits {
		if msg := check(e); msg != "" {
			errs = append(errs, &ValidationError{Edit: e, Message: msg})
		}
	}
	return errors.Join(errs...)
}

func check(e Edit) string {
	switch {
	case e.Location.Path == "":
		return "missing path"
	case e.Location.Line < 0 || e.Location.Column < 0:
		return "negative start position"
	}

	switch e.Kind {
	case InsertBefore:
		return ""
	case Replace, Remove:
		if e.End.Line < 0 || e.End.Column < 0 {
			return "negative end position"
		}
		if comparePositions(e.End, e.start()) < 0 {
			return "end is before start"
		}
		return ""
	default:
		return "unknown kind"
	}
}

func comparePositions(a, b Position) int {
	if c := cmp.Compare(a.Line, b.Line); c != 0 {
		return c
	}
	return cmp.Compare(a.Column, b.Column)
}

// compareDescending orders edits so that the one furthest into the file
// comes first. Among edits starting at the same position, longer spans come
// first, and an insertion before a line is applied after any edit that
// starts at the same place, so the inserted text always ends up in front.
func compareDescending(a, b Edit) int {
	if c := location.Compare(b.Location.WithColumn(b.start().Column), a.Location.WithColumn(a.start().Column)); c != 0 {
		return c
	}
	if c := comparePositions(b.end(), a.end()); c != 0 {
		return c
	}
	return cmp.Compare(kindRank(a.Kind), kindRank(b.Kind))
}

func kindRank(k Kind) int {
	if k == InsertBefore {
		return 1
	}
	return 0
}

// SortDescending returns a copy of edits in application order: descending by
// file path, then by start position. Applying edits of one file in this
// order guarantees no edit shifts the coordinates of one still pending.
func SortDescending(edits []Edit) []Edit {
	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, compareDescending)
	return sorted
}

// GroupByPath splits edits by target file. The returned paths are sorted
// ascending; each group keeps the input order.
func GroupByPath(edits []Edit) ([]string, map[string][]Edit) {
	groups := make(map[string][]Edit)
	for _, e := range edits {
		groups[e.Path()] = append(groups[e.Path()], e)
	}
	paths := make([]string, 0, len(groups))
	for p := range groups {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths, groups
}

// DetectConflicts reports the first pair of overlapping spans. spans must be
// in descending application order. Touching spans do not overlap, and a
// zero-width insertion only conflicts when it falls strictly inside another
// span.
func DetectConflicts(spans []Span) error {
	for i := 1; i < len(spans); i++ {
		later, earlier := spans[i-1], spans[i]
		if earlier.End > later.Start {
			return &ConflictError{First: earlier, Second: later}
		}
	}
	return nil
}
