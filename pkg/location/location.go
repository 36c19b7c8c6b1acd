// Package location defines source coordinates shared by the oracle adapters,
// the edit planner, and the executor.
package location

import (
	"cmp"
	"fmt"
)

// Location is a position in a source file.
//
// Line and Column are zero-based. Column counts characters (Unicode code
// points) from the start of the line, not bytes.
type Location struct {
	// Path is the file path as reported by the oracle. Relative paths are
	// resolved against the executor's root.
	Path string

	// Line is the zero-based line number.
	Line int

	// Column is the zero-based character column.
	Column int
}

// New returns a Location for the given zero-based coordinates.
func New(path string, line, column int) Location {
	return Location{Path: path, Line: line, Column: column}
}

// Compare orders locations by (Path, Line, Column).
// It returns -1, 0, or +1.
func Compare(a, b Location) int {
	if c := cmp.Compare(a.Path, b.Path); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Line, b.Line); c != 0 {
		return c
	}
	return cmp.Compare(a.Column, b.Column)
}

// WithColumn returns a copy of l at a different column on the same line.
func (l Location) WithColumn(column int) Location {
	l.Column = column
	return l
}

// String renders the location in the 1-based path:line:col form used by
// grep-style tools.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Path, l.Line+1, l.Column+1)
}
