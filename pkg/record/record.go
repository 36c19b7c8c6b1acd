// Package record models the definition and call sites found by a structural
// search, and parses the search tool's line-oriented output into them.
package record

import (
	"errors"
	"fmt"
	"slices"

	"github.com/yaklabco/locedit/pkg/location"
)

// Sentinel errors for categorization via errors.Is.
var (
	// ErrMalformedMatch indicates an output line that does not have the
	// expected shape.
	ErrMalformedMatch = errors.New("malformed match")

	// ErrUnknownSymbol indicates a call whose name has no known definition.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrDuplicateSymbol indicates two different definitions sharing a name.
	ErrDuplicateSymbol = errors.New("duplicate symbol")
)

// DefinitionRecord is a discovered definition site. Location points at the
// first character of Name.
type DefinitionRecord struct {
	Location location.Location
	Name     string
}

// String implements fmt.Stringer.
func (d DefinitionRecord) String() string {
	return fmt.Sprintf("%s %s", d.Location, d.Name)
}

// CallRecord is a call site whose callee resolved to a known definition.
// Location points at the first character of the callee name as written.
type CallRecord struct {
	Location   location.Location
	Definition DefinitionRecord
}

// NameIndex maps symbol names to their definitions.
type NameIndex struct {
	byName map[string]DefinitionRecord
}

// NewNameIndex returns an empty index.
func NewNameIndex() *NameIndex {
	return &NameIndex{byName: make(map[string]DefinitionRecord)}
}

// IndexDefinitions builds an index over defs. It fails on the first name
// claimed by two different definitions.
func IndexDefinitions(defs []DefinitionRecord) (*NameIndex, error) {
	idx := NewNameIndex()
	for _, d := range defs {
		if err := idx.Add(d); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Add inserts def. Adding the same record twice is a no-op; adding a
// different record under an existing name fails with ErrDuplicateSymbol.
func (x *NameIndex) Add(def DefinitionRecord) error {
	if prev, ok := x.byName[def.Name]; ok {
		if prev == def {
			return nil
		}
		return fmt.Errorf("%w: %q defined at %s and %s", ErrDuplicateSymbol, def.Name, prev.Location, def.Location)
	}
	x.byName[def.Name] = def
	return nil
}

// Lookup returns the definition registered under name.
func (x *NameIndex) Lookup(name string) (DefinitionRecord, bool) {
	d, ok := x.byName[name]
	return d, ok
}

// Len returns the number of indexed names.
func (x *NameIndex) Len() int {
	return len(x.byName)
}

// Names returns every indexed name in sorted order.
func (x *NameIndex) Names() []string {
	names := make([]string, 0, len(x.byName))
	for n := range x.byName {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// MatchError identifies the output line a parse failure came from.
type MatchError struct {
	// Line is the 1-based line number within the parsed output.
	Line int
	Text string
	Err  error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("output line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}
