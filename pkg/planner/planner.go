// Package planner turns coordinate records into located edits. It never
// touches the filesystem.
package planner

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/yaklabco/locedit/pkg/edit"
	"github.com/yaklabco/locedit/pkg/location"
	"github.com/yaklabco/locedit/pkg/record"
)

// Planner defaults.
const (
	DefaultSuffix   = "_raw"
	DefaultMarker   = "#[generate_node_factory_method_wrapper]"
	DefaultAccessor = "wrap"
)

var (
	// ErrUnpairedAccessor indicates a different number of wrapped calls and
	// accessor locations.
	ErrUnpairedAccessor = errors.New("wrapped calls and accessors do not pair up")

	// ErrInvalidRecord indicates a record whose span cannot exist in a file.
	ErrInvalidRecord = errors.New("invalid record")
)

// Options configures a Planner. Empty fields take the defaults.
type Options struct {
	// Suffix is appended to renamed symbols while the rewrite is in progress.
	Suffix string

	// Marker is the line inserted before each definition.
	Marker string

	// Accessor is the method whose `.name()` call is removed when unwrapping.
	Accessor string
}

// Planner builds edits for the rename, annotate and unwrap transformations.
type Planner struct {
	suffix   string
	marker   string
	accessor string
}

// New returns a Planner for opts.
func New(opts Options) *Planner {
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}
	if opts.Accessor == "" {
		opts.Accessor = DefaultAccessor
	}
	return &Planner{suffix: opts.Suffix, marker: opts.Marker, accessor: opts.Accessor}
}

// Suffix returns the temporary rename suffix.
func (p *Planner) Suffix() string { return p.suffix }

// Accessor returns the wrapping accessor name.
func (p *Planner) Accessor() string { return p.accessor }

// Rename replaces the identifier from, written at loc, with to.
func Rename(loc location.Location, from, to string) edit.Edit {
	end := edit.Position{Line: loc.Line, Column: loc.Column + utf8.RuneCountInString(from)}
	return edit.NewReplace(loc, end, to)
}

// RenameDefinitions renames every definition to name+suffix.
func (p *Planner) RenameDefinitions(defs []record.DefinitionRecord) []edit.Edit {
	edits := make([]edit.Edit, 0, len(defs))
	for _, d := range defs {
		edits = append(edits, Rename(d.Location, d.Name, d.Name+p.suffix))
	}
	return edits
}

// AnnotateDefinitions inserts the marker line before every definition line.
func (p *Planner) AnnotateDefinitions(defs []record.DefinitionRecord) []edit.Edit {
	edits := make([]edit.Edit, 0, len(defs))
	for _, d := range defs {
		edits = append(edits, edit.NewInsertBefore(d.Location.Path, d.Location.Line, p.marker+"\n"))
	}
	return edits
}

// RenameCalls renames every call site to the suffixed name.
func (p *Planner) RenameCalls(calls []record.CallRecord) []edit.Edit {
	edits := make([]edit.Edit, 0, len(calls))
	for _, c := range calls {
		name := c.Definition.Name
		edits = append(edits, Rename(c.Location, name, name+p.suffix))
	}
	return edits
}

// UnwrapCalls removes the `.accessor()` call following each wrapped call and
// strips the suffix from the callee. wrapped holds the call sites as written
// (with the suffix) and accessors the location of each accessor name.
func (p *Planner) UnwrapCalls(wrapped []record.CallRecord, accessors []location.Location) ([]edit.Edit, error) {
	if len(wrapped) != len(accessors) {
		return nil, fmt.Errorf("%w: %d calls, %d accessors", ErrUnpairedAccessor, len(wrapped), len(accessors))
	}

	width := utf8.RuneCountInString(p.accessor)
	edits := make([]edit.Edit, 0, len(wrapped)+len(accessors))
	for _, a := range accessors {
		if a.Column < 1 {
			return nil, fmt.Errorf("%w: accessor at %s has no preceding dot", ErrInvalidRecord, a)
		}
		start := a.WithColumn(a.Column - 1)
		end := edit.Position{Line: a.Line, Column: a.Column + width + 2}
		edits = append(edits, edit.NewRemove(start, end))
	}
	for _, c := range wrapped {
		name := c.Definition.Name
		edits = append(edits, Rename(c.Location, name+p.suffix, name))
	}
	return edits, nil
}
