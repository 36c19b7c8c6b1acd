// Package edit defines located edits: immutable text changes tagged with the
// original-file coordinates they must be applied at.
package edit

import (
	"fmt"
	"strings"

	"github.com/yaklabco/locedit/pkg/location"
	"github.com/yaklabco/locedit/pkg/textbuf"
)

// Kind selects what an Edit does.
type Kind int

const (
	// Replace swaps the span [Location, End) for Text.
	Replace Kind = iota + 1

	// Remove deletes the span [Location, End).
	Remove

	// InsertBefore inserts Text at the start of Location.Line.
	InsertBefore
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Replace:
		return "replace"
	case Remove:
		return "remove"
	case InsertBefore:
		return "insert-before"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Position is a zero-based line and character column within the file named
// by an Edit's Location.
type Position struct {
	Line   int
	Column int
}

// Edit is one change to one file. Its coordinates describe the file as it
// was before any edit of the same batch was applied.
type Edit struct {
	// Location is where the edit starts. For InsertBefore only the line is
	// significant.
	Location location.Location

	// Kind selects the operation.
	Kind Kind

	// End is the exclusive end of the span for Replace and Remove.
	End Position

	// Text is the replacement for Replace and the inserted text for
	// InsertBefore.
	Text string
}

// NewReplace returns an edit replacing [loc, end) with text.
func NewReplace(loc location.Location, end Position, text string) Edit {
	return Edit{Location: loc, Kind: Replace, End: end, Text: text}
}

// NewRemove returns an edit deleting [loc, end).
func NewRemove(loc location.Location, end Position) Edit {
	return Edit{Location: loc, Kind: Remove, End: end}
}

// NewInsertBefore returns an edit inserting text at the start of line.
func NewInsertBefore(path string, line int, text string) Edit {
	return Edit{Location: location.New(path, line, 0), Kind: InsertBefore, Text: text}
}

// Path returns the file the edit targets.
func (e Edit) Path() string {
	return e.Location.Path
}

// start returns the effective start position.
func (e Edit) start() Position {
	if e.Kind == InsertBefore {
		return Position{Line: e.Location.Line}
	}
	return Position{Line: e.Location.Line, Column: e.Location.Column}
}

// end returns the effective exclusive end position.
func (e Edit) end() Position {
	if e.Kind == InsertBefore {
		return e.start()
	}
	return e.End
}

// String renders the edit for logs and error messages.
func (e Edit) String() string {
	switch e.Kind {
	case InsertBefore:
		return fmt.Sprintf("%s %s:%d %q", e.Kind, e.Location.Path, e.Location.Line+1, e.Text)
	case Remove:
		return fmt.Sprintf("%s %s..%d:%d", e.Kind, e.Location, e.End.Line+1, e.End.Column+1)
	default:
		return fmt.Sprintf("%s %s..%d:%d %q", e.Kind, e.Location, e.End.Line+1, e.End.Column+1, e.Text)
	}
}

// Span is an edit resolved to absolute character offsets in a buffer.
type Span struct {
	Edit  Edit
	Start int
	End   int
}

// Resolve converts e's line/column coordinates to character offsets in buf.
func (e Edit) Resolve(buf *textbuf.Buffer) (Span, error) {
	start, err := offset(buf, e.start())
	if err != nil {
		return Span{}, fmt.Errorf("resolve %s: %w", e, err)
	}
	end, err := offset(buf, e.end())
	if err != nil {
		return Span{}, fmt.Errorf("resolve %s: %w", e, err)
	}
	if e.Kind == InsertBefore {
		if e.Text, err = matchLineEnding(buf, e.Location.Line, e.Text); err != nil {
			return Span{}, fmt.Errorf("resolve %s: %w", e, err)
		}
	}
	return Span{Edit: e, Start: start, End: end}, nil
}

// matchLineEnding rewrites the bare newlines of text to CRLF when the line
// it is inserted before is CRLF-terminated. A last line without a terminator
// takes the ending of the line above it.
func matchLineEnding(buf *textbuf.Buffer, line int, text string) (string, error) {
	if !strings.Contains(text, "\n") {
		return text, nil
	}

	line = min(line, buf.LineCount()-1)
	ending, err := buf.LineEnding(line)
	if err != nil {
		return "", err
	}
	if ending == "" && line > 0 {
		if ending, err = buf.LineEnding(line - 1); err != nil {
			return "", err
		}
	}
	if ending != "\r\n" {
		return text, nil
	}
	return crlf.Replace(text), nil
}

// crlf turns bare newlines into CRLF and leaves existing CRLF alone.
var crlf = strings.NewReplacer("\r\n", "\r\n", "\n", "\r\n")

func offset(buf *textbuf.Buffer, pos Position) (int, error) {
	lineStart, err := buf.LineToOffset(pos.Line)
	if err != nil {
		return 0, err
	}
	return lineStart + pos.Column, nil
}

// Apply performs the span's splice on buf.
func (s Span) Apply(buf *textbuf.Buffer) error {
	var text string
	if s.Edit.Kind != Remove {
		text = s.Edit.Text
	}
	if err := buf.Splice(s.Start, s.End, text); err != nil {
		return fmt.Errorf("apply %s: %w", s.Edit, err)
	}
	return nil
}

// Apply resolves e against buf and performs it.
func (e Edit) Apply(buf *textbuf.Buffer) error {
	span, err := e.Resolve(buf)
	if err != nil {
		return err
	}
	return span.Apply(buf)
}
