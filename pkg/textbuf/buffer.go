// Package textbuf provides an editable, line-indexed text buffer for a single
// source file.
//
// A Buffer converts zero-based line numbers to character offsets and splices
// character ranges in O(log n), so a batch of edits against a large file never
// rescans the whole text. Offsets count Unicode code points, matching the
// character columns reported by the search oracle.
//
// Lines are terminated by '\n'. A file of N newlines has N+1 lines; the last
// one is empty when the file ends with a newline.
package textbuf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/locedit/pkg/fsutil"
)

// Sentinel errors for categorization via errors.Is.
var (
	// ErrIO indicates the file could not be read, written, or decoded as text.
	ErrIO = errors.New("i/o error")

	// ErrOutOfRange indicates a line or offset outside the buffer.
	ErrOutOfRange = errors.New("out of range")
)

// Buffer is the in-memory contents of one file.
// A Buffer is not safe for concurrent use.
type Buffer struct {
	root *node

	// snapshot is the on-disk state the buffer was opened from, nil for
	// buffers built from memory.
	snapshot *fsutil.Snapshot
}

// Open reads path into a new Buffer. The file must be valid UTF-8.
func Open(ctx context.Context, path string) (*Buffer, error) {
	content, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: open %s: not valid UTF-8 text", ErrIO, path)
	}

	buf := FromString(string(content))
	buf.snapshot = snap
	return buf, nil
}

// FromString returns a Buffer holding s.
func FromString(s string) *Buffer {
	return &Buffer{root: build([]rune(s))}
}

// FromBytes returns a Buffer holding content, which must be valid UTF-8.
func FromBytes(content []byte) (*Buffer, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: not valid UTF-8 text", ErrIO)
	}
	return FromString(string(content)), nil
}

// Snapshot returns the on-disk state the buffer was opened from, or nil.
func (b *Buffer) Snapshot() *fsutil.Snapshot {
	return b.snapshot
}

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() int {
	return size(b.root)
}

// LineCount returns the number of lines, which is one more than the number
// of newlines.
func (b *Buffer) LineCount() int {
	return newlines(b.root) + 1
}

// LineToOffset returns the character offset at which the zero-based line
// starts. LineToOffset(LineCount()) returns Len().
func (b *Buffer) LineToOffset(line int) (int, error) {
	switch {
	case line < 0 || line > b.LineCount():
		return 0, fmt.Errorf("%w: line %d (buffer has %d lines)", ErrOutOfRange, line, b.LineCount())
	case line == 0:
		return 0, nil
	case line == b.LineCount():
		return b.Len(), nil
	default:
		return offsetAfterNewline(b.root, line), nil
	}
}

// LineEnding returns the terminator of the zero-based line: "\r\n", "\n",
// or "" for a last line with no newline.
func (b *Buffer) LineEnding(line int) (string, error) {
	if line < 0 || line >= b.LineCount() {
		return "", fmt.Errorf("%w: line %d (buffer has %d lines)", ErrOutOfRange, line, b.LineCount())
	}
	if line == b.LineCount()-1 {
		return "", nil
	}

	next, err := b.LineToOffset(line + 1)
	if err != nil {
		return "", err
	}
	if next >= 2 && runeAt(b.root, next-2) == '\r' {
		return "\r\n", nil
	}
	return "\n", nil
}

// Splice removes the characters in [start, end) and inserts replacement at
// start. start == end is a pure insertion and an empty replacement a pure
// deletion. Only the bounds of this one call are checked; whether it overlaps
// an earlier splice is the caller's concern.
func (b *Buffer) Splice(start, end int, replacement string) error {
	if start < 0 || end < start || end > b.Len() {
		return fmt.Errorf("%w: splice [%d, %d) (buffer has %d characters)", ErrOutOfRange, start, end, b.Len())
	}

	head, rest := split(b.root, start)
	_, tail := split(rest, end-start)
	b.root = join(join(head, build([]rune(replacement))), tail)
	return nil
}

// Insert inserts text at offset.
func (b *Buffer) Insert(offset int, text string) error {
	return b.Splice(offset, offset, text)
}

// Remove deletes the characters in [start, end).
func (b *Buffer) Remove(start, end int) error {
	return b.Splice(start, end, "")
}

// String returns the full contents.
func (b *Buffer) String() string {
	var sb strings.Builder
	sb.Grow(b.Len())
	walk(b.root, func(r []rune) {
		for _, c := range r {
			sb.WriteRune(c)
		}
	})
	return sb.String()
}

// Bytes returns the full contents encoded as UTF-8.
func (b *Buffer) Bytes() []byte {
	return []byte(b.String())
}

// Save atomically overwrites path with the buffer's contents. The mode of
// the file the buffer was opened from is preserved.
func (b *Buffer) Save(ctx context.Context, path string) error {
	var mode os.FileMode
	if b.snapshot != nil {
		mode = b.snapshot.Mode
	}
	if err := fsutil.WriteAtomic(ctx, path, b.Bytes(), mode); err != nil {
		return fmt.Errorf("%w: save %s: %w", ErrIO, path, err)
	}
	return nil
}
