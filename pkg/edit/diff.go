package edit

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// diffContext is the number of unchanged lines shown around each hunk.
const diffContext = 3

// Diff is the unified diff between a file's original and edited contents.
type Diff struct {
	Path      string
	Unified   string
	Additions int
	Deletions int
}

// HasChanges reports whether the diff contains any changed line.
func (d *Diff) HasChanges() bool {
	return d != nil && (d.Additions > 0 || d.Deletions > 0)
}

// String returns the unified diff text.
func (d *Diff) String() string {
	if d == nil {
		return ""
	}
	return d.Unified
}

// GenerateDiff computes the unified diff from original to modified.
func GenerateDiff(path string, original, modified []byte) (*Diff, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(modified)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  diffContext,
	}

	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", path, err)
	}

	d := &Diff{Path: path, Unified: text}
	inHunk := false
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "@@"):
			inHunk = true
		case !inHunk:
		case strings.HasPrefix(line, "+"):
			d.Additions++
		case strings.HasPrefix(line, "-"):
			d.Deletions++
		}
	}
	return d, nil
}
