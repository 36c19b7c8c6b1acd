// Package oracle runs structural code searches and reports the matches as
// vimgrep-style text: one `path:line:column:text` line per match, with
// 1-based line and character column.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for categorization via errors.Is.
var (
	// ErrOracleInvocation indicates the search could not be run or its output
	// could not be used.
	ErrOracleInvocation = errors.New("oracle invocation failed")

	// ErrUnsupportedLanguage indicates a language with no grammar.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrInvalidQuery indicates a query the grammar rejected.
	ErrInvalidQuery = errors.New("invalid query")
)

// Query is one structural search.
type Query struct {
	// Pattern is a tree-sitter query in S-expression form.
	Pattern string

	// Language names the grammar, e.g. "rust".
	Language string

	// Paths are files or directories to search, relative to the oracle root.
	Paths []string

	// Capture selects which capture's position is reported. Empty means the
	// first capture of the pattern.
	Capture string
}

// Validate checks the query is complete.
func (q Query) Validate() error {
	var missing []string
	if strings.TrimSpace(q.Pattern) == "" {
		missing = append(missing, "pattern")
	}
	if q.Language == "" {
		missing = append(missing, "language")
	}
	if len(q.Paths) == 0 {
		missing = append(missing, "paths")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidQuery, strings.Join(missing, ", "))
	}
	return nil
}

// Oracle runs structural searches.
type Oracle interface {
	Search(ctx context.Context, q Query) (string, error)
}

// FormatMatch renders one vimgrep line from 0-based coordinates.
func FormatMatch(path string, line, column int, text string) string {
	return fmt.Sprintf("%s:%d:%d:%s", path, line+1, column+1, text)
}
