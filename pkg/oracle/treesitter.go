package oracle

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/yaklabco/locedit/internal/logging"
)

// TreeSitter searches files in-process with go-tree-sitter. Its output has
// the same shape as the Exec oracle's.
type TreeSitter struct {
	// Root is the directory query paths are relative to. Reported paths are
	// relative to it as well.
	Root string
}

// NewTreeSitter returns an in-process oracle rooted at root.
func NewTreeSitter(root string) *TreeSitter {
	return &TreeSitter{Root: root}
}

type match struct {
	path   string
	line   int
	column int
	text   string
}

func compareMatches(a, b match) int {
	if c := cmp.Compare(a.path, b.path); c != 0 {
		return c
	}
	if c := cmp.Compare(a.line, b.line); c != 0 {
		return c
	}
	return cmp.Compare(a.column, b.column)
}

// Search runs q over every file of q.Language under q.Paths. Matches are
// reported at the selected capture, sorted by position, one line each.
func (t *TreeSitter) Search(ctx context.Context, q Query) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}

	lang, ok := grammar(q.Language)
	if !ok {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedLanguage, q.Language, strings.Join(Languages(), ", "))
	}

	query, err := sitter.NewQuery([]byte(q.Pattern), lang)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	defer query.Close()

	capture, err := selectCapture(query, q.Capture)
	if err != nil {
		return "", err
	}

	root := t.Root
	if root == "" {
		root = "."
	}
	files, err := discover(ctx, root, q.Paths, q.Language)
	if err != nil {
		return "", err
	}

	logging.FromContext(ctx).Debug("searching",
		logging.FieldLanguage, q.Language,
		logging.FieldFiles, len(files),
	)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	var matches []match
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("search cancelled: %w", err)
		}

		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrOracleInvocation, err)
		}
		if !utf8.Valid(content) {
			continue
		}

		found, err := searchFile(ctx, parser, query, capture, rel, content)
		if err != nil {
			return "", err
		}
		matches = append(matches, found...)
	}

	slices.SortFunc(matches, compareMatches)
	matches = slices.CompactFunc(matches, func(a, b match) bool { return compareMatches(a, b) == 0 })

	var sb strings.Builder
	for _, m := range matches {
		sb.WriteString(FormatMatch(m.path, m.line, m.column, m.text))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// selectCapture resolves the capture to report. -1 means the lowest-index
// capture present in each match.
func selectCapture(query *sitter.Query, name string) (int, error) {
	count := query.CaptureCount()
	if count == 0 {
		return 0, fmt.Errorf("%w: pattern has no captures", ErrInvalidQuery)
	}
	if name == "" {
		return -1, nil
	}
	for id := range count {
		if query.CaptureNameForId(id) == name {
			return int(id), nil
		}
	}
	return 0, fmt.Errorf("%w: no capture named @%s", ErrInvalidQuery, name)
}

func searchFile(
	ctx context.Context,
	parser *sitter.Parser,
	query *sitter.Query,
	capture int,
	path string,
	content []byte,
) ([]match, error) {
	if len(content) == 0 {
		return nil, nil
	}

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrOracleInvocation, path, err)
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, tree.RootNode())

	lines := bytes.Split(content, []byte("\n"))
	var found []match
	for {
		m, ok := cursor.NextMatch()
		if !ok {
			break
		}
		m = cursor.FilterPredicates(m, content)
		for _, node := range reported(m, capture) {
			point := node.StartPoint()
			row := int(point.Row)
			if row >= len(lines) {
				continue
			}
			line := lines[row]
			col := min(int(point.Column), len(line))
			found = append(found, match{
				path:   path,
				line:   row,
				column: utf8.RuneCount(line[:col]),
				text:   string(bytes.TrimSuffix(line, []byte("\r"))),
			})
		}
	}
	return found, nil
}

// reported picks the nodes of m to report.
func reported(m *sitter.QueryMatch, capture int) []*sitter.Node {
	if len(m.Captures) == 0 {
		return nil
	}
	if capture >= 0 {
		var nodes []*sitter.Node
		for _, c := range m.Captures {
			if int(c.Index) == capture {
				nodes = append(nodes, c.Node)
			}
		}
		return nodes
	}

	first := m.Captures[0]
	for _, c := range m.Captures[1:] {
		if c.Index < first.Index {
			first = c
		}
	}
	return []*sitter.Node{first.Node}
}
