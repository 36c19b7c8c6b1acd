package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/locedit/pkg/executor"
)

// minPathWidth is the narrowest column a file path is truncated to.
const minPathWidth = 20

// FormatPassHeader formats the heading printed before a pass's files.
func (s *Styles) FormatPassHeader(pass string, matches, edits int) string {
	return fmt.Sprintf("%s %s\n",
		s.Pass.Render(pass),
		s.Dim.Render(fmt.Sprintf("(%d matches, %d edits)", matches, edits)))
}

// FormatOutcome formats one file's outcome as a single line, truncating the
// path so the line fits in width columns.
func (s *Styles) FormatOutcome(outcome *executor.FileOutcome, width int) string {
	edits := fmt.Sprintf("%d/%d edits", outcome.EditsApplied, outcome.EditsPlanned)
	status := outcome.Summary()

	pathWidth := max(width-len(edits)-len(status)-6, minPathWidth)
	path := s.FilePath.Render(TruncatePath(outcome.Path, pathWidth))

	var rendered string
	switch {
	case outcome.Error != nil:
		rendered = s.Failure.Render(status) + " " + s.Error.Render(outcome.Error.Error())
	case outcome.Written:
		rendered = s.Success.Render(status)
	case outcome.Diff.HasChanges():
		rendered = s.Warning.Render(status)
	default:
		rendered = s.Dim.Render(status)
	}

	return fmt.Sprintf("  %s  %s  %s\n", path, s.Count.Render(edits), rendered)
}

// FormatDiff colors a unified diff line by line.
func (s *Styles) FormatDiff(unified string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(unified, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "---"), strings.HasPrefix(text, "+++"):
			b.WriteString(s.DiffHeader.Render(text))
		case strings.HasPrefix(text, "@@"):
			b.WriteString(s.DiffHunk.Render(text))
		case strings.HasPrefix(text, "+"):
			b.WriteString(s.DiffAdd.Render(text))
		case strings.HasPrefix(text, "-"):
			b.WriteString(s.DiffRemove.Render(text))
		default:
			b.WriteString(s.DiffContext.Render(text))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// TruncatePath shortens path to at most maxLen characters, keeping the end.
func TruncatePath(path string, maxLen int) string {
	runes := []rune(path)
	if len(runes) <= maxLen || maxLen < 4 {
		return path
	}
	return "..." + string(runes[len(runes)-maxLen+3:])
}
