package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/locedit/pkg/executor"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "7 edits in 3 files, 2 backups".
func (s *Styles) FormatSummaryOneLine(stats executor.Stats, dryRun bool) string {
	if stats.FilesErrored > 0 {
		return s.Failure.Render(fmt.Sprintf("%d %s failed", stats.FilesErrored,
			plural(stats.FilesErrored, wordFile, wordFiles))) +
			s.Dim.Render(fmt.Sprintf(" (%d edits applied before the failure)", stats.EditsApplied)) + "\n"
	}

	if stats.EditsPlanned == 0 {
		return s.Success.Render("Nothing to rewrite") + "\n"
	}

	if dryRun {
		return s.Warning.Render(fmt.Sprintf("%d edits pending in %d %s", stats.EditsApplied,
			stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))) +
			s.Dim.Render(" (dry run)") + "\n"
	}

	parts := []string{s.Success.Render(fmt.Sprintf("%d edits in %d %s", stats.EditsApplied,
		stats.FilesModified, plural(stats.FilesModified, wordFile, wordFiles)))}
	if stats.BackupsCreated > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d %s", stats.BackupsCreated,
			plural(stats.BackupsCreated, "backup", "backups"))))
	}
	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a multi-line block.
func (s *Styles) FormatSummary(stats executor.Stats) string {
	var b strings.Builder

	b.WriteString(s.SummaryTitle.Render("Summary") + "\n")
	b.WriteString(s.Dim.Render(strings.Repeat("-", summaryDividerWidth)) + "\n")

	row := func(label string, value int) {
		fmt.Fprintf(&b, "%-18s %s\n", label, s.Count.Render(fmt.Sprint(value)))
	}
	row("Files planned", stats.FilesPlanned)
	row("Files processed", stats.FilesProcessed)
	row("Files rewritten", stats.FilesModified)
	row("Edits planned", stats.EditsPlanned)
	row("Edits applied", stats.EditsApplied)
	if stats.BackupsCreated > 0 {
		row("Backups", stats.BackupsCreated)
	}
	if stats.FilesErrored > 0 {
		fmt.Fprintf(&b, "%-18s %s\n", "Files failed", s.Failure.Render(fmt.Sprint(stats.FilesErrored)))
	}

	return b.String()
}
