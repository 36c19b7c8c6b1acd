package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/locedit/internal/ui/pretty"
	"github.com/yaklabco/locedit/pkg/edit"
	"github.com/yaklabco/locedit/pkg/rewrite"
)

// DiffReporter formats dry-run results as unified diffs in git style.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter. Each pass is previewed against the files as
// they were when it ran, so diffs of later passes do not stack on earlier ones.
func (r *DiffReporter) Report(_ context.Context, report *rewrite.Report) (int, error) {
	if report == nil {
		return 0, nil
	}

	var files, additions, deletions int
	for _, p := range report.Passes {
		if p.Result == nil {
			continue
		}

		header := false
		for i := range p.Result.Files {
			f := &p.Result.Files[i]
			if f.Error != nil {
				fmt.Fprintf(r.out, "%s: %s\n",
					r.styles.FilePath.Render(f.Path),
					r.styles.Error.Render(fmt.Sprintf("error: %v", f.Error)))
				continue
			}
			if !f.Diff.HasChanges() {
				continue
			}
			if !header {
				fmt.Fprintln(r.out, r.styles.Dim.Render("# pass: "+string(p.Pass)))
				header = true
			}
			files++
			additions += f.Diff.Additions
			deletions += f.Diff.Deletions
			r.writeDiff(f.Diff)
		}
	}

	if files > 0 && r.opts.ShowSummary {
		r.writeSummary(files, additions, deletions)
	}
	return files, nil
}

// writeDiff outputs a single file's diff with a git-style header.
func (r *DiffReporter) writeDiff(diff *edit.Diff) {
	header := fmt.Sprintf("diff --git a/%s b/%s", diff.Path, diff.Path)
	fmt.Fprintln(r.out, r.styles.DiffHeader.Render(header))
	fmt.Fprint(r.out, r.styles.FormatDiff(diff.Unified))
	fmt.Fprintln(r.out)
}

// writeSummary writes a summary line at the end.
func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	fileWord := "files"
	if files == 1 {
		fileWord = "file"
	}
	parts := []string{fmt.Sprintf("%d %s changed", files, fileWord)}

	if additions > 0 {
		word := "insertions"
		if additions == 1 {
			word = "insertion"
		}
		parts = append(parts, r.styles.DiffAdd.Render(fmt.Sprintf("%d %s(+)", additions, word)))
	}
	if deletions > 0 {
		word := "deletions"
		if deletions == 1 {
			word = "deletion"
		}
		parts = append(parts, r.styles.DiffRemove.Render(fmt.Sprintf("%d %s(-)", deletions, word)))
	}

	fmt.Fprintln(r.out, strings.Join(parts, ", "))
}
