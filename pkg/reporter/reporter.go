// Package reporter renders rewrite reports as text, JSON or unified diffs.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/locedit/pkg/rewrite"
)

// Reporter formats and writes rewrite reports.
type Reporter interface {
	// Report writes formatted output for report. It returns the number of
	// files that were, or in dry-run mode would be, changed.
	Report(ctx context.Context, report *rewrite.Report) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// changedFiles counts the outcomes across every pass that changed a file.
func changedFiles(report *rewrite.Report) int {
	if report == nil {
		return 0
	}
	var n int
	for _, p := range report.Passes {
		if p.Result == nil {
			continue
		}
		for i := range p.Result.Files {
			f := &p.Result.Files[i]
			if f.Error == nil && (f.Written || f.Diff.HasChanges()) {
				n++
			}
		}
	}
	return n
}
