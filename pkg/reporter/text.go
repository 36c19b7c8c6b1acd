package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/locedit/internal/ui/pretty"
	"github.com/yaklabco/locedit/pkg/rewrite"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	width  int
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		width:  pretty.TerminalWidth(opts.Writer),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, report *rewrite.Report) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if report == nil || len(report.Definitions) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No definitions matched."))
		}
		return 0, nil
	}

	fmt.Fprintln(r.bw, r.styles.Bold.Render(fmt.Sprintf("%d definitions", len(report.Definitions))))
	if r.opts.Verbose {
		for _, d := range report.Definitions {
			fmt.Fprintln(r.bw, "  "+r.styles.Dim.Render(d.String()))
		}
	}
	fmt.Fprintln(r.bw)

	for _, p := range report.Passes {
		fmt.Fprint(r.bw, r.styles.FormatPassHeader(string(p.Pass), p.Matches, p.Edits))
		if p.Result == nil {
			continue
		}
		for i := range p.Result.Files {
			f := &p.Result.Files[i]
			if !r.opts.Verbose && f.Error == nil && !f.Written && !f.Diff.HasChanges() {
				continue
			}
			fmt.Fprint(r.bw, r.styles.FormatOutcome(f, r.width))
		}
		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		stats := report.Stats()
		if r.opts.Verbose {
			fmt.Fprint(r.bw, r.styles.FormatSummary(stats))
		}
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(stats, r.opts.DryRun))
	}

	return changedFiles(report), nil
}
