package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/locedit/pkg/rewrite"
)

// jsonVersion is the schema version of JSONOutput.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version     string           `json:"version"`
	DryRun      bool             `json:"dryRun"`
	Definitions []JSONDefinition `json:"definitions"`
	Passes      []JSONPass       `json:"passes"`
	Summary     JSONSummary      `json:"summary"`
}

// JSONDefinition is a discovered definition. Line and column are 1-based.
type JSONDefinition struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// JSONPass describes one executed pass.
type JSONPass struct {
	Pass    string     `json:"pass"`
	Matches int        `json:"matches"`
	Edits   int        `json:"edits"`
	Files   []JSONFile `json:"files"`
}

// JSONFile is one file's outcome within a pass.
type JSONFile struct {
	Path          string `json:"path"`
	EditsPlanned  int    `json:"editsPlanned"`
	EditsApplied  int    `json:"editsApplied"`
	Written       bool   `json:"written"`
	BackupCreated bool   `json:"backupCreated,omitempty"`
	Diff          string `json:"diff,omitempty"`
	Error         string `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics over every pass.
type JSONSummary struct {
	FilesPlanned   int `json:"filesPlanned"`
	FilesProcessed int `json:"filesProcessed"`
	FilesModified  int `json:"filesModified"`
	FilesErrored   int `json:"filesErrored"`
	EditsPlanned   int `json:"editsPlanned"`
	EditsApplied   int `json:"editsApplied"`
	BackupsCreated int `json:"backupsCreated"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, report *rewrite.Report) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(r.buildOutput(report)); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return changedFiles(report), nil
}

func (r *JSONReporter) buildOutput(report *rewrite.Report) *JSONOutput {
	output := &JSONOutput{
		Version:     jsonVersion,
		DryRun:      r.opts.DryRun,
		Definitions: make([]JSONDefinition, 0),
		Passes:      make([]JSONPass, 0),
	}
	if report == nil {
		return output
	}

	for _, d := range report.Definitions {
		output.Definitions = append(output.Definitions, JSONDefinition{
			Name:   d.Name,
			Path:   d.Location.Path,
			Line:   d.Location.Line + 1,
			Column: d.Location.Column + 1,
		})
	}

	for _, p := range report.Passes {
		pass := JSONPass{Pass: string(p.Pass), Matches: p.Matches, Edits: p.Edits, Files: make([]JSONFile, 0)}
		if p.Result != nil {
			for _, f := range p.Result.Files {
				file := JSONFile{
					Path:          f.Path,
					EditsPlanned:  f.EditsPlanned,
					EditsApplied:  f.EditsApplied,
					Written:       f.Written,
					BackupCreated: f.BackupCreated,
				}
				if f.Diff.HasChanges() {
					file.Diff = f.Diff.Unified
				}
				if f.Error != nil {
					file.Error = f.Error.Error()
				}
				pass.Files = append(pass.Files, file)
			}
		}
		output.Passes = append(output.Passes, pass)
	}

	stats := report.Stats()
	output.Summary = JSONSummary{
		FilesPlanned:   stats.FilesPlanned,
		FilesProcessed: stats.FilesProcessed,
		FilesModified:  stats.FilesModified,
		FilesErrored:   stats.FilesErrored,
		EditsPlanned:   stats.EditsPlanned,
		EditsApplied:   stats.EditsApplied,
		BackupsCreated: stats.BackupsCreated,
	}
	return output
}
