package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/locedit/pkg/edit"
	"github.com/yaklabco/locedit/pkg/executor"
	"github.com/yaklabco/locedit/pkg/location"
	"github.com/yaklabco/locedit/pkg/record"
	"github.com/yaklabco/locedit/pkg/reporter"
	"github.com/yaklabco/locedit/pkg/rewrite"
)

func sampleReport(t *testing.T) *rewrite.Report {
	t.Helper()

	diff, err := edit.GenerateDiff("src/use.rs", []byte("f.create_a();\n"), []byte("f.create_a_raw();\n"))
	require.NoError(t, err)

	return &rewrite.Report{
		Definitions: []record.DefinitionRecord{
			{Location: location.New("src/factory.rs", 1, 11), Name: "create_a"},
		},
		Passes: []rewrite.PassReport{
			{
				Pass: rewrite.PassDefinitions, Matches: 1, Edits: 2,
				Result: &executor.Result{
					Files: []executor.FileOutcome{
						{Path: "src/factory.rs", EditsPlanned: 2, EditsApplied: 2, Written: true, BackupCreated: true},
					},
					Stats: executor.Stats{FilesPlanned: 1, FilesProcessed: 1, FilesModified: 1, EditsPlanned: 2, EditsApplied: 2, BackupsCreated: 1},
				},
			},
			{
				Pass: rewrite.PassCalls, Matches: 1, Edits: 1,
				Result: &executor.Result{
					Files: []executor.FileOutcome{
						{Path: "src/use.rs", EditsPlanned: 1, EditsApplied: 1, Diff: diff},
						{Path: "src/other.rs", EditsPlanned: 1, Error: errors.New("boom")},
					},
					Stats: executor.Stats{FilesPlanned: 2, FilesProcessed: 1, FilesErrored: 1, EditsPlanned: 2, EditsApplied: 1},
				},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "diff", input: "diff", want: reporter.FormatDiff},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: "xml"})
	require.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})
	require.NoError(t, err)

	changed, err := rep.Report(context.Background(), sampleReport(t))
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	out := buf.String()
	assert.Contains(t, out, "1 definitions\n")
	assert.Contains(t, out, "definitions (1 matches, 2 edits)\n")
	assert.Contains(t, out, "src/factory.rs  2/2 edits  rewritten (backup created)")
	assert.Contains(t, out, "src/use.rs  1/1 edits  changes pending")
	assert.Contains(t, out, "src/other.rs  0/1 edits  failed boom")
	assert.Contains(t, out, "1 file failed (3 edits applied before the failure)\n")
}

func TestTextReporterVerbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true, Verbose: true})

	_, err := rep.Report(context.Background(), sampleReport(t))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "src/factory.rs:2:12 create_a")
	assert.Contains(t, buf.String(), "Summary\n")
}

func TestTextReporterNoDefinitions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	changed, err := rep.Report(context.Background(), &rewrite.Report{})
	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.Equal(t, "No definitions matched.\n", buf.String())
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, DryRun: true})

	_, err := rep.Report(context.Background(), sampleReport(t))
	require.NoError(t, err)

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "1.0.0", out.Version)
	assert.True(t, out.DryRun)
	require.Len(t, out.Definitions, 1)
	assert.Equal(t, reporter.JSONDefinition{Name: "create_a", Path: "src/factory.rs", Line: 2, Column: 12}, out.Definitions[0])

	require.Len(t, out.Passes, 2)
	assert.Equal(t, "calls", out.Passes[1].Pass)
	require.Len(t, out.Passes[1].Files, 2)
	assert.Contains(t, out.Passes[1].Files[0].Diff, "+f.create_a_raw();")
	assert.Equal(t, "boom", out.Passes[1].Files[1].Error)

	assert.Equal(t, 3, out.Summary.FilesPlanned)
	assert.Equal(t, 1, out.Summary.FilesErrored)
	assert.Equal(t, 1, out.Summary.BackupsCreated)
}

func TestJSONReporterNilReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	_, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.0.0","dryRun":false,"definitions":[],"passes":[],"summary":{
		"filesPlanned":0,"filesProcessed":0,"filesModified":0,"filesErrored":0,
		"editsPlanned":0,"editsApplied":0,"backupsCreated":0}}`, buf.String())
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	files, err := rep.Report(context.Background(), sampleReport(t))
	require.NoError(t, err)
	assert.Equal(t, 1, files)

	out := buf.String()
	assert.Contains(t, out, "# pass: calls\n")
	assert.Contains(t, out, "diff --git a/src/use.rs b/src/use.rs\n--- a/src/use.rs\n+++ b/src/use.rs\n")
	assert.Contains(t, out, "-f.create_a();\n+f.create_a_raw();\n")
	assert.Contains(t, out, "src/other.rs: error: boom\n")
	assert.Contains(t, out, "1 file changed, 1 insertion(+), 1 deletion(-)\n")
	assert.NotContains(t, out, "# pass: definitions")
}
