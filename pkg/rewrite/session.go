// Package rewrite drives the three-pass wrapper rewrite: find definitions,
// rename and annotate them, rename their call sites, then strip the
// accessor call that used to unwrap each result.
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/locedit/internal/logging"
	"github.com/yaklabco/locedit/pkg/edit"
	"github.com/yaklabco/locedit/pkg/executor"
	"github.com/yaklabco/locedit/pkg/oracle"
	"github.com/yaklabco/locedit/pkg/planner"
	"github.com/yaklabco/locedit/pkg/record"
)

// Sentinel errors for categorization via errors.Is.
var (
	// ErrUnknownPass indicates a pass name that does not exist.
	ErrUnknownPass = errors.New("unknown pass")

	// ErrUnsupportedLanguage indicates a language with no call query shape.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Pass is one stage of the rewrite.
type Pass string

// Passes, in the order they run.
const (
	PassDefinitions Pass = "definitions"
	PassCalls       Pass = "calls"
	PassUnwrap      Pass = "unwrap"
)

// AllPasses returns every pass in run order.
func AllPasses() []Pass {
	return []Pass{PassDefinitions, PassCalls, PassUnwrap}
}

// ParsePass converts a pass name.
func ParsePass(name string) (Pass, error) {
	p := Pass(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(AllPasses(), p) {
		return "", fmt.Errorf("%w: %q", ErrUnknownPass, name)
	}
	return p, nil
}

// Options configures a Session.
type Options struct {
	// Language is the grammar every query runs against.
	Language string

	// DefinitionQuery finds the definitions to rewrite.
	DefinitionQuery string

	// DefinitionPaths are searched with DefinitionQuery.
	DefinitionPaths []string

	// CallPaths are searched for call sites.
	CallPaths []string

	// Passes selects which passes run. Empty means all of them.
	Passes []Pass
}

// PassReport describes one executed pass.
type PassReport struct {
	Pass    Pass
	Matches int
	Edits   int
	Result  *executor.Result
}

// Report is the outcome of Session.Run.
type Report struct {
	Definitions []record.DefinitionRecord
	Passes      []PassReport
}

// Stats sums the executor statistics of every pass.
func (r *Report) Stats() executor.Stats {
	var total executor.Stats
	if r == nil {
		return total
	}
	for _, p := range r.Passes {
		if p.Result == nil {
			continue
		}
		s := p.Result.Stats
		total.FilesPlanned += s.FilesPlanned
		total.FilesProcessed += s.FilesProcessed
		total.FilesModified += s.FilesModified
		total.FilesErrored += s.FilesErrored
		total.EditsPlanned += s.EditsPlanned
		total.EditsApplied += s.EditsApplied
		total.BackupsCreated += s.BackupsCreated
	}
	return total
}

// Session wires an oracle, parser, planner and executor together.
type Session struct {
	oracle   oracle.Oracle
	parser   *record.Parser
	planner  *planner.Planner
	executor *executor.Executor
	opts     Options
}

// NewSession creates a Session.
func NewSession(
	o oracle.Oracle,
	parser *record.Parser,
	plan *planner.Planner,
	exec *executor.Executor,
	opts Options,
) *Session {
	if len(opts.Passes) == 0 {
		opts.Passes = AllPasses()
	}
	return &Session{oracle: o, parser: parser, planner: plan, executor: exec, opts: opts}
}

// Run discovers the definitions, then runs the selected passes in order.
// Each pass searches the files as they are on disk when it starts. Any
// failure stops the run; the report covers the passes run so far.
func (s *Session) Run(ctx context.Context) (*Report, error) {
	if _, err := shapeFor(s.opts.Language); err != nil {
		return nil, err
	}

	defs, idx, err := s.discoverDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	report := &Report{Definitions: defs}

	logger := logging.FromContext(ctx)
	logger.Info("found definitions", logging.FieldDefinitions, len(defs))
	if idx.Len() == 0 {
		return report, nil
	}

	for _, pass := range AllPasses() {
		if !slices.Contains(s.opts.Passes, pass) {
			continue
		}

		passReport, err := s.runPass(ctx, pass, defs, idx)
		if passReport != nil {
			report.Passes = append(report.Passes, *passReport)
		}
		if err != nil {
			return report, fmt.Errorf("pass %s: %w", pass, err)
		}

		logger.Info("pass complete",
			logging.FieldPass, pass,
			logging.FieldMatches, passReport.Matches,
			logging.FieldEdits, passReport.Edits,
			logging.FieldFilesModified, passReport.Result.Stats.FilesModified,
		)
	}
	return report, nil
}

func (s *Session) discoverDefinitions(ctx context.Context) ([]record.DefinitionRecord, *record.NameIndex, error) {
	out, err := s.oracle.Search(ctx, oracle.Query{
		Pattern:  s.opts.DefinitionQuery,
		Language: s.opts.Language,
		Paths:    s.opts.DefinitionPaths,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("search definitions: %w", err)
	}

	defs, err := s.parser.ParseDefinitions(out)
	if err != nil {
		return nil, nil, fmt.Errorf("parse definitions: %w", err)
	}

	idx, err := record.IndexDefinitions(defs)
	if err != nil {
		return nil, nil, err
	}
	return defs, idx, nil
}

func (s *Session) runPass(
	ctx context.Context,
	pass Pass,
	defs []record.DefinitionRecord,
	idx *record.NameIndex,
) (*PassReport, error) {
	var (
		edits   []edit.Edit
		matches int
		err     error
	)

	switch pass {
	case PassDefinitions:
		matches = len(defs)
		edits = append(s.planner.RenameDefinitions(defs), s.planner.AnnotateDefinitions(defs)...)
	case PassCalls:
		matches, edits, err = s.planCalls(ctx, idx)
	case PassUnwrap:
		matches, edits, err = s.planUnwrap(ctx, idx)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownPass, pass)
	}
	if err != nil {
		return nil, err
	}

	result, err := s.executor.Apply(ctx, edits)
	return &PassReport{Pass: pass, Matches: matches, Edits: len(edits), Result: result}, err
}

func (s *Session) planCalls(ctx context.Context, idx *record.NameIndex) (int, []edit.Edit, error) {
	pattern, err := InvocationQuery(s.opts.Language, idx.Names(), "")
	if err != nil {
		return 0, nil, err
	}

	out, err := s.search(ctx, pattern, CaptureMethod)
	if err != nil {
		return 0, nil, fmt.Errorf("search calls: %w", err)
	}
	calls, err := s.parser.ParseCalls(out, idx, "")
	if err != nil {
		return 0, nil, fmt.Errorf("parse calls: %w", err)
	}
	return len(calls), s.planner.RenameCalls(calls), nil
}

func (s *Session) planUnwrap(ctx context.Context, idx *record.NameIndex) (int, []edit.Edit, error) {
	pattern, err := WrapQuery(s.opts.Language, idx.Names(), s.planner.Suffix(), s.planner.Accessor())
	if err != nil {
		return 0, nil, err
	}

	out, err := s.search(ctx, pattern, CaptureMethod)
	if err != nil {
		return 0, nil, fmt.Errorf("search wrapped calls: %w", err)
	}
	wrapped, err := s.parser.ParseCalls(out, idx, s.planner.Suffix())
	if err != nil {
		return 0, nil, fmt.Errorf("parse wrapped calls: %w", err)
	}

	out, err = s.search(ctx, pattern, CaptureAccessor)
	if err != nil {
		return 0, nil, fmt.Errorf("search accessors: %w", err)
	}
	accessors, err := s.parser.ParseLocations(out)
	if err != nil {
		return 0, nil, fmt.Errorf("parse accessors: %w", err)
	}

	edits, err := s.planner.UnwrapCalls(wrapped, accessors)
	if err != nil {
		return 0, nil, err
	}
	return len(wrapped), edits, nil
}

func (s *Session) search(ctx context.Context, pattern, capture string) (string, error) {
	return s.oracle.Search(ctx, oracle.Query{
		Pattern:  pattern,
		Language: s.opts.Language,
		Paths:    s.opts.CallPaths,
		Capture:  capture,
	})
}
