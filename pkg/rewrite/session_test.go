package rewrite_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/locedit/pkg/executor"
	"github.com/yaklabco/locedit/pkg/oracle"
	"github.com/yaklabco/locedit/pkg/planner"
	"github.com/yaklabco/locedit/pkg/record"
	"github.com/yaklabco/locedit/pkg/rewrite"
)

const definitionsQuery = `(function_item
  (visibility_modifier)
  name: (identifier) @function_name
    (#match? @function_name "^create_(.+)")
    (#not-match? @function_name "_raw$")
  return_type: (type_identifier))`

const factorySource = `impl Factory {
    pub fn create_node(&self) -> Node {
        Node {}
    }
}
`

const usageSource = `fn build(f: &Factory) {
    let a = f.create_node();
    let b = f.create_node_raw().wrap();
}
`

// fakeOracle answers queries from a list of canned outputs, in order.
type fakeOracle struct {
	mu      sync.Mutex
	outputs []string
	queries []oracle.Query
	err     error
}

func (f *fakeOracle) Search(_ context.Context, q oracle.Query) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, q)
	if f.err != nil {
		return "", f.err
	}
	if len(f.outputs) == 0 {
		return "", nil
	}
	out := f.outputs[0]
	f.outputs = f.outputs[1:]
	return out, nil
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func readFile(t *testing.T, root, name string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(content)
}

func newSession(o oracle.Oracle, root string, dryRun bool, passes ...rewrite.Pass) *rewrite.Session {
	return rewrite.NewSession(
		o,
		record.DefaultParser(),
		planner.New(planner.Options{}),
		executor.New(executor.Options{Root: root, DryRun: dryRun}),
		rewrite.Options{
			Language:        "rust",
			DefinitionQuery: definitionsQuery,
			DefinitionPaths: []string{"src/factory.rs"},
			CallPaths:       []string{"src"},
			Passes:          passes,
		},
	)
}

func TestRunRewritesEndToEnd(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"src/factory.rs": factorySource,
		"src/use.rs":     usageSource,
	})

	report, err := newSession(oracle.NewTreeSitter(root), root, false).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "impl Factory {\n"+
		"#[generate_node_factory_method_wrapper]\n"+
		"    pub fn create_node_raw(&self) -> Node {\n"+
		"        Node {}\n"+
		"    }\n"+
		"}\n", readFile(t, root, "src/factory.rs"))
	assert.Equal(t, "fn build(f: &Factory) {\n"+
		"    let a = f.create_node_raw();\n"+
		"    let b = f.create_node();\n"+
		"}\n", readFile(t, root, "src/use.rs"))

	require.Len(t, report.Definitions, 1)
	assert.Equal(t, "create_node", report.Definitions[0].Name)

	require.Len(t, report.Passes, 3)
	assert.Equal(t, rewrite.PassDefinitions, report.Passes[0].Pass)
	assert.Equal(t, 2, report.Passes[0].Edits)
	assert.Equal(t, 1, report.Passes[1].Matches)
	assert.Equal(t, 1, report.Passes[2].Matches)
	assert.Equal(t, 2, report.Passes[2].Edits)

	stats := report.Stats()
	assert.Equal(t, 3, stats.FilesModified)
	assert.Equal(t, 5, stats.EditsApplied)
}

func TestRunDryRunLeavesFiles(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"src/factory.rs": factorySource,
		"src/use.rs":     usageSource,
	})

	report, err := newSession(oracle.NewTreeSitter(root), root, true).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, factorySource, readFile(t, root, "src/factory.rs"))
	assert.Equal(t, usageSource, readFile(t, root, "src/use.rs"))

	require.Len(t, report.Passes, 3)
	for _, p := range report.Passes {
		assert.True(t, p.Result.HasChanges(), "pass %s", p.Pass)
	}
	assert.Zero(t, report.Stats().FilesModified)
}

func TestRunSelectedPasses(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"src/factory.rs": factorySource,
		"src/use.rs":     usageSource,
	})

	report, err := newSession(oracle.NewTreeSitter(root), root, false, rewrite.PassCalls).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Passes, 1)
	assert.Equal(t, rewrite.PassCalls, report.Passes[0].Pass)
	assert.Equal(t, factorySource, readFile(t, root, "src/factory.rs"))
	assert.Contains(t, readFile(t, root, "src/use.rs"), "let a = f.create_node_raw();")
}

func TestRunUnknownSymbolStopsBeforeWriting(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"src/use.rs": usageSource})
	fake := &fakeOracle{outputs: []string{
		"src/factory.rs:2:12:    pub fn create_node(&self) -> Node {\n",
		"src/use.rs:2:15:    let a = f.create_other();\n",
	}}

	report, err := newSession(fake, root, false, rewrite.PassCalls, rewrite.PassUnwrap).Run(context.Background())
	require.ErrorIs(t, err, record.ErrUnknownSymbol)
	require.NotNil(t, report)
	assert.Empty(t, report.Passes)
	assert.Equal(t, usageSource, readFile(t, root, "src/use.rs"))
	assert.Len(t, fake.queries, 2)
}

func TestRunQueriesUseCaptures(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"src/use.rs": usageSource})
	fake := &fakeOracle{outputs: []string{
		"src/factory.rs:2:12:    pub fn create_node(&self) -> Node {\n",
		"src/use.rs:3:15:    let b = f.create_node_raw().wrap();\n",
		"src/use.rs:3:33:    let b = f.create_node_raw().wrap();\n",
	}}

	report, err := newSession(fake, root, false, rewrite.PassUnwrap).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Passes, 1)

	require.Len(t, fake.queries, 3)
	assert.Equal(t, []string{"src/factory.rs"}, fake.queries[0].Paths)
	assert.Equal(t, rewrite.CaptureMethod, fake.queries[1].Capture)
	assert.Equal(t, rewrite.CaptureAccessor, fake.queries[2].Capture)
	assert.Equal(t, []string{"src"}, fake.queries[2].Paths)

	assert.Contains(t, readFile(t, root, "src/use.rs"), "let b = f.create_node();")
}

func TestRunUnpairedAccessors(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"src/use.rs": usageSource})
	fake := &fakeOracle{outputs: []string{
		"src/factory.rs:2:12:    pub fn create_node(&self) -> Node {\n",
		"src/use.rs:3:15:    let b = f.create_node_raw().wrap();\n",
		"",
	}}

	_, err := newSession(fake, root, false, rewrite.PassUnwrap).Run(context.Background())
	require.ErrorIs(t, err, planner.ErrUnpairedAccessor)
	assert.Equal(t, usageSource, readFile(t, root, "src/use.rs"))
}

func TestRunDuplicateDefinitions(t *testing.T) {
	t.Parallel()

	fake := &fakeOracle{outputs: []string{
		"a.rs:1:8:pub fn create_a() -> A {\nb.rs:1:8:pub fn create_a() -> A {\n",
	}}

	report, err := newSession(fake, t.TempDir(), false).Run(context.Background())
	require.ErrorIs(t, err, record.ErrDuplicateSymbol)
	assert.Nil(t, report)
	assert.Len(t, fake.queries, 1)
}

func TestRunNoDefinitions(t *testing.T) {
	t.Parallel()

	fake := &fakeOracle{}
	report, err := newSession(fake, t.TempDir(), false).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Definitions)
	assert.Empty(t, report.Passes)
	assert.Len(t, fake.queries, 1)
}

func TestRunOracleFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeOracle{err: errors.New("boom")}
	_, err := newSession(fake, t.TempDir(), false).Run(context.Background())
	assert.ErrorContains(t, err, "search definitions")
}

func TestRunUnsupportedLanguage(t *testing.T) {
	t.Parallel()

	fake := &fakeOracle{}
	session := rewrite.NewSession(fake, record.DefaultParser(), planner.New(planner.Options{}),
		executor.New(executor.Options{}), rewrite.Options{Language: "cobol"})

	_, err := session.Run(context.Background())
	require.ErrorIs(t, err, rewrite.ErrUnsupportedLanguage)
	assert.Empty(t, fake.queries)
}

func TestParsePass(t *testing.T) {
	t.Parallel()

	p, err := rewrite.ParsePass(" Unwrap ")
	require.NoError(t, err)
	assert.Equal(t, rewrite.PassUnwrap, p)

	_, err = rewrite.ParsePass("cleanup")
	require.ErrorIs(t, err, rewrite.ErrUnknownPass)

	assert.Equal(t, []rewrite.Pass{rewrite.PassDefinitions, rewrite.PassCalls, rewrite.PassUnwrap}, rewrite.AllPasses())
}
