package oracle_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/locedit/pkg/oracle"
)

func fakeBinary(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-grep")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

var testQuery = oracle.Query{
	Pattern:  "(identifier) @id",
	Language: "rust",
	Paths:    []string{"./src"},
}

func TestExecArgs(t *testing.T) {
	t.Parallel()

	e := oracle.NewExec("", "/repo")
	assert.Equal(t, oracle.DefaultBinary, e.Binary)
	assert.Equal(t,
		[]string{"-q", "(identifier) @id", "-l", "rust", "--vimgrep", "./src"},
		e.Args(testQuery))

	q := testQuery
	q.Capture = "wrap"
	q.Paths = []string{"a", "b"}
	assert.Equal(t,
		[]string{"-q", "(identifier) @id", "-l", "rust", "--vimgrep", "--capture", "wrap", "a", "b"},
		e.Args(q))
}

func TestExecSearch(t *testing.T) {
	t.Parallel()

	bin := fakeBinary(t, `echo "$(pwd)"; for a in "$@"; do echo "$a"; done`)
	root := t.TempDir()

	out, err := oracle.NewExec(bin, root).Search(context.Background(), testQuery)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	wantRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(lines[0])
	require.NoError(t, err)
	assert.Equal(t, wantRoot, gotRoot)
	assert.Equal(t, []string{"-q", "(identifier) @id", "-l", "rust", "--vimgrep", "./src"}, lines[1:])
}

func TestExecNoMatches(t *testing.T) {
	t.Parallel()

	bin := fakeBinary(t, "exit 1\n")
	out, err := oracle.NewExec(bin, t.TempDir()).Search(context.Background(), testQuery)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestExecFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  string
		wantMsg string
	}{
		{name: "exit 1 with stderr", script: "echo 'bad query' >&2\nexit 1\n", wantMsg: "bad query"},
		{name: "exit 2", script: "exit 2\n", wantMsg: "exit status 2"},
		{name: "invalid utf-8", script: `printf 'a.rs:1:1:\377\n'` + "\n", wantMsg: "UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bin := fakeBinary(t, tt.script)
			_, err := oracle.NewExec(bin, t.TempDir()).Search(context.Background(), testQuery)
			require.ErrorIs(t, err, oracle.ErrOracleInvocation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestExecMissingBinary(t *testing.T) {
	t.Parallel()

	_, err := oracle.NewExec(filepath.Join(t.TempDir(), "missing"), t.TempDir()).
		Search(context.Background(), testQuery)
	require.ErrorIs(t, err, oracle.ErrOracleInvocation)
}

func TestQueryValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, testQuery.Validate())

	err := oracle.Query{}.Validate()
	require.ErrorIs(t, err, oracle.ErrInvalidQuery)
	assert.Contains(t, err.Error(), "pattern, language, paths")

	_, err = oracle.NewExec("", "").Search(context.Background(), oracle.Query{Pattern: "x"})
	require.ErrorIs(t, err, oracle.ErrInvalidQuery)
}

func TestFormatMatch(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "src/a.rs:1:5:fn a()", oracle.FormatMatch("src/a.rs", 0, 4, "fn a()"))
}
