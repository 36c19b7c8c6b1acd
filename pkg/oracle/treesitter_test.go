package oracle_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/locedit/pkg/oracle"
)

const factorySource = `impl Factory {
    pub fn create_node(&self) -> Node {
        Node {}
    }

    pub fn create_node_raw(&self) -> Node {
        Node {}
    }

    fn create_private(&self) -> Node {
        Node {}
    }

    pub fn create_base_thing(&self) -> Node {
        Node {}
    }

    pub fn create_list(&self) -> Vec<Node> {
        vec![]
    }
}
`

const usageSource = `fn build(f: &Factory) {
    let a = f.create_node();
    let b = f.create_node_raw().wrap();
    let s = "é"; let c = f.create_node();
}
`

const definitionsQuery = `(function_item
  (visibility_modifier)
  name: (identifier) @function_name
    (#match? @function_name "^create_(.+)")
    (#not-match? @function_name "_raw$")
    (#not-match? @function_name "^create_base_")
  return_type: (type_identifier))`

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

func TestTreeSitterDefinitions(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"src/factory.rs":     factorySource,
		"src/gen/factory.rs": factorySource,
		"src/.hidden/a.rs":   factorySource,
		"src/notes.go":       "package notes\n",
		".gitignore":         "gen/\n",
	})

	out, err := oracle.NewTreeSitter(root).Search(context.Background(), oracle.Query{
		Pattern:  definitionsQuery,
		Language: "rust",
		Paths:    []string{"src"},
	})
	require.NoError(t, err)
	assert.Equal(t, "src/factory.rs:2:12:    pub fn create_node(&self) -> Node {\n", out)
}

func TestTreeSitterCalls(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"src/use.rs": usageSource})
	ts := oracle.NewTreeSitter(root)

	out, err := ts.Search(context.Background(), oracle.Query{
		Pattern: `(call_expression function: (field_expression field: (field_identifier) @method_name
  (#match? @method_name "^create_node$")))`,
		Language: "rust",
		Paths:    []string{"src/use.rs"},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"src/use.rs:2:15:    let a = f.create_node();\n"+
			"src/use.rs:4:28:    let s = \"é\"; let c = f.create_node();\n",
		out)

	out, err = ts.Search(context.Background(), oracle.Query{
		Pattern: `(call_expression
  function: (field_expression
    value: (call_expression function: (field_expression field: (field_identifier) @method_name
      (#match? @method_name "^create_node_raw$")))
    field: (field_identifier) @wrap (#eq? @wrap "wrap")))`,
		Language: "rust",
		Paths:    []string{"src"},
		Capture:  "wrap",
	})
	require.NoError(t, err)
	assert.Equal(t, "src/use.rs:3:33:    let b = f.create_node_raw().wrap();\n", out)
}

func TestTreeSitterErrors(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"a.rs": "fn a() {}\n"})
	ts := oracle.NewTreeSitter(root)

	tests := []struct {
		name    string
		query   oracle.Query
		wantErr error
	}{
		{
			name:    "unsupported language",
			query:   oracle.Query{Pattern: "(x) @x", Language: "cobol", Paths: []string{"."}},
			wantErr: oracle.ErrUnsupportedLanguage,
		},
		{
			name:    "bad pattern",
			query:   oracle.Query{Pattern: "(function_item", Language: "rust", Paths: []string{"."}},
			wantErr: oracle.ErrInvalidQuery,
		},
		{
			name:    "unknown capture",
			query:   oracle.Query{Pattern: "(identifier) @id", Language: "rust", Paths: []string{"."}, Capture: "nope"},
			wantErr: oracle.ErrInvalidQuery,
		},
		{
			name:    "no captures",
			query:   oracle.Query{Pattern: "(identifier)", Language: "rust", Paths: []string{"."}},
			wantErr: oracle.ErrInvalidQuery,
		},
		{
			name:    "missing path",
			query:   oracle.Query{Pattern: "(identifier) @id", Language: "rust", Paths: []string{"missing"}},
			wantErr: oracle.ErrOracleInvocation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ts.Search(context.Background(), tt.query)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTreeSitterNoMatches(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"a.rs": "fn a() {}\n"})
	out, err := oracle.NewTreeSitter(root).Search(context.Background(), oracle.Query{
		Pattern:  definitionsQuery,
		Language: "rust",
		Paths:    []string{"."},
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTreeSitterGo(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"pkg/server.go": "package pkg\n\nfunc NewServer() *Server { return nil }\n",
	})
	out, err := oracle.NewTreeSitter(root).Search(context.Background(), oracle.Query{
		Pattern:  `(function_declaration name: (identifier) @name)`,
		Language: "go",
		Paths:    []string{"."},
	})
	require.NoError(t, err)
	assert.Equal(t, "pkg/server.go:3:6:func NewServer() *Server { return nil }\n", out)
}

func TestDetectLanguages(t *testing.T) {
	t.Parallel()

	assert.Contains(t, oracle.DetectLanguages("src/lib.rs", nil), "rust")
	assert.Equal(t, []string{"go"}, oracle.DetectLanguages("main.go", nil))
	assert.Contains(t, oracle.DetectLanguages("tool", []byte("#!/usr/bin/env python3\nprint(1)\n")), "python")
	assert.Empty(t, oracle.DetectLanguages("README.md", nil))

	assert.True(t, oracle.IsLanguage("a.ts", nil, "TypeScript"))
	assert.False(t, oracle.IsLanguage("a.ts", nil, "rust"))
	assert.Equal(t, []string{"go", "javascript", "python", "rust", "tsx", "typescript"}, oracle.Languages())
}
