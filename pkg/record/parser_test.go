package record_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/locedit/pkg/location"
	"github.com/yaklabco/locedit/pkg/record"
)

func TestParseDefinition(t *testing.T) {
	t.Parallel()

	p := record.DefaultParser()

	tests := []struct {
		name    string
		line    string
		want    record.DefinitionRecord
		wantErr bool
	}{
		{
			name: "public function",
			line: "src/factory.rs:12:12:    pub fn create_node(&self) -> Node {",
			want: def("src/factory.rs", 11, 11, "create_node"),
		},
		{
			name: "keyword at start of context",
			line: "a.rs:1:4:fn create_a() -> A {",
			want: def("a.rs", 0, 3, "create_a"),
		},
		{
			name: "last keyword wins",
			line: "a.rs:3:20:pub fn create_a(f: fn create_b)",
			want: def("a.rs", 2, 19, "create_b"),
		},
		{
			name:    "no keyword",
			line:    "a.rs:1:1:pub struct Node {",
			wantErr: true,
		},
		{
			name:    "missing coordinates",
			line:    "a.rs:pub fn create_a()",
			wantErr: true,
		},
		{
			name:    "zero line",
			line:    "a.rs:0:1:fn create_a()",
			wantErr: true,
		},
		{
			name:    "zero column",
			line:    "a.rs:1:0:fn create_a()",
			wantErr: true,
		},
		{
			name:    "uppercase name",
			line:    "a.rs:1:4:fn Create()",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := p.ParseDefinition(tt.line)
			if tt.wantErr {
				require.ErrorIs(t, err, record.ErrMalformedMatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDefinitionCustomKeyword(t *testing.T) {
	t.Parallel()

	p, err := record.NewParser(record.ParserOptions{Keyword: "func", Identifier: `[A-Za-z_][A-Za-z0-9_]*`})
	require.NoError(t, err)

	got, err := p.ParseDefinition("pkg/x.go:5:6:func NewServer(addr string) *Server {")
	require.NoError(t, err)
	assert.Equal(t, def("pkg/x.go", 4, 5, "NewServer"), got)
}

func TestNewParserRejectsBadPattern(t *testing.T) {
	t.Parallel()

	_, err := record.NewParser(record.ParserOptions{Identifier: "[a-z"})
	require.Error(t, err)
}

func TestParseCall(t *testing.T) {
	t.Parallel()

	p := record.DefaultParser()
	idx, err := record.IndexDefinitions([]record.DefinitionRecord{
		def("f.rs", 0, 7, "create_a"),
		def("f.rs", 3, 7, "create_b"),
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		line    string
		suffix  string
		want    record.CallRecord
		wantErr error
	}{
		{
			name: "plain call",
			line: "src/x.rs:4:18:    let n = self.create_a(1);",
			want: record.CallRecord{Location: location.New("src/x.rs", 3, 17), Definition: def("f.rs", 0, 7, "create_a")},
		},
		{
			name:   "suffix stripped",
			line:   "src/x.rs:2:3:f.create_b_raw().wrap()",
			suffix: "_raw",
			want:   record.CallRecord{Location: location.New("src/x.rs", 1, 2), Definition: def("f.rs", 3, 7, "create_b")},
		},
		{
			name: "columns count characters",
			line: "src/x.rs:1:7:\"é\" + create_a()",
			want: record.CallRecord{Location: location.New("src/x.rs", 0, 6), Definition: def("f.rs", 0, 7, "create_a")},
		},
		{
			name:    "unknown name",
			line:    "src/x.rs:1:3:f.create_z()",
			wantErr: record.ErrUnknownSymbol,
		},
		{
			name:    "missing suffix",
			line:    "src/x.rs:1:3:f.create_a()",
			suffix:  "_raw",
			wantErr: record.ErrMalformedMatch,
		},
		{
			name:    "column past context",
			line:    "src/x.rs:1:40:f.create_a()",
			wantErr: record.ErrMalformedMatch,
		},
		{
			name:    "no identifier at column",
			line:    "src/x.rs:1:2:f.create_a()",
			wantErr: record.ErrMalformedMatch,
		},
		{
			name:    "empty context",
			line:    "src/x.rs:1:2:",
			wantErr: record.ErrMalformedMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := p.ParseCall(tt.line, idx, tt.suffix)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocation(t *testing.T) {
	t.Parallel()

	p := record.DefaultParser()

	got, err := p.ParseLocation("a/b.rs:7:31:    x.create_a_raw().wrap()")
	require.NoError(t, err)
	assert.Equal(t, location.New("a/b.rs", 6, 30), got)

	got, err = p.ParseLocation("a/b.rs:7:31:")
	require.NoError(t, err)
	assert.Equal(t, location.New("a/b.rs", 6, 30), got)

	_, err = p.ParseLocation("a/b.rs:7")
	require.ErrorIs(t, err, record.ErrMalformedMatch)
}

func TestParseDefinitionsReportsEveryBadLine(t *testing.T) {
	t.Parallel()

	p := record.DefaultParser()
	output := "a.rs:1:8:pub fn create_a() -> A {\n" +
		"garbage\n" +
		"\n" +
		"b.rs:2:8:pub fn create_b() -> B {\r\n" +
		"b.rs:0:8:pub fn create_c() -> C {\n"

	defs, err := p.ParseDefinitions(output)
	assert.Equal(t, []record.DefinitionRecord{
		def("a.rs", 0, 7, "create_a"),
		def("b.rs", 1, 7, "create_b"),
	}, defs)

	require.ErrorIs(t, err, record.ErrMalformedMatch)
	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	require.Len(t, joined.Unwrap(), 2)

	var merr *record.MatchError
	require.True(t, errors.As(joined.Unwrap()[0], &merr))
	assert.Equal(t, 2, merr.Line)
	assert.Equal(t, "garbage", merr.Text)

	require.True(t, errors.As(joined.Unwrap()[1], &merr))
	assert.Equal(t, 5, merr.Line)
}

func TestParseCallsAndLocations(t *testing.T) {
	t.Parallel()

	p := record.DefaultParser()
	idx, err := record.IndexDefinitions([]record.DefinitionRecord{def("f.rs", 0, 7, "create_a")})
	require.NoError(t, err)

	calls, err := p.ParseCalls("x.rs:1:3:f.create_a()\nx.rs:2:3:f.create_q()\n", idx, "")
	require.ErrorIs(t, err, record.ErrUnknownSymbol)
	require.Len(t, calls, 1)
	assert.Equal(t, location.New("x.rs", 0, 2), calls[0].Location)

	locs, err := p.ParseLocations("x.rs:1:14:f.create_a().wrap()\n")
	require.NoError(t, err)
	assert.Equal(t, []location.Location{location.New("x.rs", 0, 13)}, locs)

	empty, err := p.ParseLocations("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
