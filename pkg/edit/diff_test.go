package edit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/locedit/pkg/edit"
)

func TestGenerateDiff(t *testing.T) {
	t.Parallel()

	original := []byte("fn create_a() {}\nfn keep() {}\n")
	modified := []byte("#[m]\nfn create_a_raw() {}\nfn keep() {}\n")

	diff, err := edit.GenerateDiff("src/lib.rs", original, modified)
	require.NoError(t, err)

	assert.True(t, diff.HasChanges())
	assert.Equal(t, 2, diff.Additions)
	assert.Equal(t, 1, diff.Deletions)
	assert.Contains(t, diff.String(), "--- a/src/lib.rs")
	assert.Contains(t, diff.String(), "+++ b/src/lib.rs")
	assert.Contains(t, diff.String(), "-fn create_a() {}")
	assert.Contains(t, diff.String(), "+fn create_a_raw() {}")
}

func TestGenerateDiffNoChanges(t *testing.T) {
	t.Parallel()

	diff, err := edit.GenerateDiff("a.rs", []byte("x\n"), []byte("x\n"))
	require.NoError(t, err)
	assert.False(t, diff.HasChanges())
	assert.Empty(t, diff.String())
}

func TestGenerateDiffCountsDashedContent(t *testing.T) {
	t.Parallel()

	diff, err := edit.GenerateDiff("a.lua", []byte("-- note\nx\n"), []byte("x\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, diff.Additions)
	assert.Equal(t, 1, diff.Deletions)
}

func TestNilDiff(t *testing.T) {
	t.Parallel()

	var diff *edit.Diff
	assert.False(t, diff.HasChanges())
	assert.Empty(t, diff.String())
}
