package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/locedit/internal/ui/pretty"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	text := "test"
	assert.Equal(t, text, styles.Bold.Render(text), "No-color Bold should not add formatting")
	assert.Equal(t, text, styles.Error.Render(text), "No-color Error should not add formatting")
	assert.Equal(t, text, styles.DiffAdd.Render(text))
}

func TestStyles_AllFieldsInitialized(t *testing.T) {
	styles := pretty.NewStyles(true)

	for _, rendered := range []string{
		styles.Error.Render("x"),
		styles.Warning.Render("x"),
		styles.FilePath.Render("x"),
		styles.Pass.Render("x"),
		styles.Count.Render("x"),
		styles.DiffHeader.Render("x"),
		styles.DiffHunk.Render("x"),
		styles.DiffAdd.Render("x"),
		styles.DiffRemove.Render("x"),
		styles.DiffContext.Render("x"),
		styles.SummaryTitle.Render("x"),
		styles.Success.Render("x"),
		styles.Failure.Render("x"),
		styles.Dim.Render("x"),
		styles.Bold.Render("x"),
	} {
		assert.Contains(t, rendered, "x")
	}
}

func TestIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer

	assert.True(t, pretty.IsColorEnabled("always", &buf), "always mode should return true")
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout), "never mode should return false")
	assert.False(t, pretty.IsColorEnabled("auto", &buf), "auto mode with non-TTY should return false")
}

func TestIsColorEnabled_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout), "auto mode with NO_COLOR set should return false")
	assert.True(t, pretty.IsColorEnabled("always", os.Stdout))
}

func TestIsColorEnabled_DefaultsToAuto(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled("", &buf))
	assert.False(t, pretty.IsColorEnabled("unknown", &buf))
}

func TestTerminalWidth_NonTTY(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Equal(t, 100, pretty.TerminalWidth(&buf))
}
