package oracle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/locedit/internal/logging"
)

// DefaultBinary is the tree-sitter-grep compatible program Exec runs.
const DefaultBinary = "tree-sitter-grep"

// Exec runs an external tree-sitter-grep compatible binary.
type Exec struct {
	// Binary is the program to run. Defaults to DefaultBinary.
	Binary string

	// Root is the working directory of the child process. Query paths are
	// interpreted relative to it.
	Root string
}

// NewExec returns an Exec oracle.
func NewExec(binary, root string) *Exec {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Exec{Binary: binary, Root: root}
}

// Args returns the command line arguments for q.
func (e *Exec) Args(q Query) []string {
	args := []string{"-q", q.Pattern, "-l", q.Language, "--vimgrep"}
	if q.Capture != "" {
		args = append(args, "--capture", q.Capture)
	}
	return append(args, q.Paths...)
}

// Search runs the binary. An exit status of 1 with nothing on stderr means
// no matches.
func (e *Exec) Search(ctx context.Context, q Query) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}

	binary := e.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	cmd := exec.CommandContext(ctx, binary, e.Args(q)...)
	cmd.Dir = e.Root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.FromContext(ctx).Debug("running oracle",
		logging.FieldOracle, binary,
		logging.FieldLanguage, q.Language,
		logging.FieldPaths, q.Paths,
	)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && stderr.Len() == 0 {
			return "", nil
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("%w: %s: %w", ErrOracleInvocation, binary, err)
		}
		return "", fmt.Errorf("%w: %s: %w: %s", ErrOracleInvocation, binary, err, msg)
	}

	if !utf8.Valid(stdout.Bytes()) {
		return "", fmt.Errorf("%w: %s: output is not valid UTF-8", ErrOracleInvocation, binary)
	}
	return stdout.String(), nil
}
