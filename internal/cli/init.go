package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/locedit/internal/logging"
	"github.com/yaklabco/locedit/pkg/config"
	"github.com/yaklabco/locedit/pkg/oracle"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// defaultConfigFile is the name written by init when --output is not set.
const defaultConfigFile = ".locedit.yml"

// initFlags holds the flags for the init command.
type initFlags struct {
	force    bool
	full     bool
	language string
	output   string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new locedit configuration file",
		Long: `Create a new .locedit.yml configuration file in the current directory
with the default passes, queries and paths. Edit the file to point the
rewrite at your own sources.

Examples:
  locedit init                       Create a minimal .locedit.yml
  locedit init --full                Write every key with its default
  locedit init --language go         Start from Go defaults
  locedit init --output custom.yml   Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Write every key with its default value")
	cmd.Flags().StringVar(&flags.language, "language", "", "Language of the searched sources")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "Output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")

	language := strings.ToLower(flags.language)
	if language != "" && !slices.Contains(oracle.Languages(), language) {
		return fmt.Errorf("%w: unsupported language %q; must be one of: %s",
			ErrInvalidUsage, flags.language, strings.Join(oracle.Languages(), ", "))
	}

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		if !isInteractive(cmd.InOrStdin()) {
			return fmt.Errorf("file %q already exists; use --force to overwrite", flags.output)
		}
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
			fmt.Sprintf("%s already exists. Overwrite? [y/N] ", flags.output))
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("left existing file untouched", logging.FieldPath, flags.output)
			return nil
		}
	} else if err == nil {
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:     flags.full,
		Language: language,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'locedit run --dry-run' to preview the rewrite")

	return nil
}

// isInteractive reports whether in is a terminal.
func isInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := io.WriteString(out, prompt); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
