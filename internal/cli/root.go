// Package cli provides the Cobra command structure for locedit.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/locedit/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root locedit command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "locedit",
		Short: "Batch rewriting of source files at oracle-reported locations",
		Long: `locedit rewrites source files in batches. A structural search oracle
reports where symbols are defined and called; locedit turns each match into
a located edit and applies every file's edits from the end of the file
backwards, so each edit lands on the coordinates it was planned against.

The built-in passes rename factory definitions behind a wrapper marker,
point their call sites at the renamed symbols, and finally remove the
explicit unwrapping calls.`,
		Version: info.Version,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			switch color {
			case "auto", "always", "never":
			default:
				return fmt.Errorf("%w: --color must be auto, always or never, got %q", ErrInvalidUsage, color)
			}
			if debug {
				logging.SetLevel("debug")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	})

	// Add subcommands.
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
