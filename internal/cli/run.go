package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/locedit/internal/configloader"
	"github.com/yaklabco/locedit/internal/logging"
	"github.com/yaklabco/locedit/pkg/config"
	"github.com/yaklabco/locedit/pkg/executor"
	"github.com/yaklabco/locedit/pkg/fsutil"
	"github.com/yaklabco/locedit/pkg/oracle"
	"github.com/yaklabco/locedit/pkg/planner"
	"github.com/yaklabco/locedit/pkg/record"
	"github.com/yaklabco/locedit/pkg/reporter"
	"github.com/yaklabco/locedit/pkg/rewrite"
)

type runFlags struct {
	format  string
	oracle  string
	binary  string
	passes  []string
	verbose bool
	compact bool
}

func newRunCommand() *cobra.Command {
	var cfg config.Config
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the rewrite passes",
		Long:  runLongDescription,
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			annotationEnv: "true",
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRewrite(cmd, &cfg, flags)
		},
	}

	addRunFlags(cmd, &cfg, flags)

	return cmd
}

const runLongDescription = `Run the rewrite passes against the configured root.

Definitions are discovered first. The selected passes then run in order
(definitions, calls, unwrap); each pass searches the files as they are on
disk when it starts and rewrites them in a single batch.

Examples:
  locedit run                          # Run every pass
  locedit run --dry-run                # Show what would change
  locedit run --format diff            # Print unified diffs (implies --dry-run)
  locedit run --pass definitions       # Run a single pass
  locedit run --oracle exec            # Search with an external binary
  locedit run --format json --jobs 8   # Machine-readable output`

func runRewrite(cmd *cobra.Command, cfg *config.Config, flags *runFlags) error {
	logger := logging.Default()

	// Only set values that were explicitly provided via CLI flags.
	cfg.Format = config.OutputFormat(flags.format)
	cfg.Oracle.Mode = config.OracleMode(flags.oracle)
	cfg.Oracle.Binary = flags.binary
	if cmd.Flags().Changed("pass") {
		cfg.Passes = flags.passes
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cfg,
	})
	if err != nil {
		return errors.Join(errors.New("failed to load configuration"), err)
	}

	finalCfg := loadResult.Config
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	if finalCfg.Format == config.FormatDiff {
		finalCfg.DryRun = true
	}

	logger.Debug("configuration loaded",
		logging.FieldWorkingDir, finalCfg.Root,
		logging.FieldLanguage, finalCfg.Language,
		logging.FieldOracle, finalCfg.Oracle.Mode,
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldJobs, finalCfg.Jobs,
	)

	session, err := newSession(finalCfg)
	if err != nil {
		return err
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode,
		ShowSummary: true,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
		DryRun:      finalCfg.DryRun,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	report, runErr := session.Run(logging.WithLogger(ctx, logger))

	// A partial report still shows what was rewritten before the failure.
	if report != nil {
		if _, err := rep.Report(ctx, report); err != nil {
			logger.Error("report failed", logging.FieldError, err)
			return errors.Join(runErr, fmt.Errorf("report results: %w", err))
		}
	}

	if runErr != nil {
		return fmt.Errorf("rewrite: %w", runErr)
	}
	return nil
}

// newSession builds the oracle, parser, planner and executor for cfg.
func newSession(cfg *config.Config) (*rewrite.Session, error) {
	var searcher oracle.Oracle
	switch cfg.Oracle.Mode {
	case config.OracleExec:
		searcher = oracle.NewExec(cfg.Oracle.Binary, cfg.Root)
	default:
		searcher = oracle.NewTreeSitter(cfg.Root)
	}

	parser, err := record.NewParser(record.ParserOptions{
		Keyword:    cfg.Keyword,
		Identifier: cfg.Identifier,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", configloader.ErrInvalidConfig, err)
	}

	plan := planner.New(planner.Options{
		Suffix:   cfg.Suffix,
		Marker:   cfg.Marker,
		Accessor: cfg.Accessor,
	})

	exec := executor.New(executor.Options{
		Root:                cfg.Root,
		DryRun:              cfg.DryRun,
		Backup:              fsutil.BackupConfig{Enabled: cfg.BackupsEnabled()},
		Jobs:                cfg.Jobs,
		ReopenPerEdit:       cfg.ReopenPerEdit,
		StrictRaceDetection: cfg.StrictRaceDetection,
	})

	passes := make([]rewrite.Pass, 0, len(cfg.Passes))
	for _, name := range cfg.Passes {
		pass, err := rewrite.ParsePass(name)
		if err != nil {
			return nil, err
		}
		passes = append(passes, pass)
	}

	return rewrite.NewSession(searcher, parser, plan, exec, rewrite.Options{
		Language:        cfg.Language,
		DefinitionQuery: cfg.DefinitionQuery,
		DefinitionPaths: cfg.DefinitionPaths,
		CallPaths:       cfg.CallPaths,
		Passes:          passes,
	}), nil
}

func addRunFlags(cmd *cobra.Command, cfg *config.Config, flags *runFlags) {
	cmd.Flags().StringVar(&cfg.Root, "root", "", "directory every path is resolved against")
	cmd.Flags().StringVar(&cfg.Language, "language", "", "language of the searched sources")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show changes without writing them")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, diff")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of files rewritten concurrently")
	cmd.Flags().StringSliceVar(&flags.passes, "pass", nil, "passes to run: definitions, calls, unwrap")
	cmd.Flags().StringVar(&flags.oracle, "oracle", "", "search oracle: treesitter or exec")
	cmd.Flags().StringVar(&flags.binary, "oracle-binary", "", "oracle binary in exec mode")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation")
	cmd.Flags().BoolVar(&cfg.ReopenPerEdit, "reopen-per-edit", false, "save each file after every edit")
	cmd.Flags().BoolVar(&cfg.StrictRaceDetection, "strict-race-detection", false,
		"hash file content when checking for concurrent edits")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list unchanged files and definitions")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
}
