// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, layered merging,
// environment variable support and validation.
package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaklabco/locedit/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration. Root is absolute.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (LOCEDIT_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.locedit.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/locedit/config.yaml)
//  6. System config (/etc/locedit/config.yaml)
//  7. Defaults
//
// A relative root is resolved against the directory of the file that set
// it, or against WorkingDir when it comes from flags, environment or
// defaults.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	if opts.ExplicitPath != "" && !IsYAMLConfig(opts.ExplicitPath) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s does not have a .yml or .yaml extension; reading it as YAML", opts.ExplicitPath))
	}
	cfg := config.NewConfig()
	rootBase := workDir

	for _, layer := range paths.layers(opts) {
		setsRoot, err := loadConfigFile(layer.path, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: load %s config: %w", ErrInvalidConfig, layer.name, err)
		}
		if setsRoot {
			rootBase = filepath.Dir(layer.path)
		}
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		applied, err := LoadFromEnv(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: load environment: %w", ErrInvalidConfig, err)
		}
		if applied["root"] {
			rootBase = workDir
		}
	}

	if opts.CLIConfig != nil {
		if opts.CLIConfig.Root != "" {
			rootBase = workDir
		}
		cfg = merge(cfg, opts.CLIConfig)
	}

	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(rootBase, cfg.Root)
	}

	validation := Validate(cfg)
	if err := validation.Err(); err != nil {
		return nil, err
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Message)
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile overlays the YAML file at path onto cfg and reports
// whether the file set root.
func loadConfigFile(path string, cfg *config.Config) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read file: %w", err)
	}

	before := cfg.Root
	cfg.Root = ""
	if err := config.DecodeInto(cfg, content); err != nil {
		cfg.Root = before
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Root == "" {
		cfg.Root = before
		return false, nil
	}
	return true, nil
}
