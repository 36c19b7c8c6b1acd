// Package config defines the configuration types for locedit.
// These types are pure data structures; loading and merging live in
// internal/configloader.
package config

import (
	"github.com/yaklabco/locedit/pkg/planner"
	"github.com/yaklabco/locedit/pkg/record"
)

// OracleMode selects how structural searches are run.
type OracleMode string

const (
	// OracleTreeSitter runs queries in-process.
	OracleTreeSitter OracleMode = "treesitter"
	// OracleExec runs an external tree-sitter-grep compatible binary.
	OracleExec OracleMode = "exec"
)

// IsValid returns true if the oracle mode is known.
func (m OracleMode) IsValid() bool {
	switch m {
	case OracleTreeSitter, OracleExec:
		return true
	default:
		return false
	}
}

// OutputFormat specifies how results are reported.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}

// DefaultBinary is the oracle binary looked up on PATH in exec mode.
const DefaultBinary = "tree-sitter-grep"

// DefaultLanguage is the language searched when none is configured.
const DefaultLanguage = "rust"

// DefaultDefinitionQuery selects public `create_*` factory methods that
// return a named type, skipping already-renamed, worker and base methods.
const DefaultDefinitionQuery = `(function_item
  (visibility_modifier)
  name: (identifier) @function_name
    (#match? @function_name "^create_(.+)")
    (#not-match? @function_name "_raw$")
    (#not-match? @function_name "_worker$")
    (#not-match? @function_name "^create_base_")
  return_type: (type_identifier))`

// OracleConfig configures the structural-search oracle.
type OracleConfig struct {
	Mode   OracleMode `yaml:"mode"`
	Binary string     `yaml:"binary"`
}

// BackupsConfig controls backup behavior when rewriting files.
type BackupsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the root configuration structure for locedit.
type Config struct {
	// Root is the directory every path is resolved against.
	Root string `yaml:"root"`

	// Language is the grammar used for every query.
	Language string `yaml:"language"`

	// Oracle configures how queries run.
	Oracle OracleConfig `yaml:"oracle"`

	// DefinitionQuery is the tree-sitter query selecting the definitions.
	DefinitionQuery string `yaml:"definition_query"`

	// DefinitionPaths are searched for definitions.
	DefinitionPaths []string `yaml:"definition_paths"`

	// CallPaths are searched for call sites.
	CallPaths []string `yaml:"call_paths"`

	// Keyword precedes a defined name in the definition match text.
	Keyword string `yaml:"keyword"`

	// Identifier is the regular expression a symbol name matches.
	Identifier string `yaml:"identifier"`

	// Suffix is appended to renamed symbols.
	Suffix string `yaml:"suffix"`

	// Marker is the line inserted before each definition.
	Marker string `yaml:"marker"`

	// Accessor is the method call removed by the unwrap pass.
	Accessor string `yaml:"accessor"`

	// Passes lists the passes to run, in any order.
	Passes []string `yaml:"passes"`

	// Backups configures backup behavior.
	Backups BackupsConfig `yaml:"backups"`

	// Jobs bounds how many files are rewritten concurrently.
	Jobs int `yaml:"jobs"`

	// StrictRaceDetection hashes file content, not only size and mtime, when
	// checking for concurrent modification before a write.
	StrictRaceDetection bool `yaml:"strict_race_detection"`

	// CLI-level options (not persisted to config files).

	// DryRun reports what would change without writing.
	DryRun bool `yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// ReopenPerEdit opens, splices and saves the file once per edit.
	ReopenPerEdit bool `yaml:"-"`

	// NoBackups disables backup creation.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with the defaults.
func NewConfig() *Config {
	return &Config{
		Root:     ".",
		Language: DefaultLanguage,
		Oracle: OracleConfig{
			Mode:   OracleTreeSitter,
			Binary: DefaultBinary,
		},
		DefinitionQuery: DefaultDefinitionQuery,
		DefinitionPaths: []string{"./src/compiler/factory/node_factory"},
		CallPaths:       []string{"./src/compiler"},
		Keyword:         record.DefaultKeyword,
		Identifier:      record.DefaultIdentifier,
		Suffix:          planner.DefaultSuffix,
		Marker:          planner.DefaultMarker,
		Accessor:        planner.DefaultAccessor,
		Passes:          []string{"definitions", "calls", "unwrap"},
		Backups: BackupsConfig{
			Enabled: true,
		},
		Jobs:   1,
		Format: FormatText,
	}
}

// BackupsEnabled reports whether backups should be written.
func (c *Config) BackupsEnabled() bool {
	return c.Backups.Enabled && !c.NoBackups
}
