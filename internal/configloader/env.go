package configloader

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/locedit/pkg/config"
)

// envVarPrefix is the prefix for all locedit environment variables.
const envVarPrefix = "LOCEDIT_"

// envVar binds one environment variable to a config field.
type envVar struct {
	name        string // without prefix
	field       string // YAML key, dotted for nested fields
	description string
	set         func(cfg *config.Config, raw string) error
}

//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []envVar{
	stringVar("ROOT", "root", "Directory every path is resolved against",
		func(c *config.Config, v string) { c.Root = v }),
	stringVar("LANGUAGE", "language", "Language of the searched sources",
		func(c *config.Config, v string) { c.Language = v }),
	stringVar("ORACLE_MODE", "oracle.mode", "Oracle: treesitter or exec",
		func(c *config.Config, v string) { c.Oracle.Mode = config.OracleMode(v) }),
	stringVar("ORACLE_BINARY", "oracle.binary", "Oracle binary in exec mode",
		func(c *config.Config, v string) { c.Oracle.Binary = v }),
	stringVar("DEFINITION_QUERY", "definition_query", "Query selecting definitions",
		func(c *config.Config, v string) { c.DefinitionQuery = v }),
	listVar("DEFINITION_PATHS", "definition_paths", "Comma-separated definition paths",
		func(c *config.Config, v []string) { c.DefinitionPaths = v }),
	listVar("CALL_PATHS", "call_paths", "Comma-separated call site paths",
		func(c *config.Config, v []string) { c.CallPaths = v }),
	stringVar("KEYWORD", "keyword", "Keyword preceding a defined name",
		func(c *config.Config, v string) { c.Keyword = v }),
	stringVar("IDENTIFIER", "identifier", "Regular expression for symbol names",
		func(c *config.Config, v string) { c.Identifier = v }),
	stringVar("SUFFIX", "suffix", "Suffix appended to renamed symbols",
		func(c *config.Config, v string) { c.Suffix = v }),
	stringVar("MARKER", "marker", "Line inserted before each definition",
		func(c *config.Config, v string) { c.Marker = v }),
	stringVar("ACCESSOR", "accessor", "Accessor call removed when unwrapping",
		func(c *config.Config, v string) { c.Accessor = v }),
	listVar("PASSES", "passes", "Comma-separated passes to run",
		func(c *config.Config, v []string) { c.Passes = v }),
	boolVar("BACKUPS_ENABLED", "backups.enabled", "Write backups: true or false",
		func(c *config.Config, v bool) { c.Backups.Enabled = v }),
	intVar("JOBS", "jobs", "Files rewritten concurrently",
		func(c *config.Config, v int) { c.Jobs = v }),
	boolVar("DRY_RUN", "dry_run", "Dry-run mode: true or false",
		func(c *config.Config, v bool) { c.DryRun = v }),
	stringVar("FORMAT", "format", "Output format: text, json or diff",
		func(c *config.Config, v string) { c.Format = config.OutputFormat(v) }),
	boolVar("REOPEN_PER_EDIT", "reopen_per_edit", "Save the file after every edit",
		func(c *config.Config, v bool) { c.ReopenPerEdit = v }),
	boolVar("NO_BACKUPS", "no_backups", "Disable backups: true or false",
		func(c *config.Config, v bool) { c.NoBackups = v }),
	boolVar("STRICT_RACE_DETECTION", "strict_race_detection", "Hash content when checking for concurrent edits",
		func(c *config.Config, v bool) { c.StrictRaceDetection = v }),
}

func stringVar(name, field, description string, assign func(*config.Config, string)) envVar {
	return envVar{name: name, field: field, description: description,
		set: func(cfg *config.Config, raw string) error {
			assign(cfg, raw)
			return nil
		}}
}

func boolVar(name, field, description string, assign func(*config.Config, bool)) envVar {
	return envVar{name: name, field: field, description: description,
		set: func(cfg *config.Config, raw string) error {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", raw)
			}
			assign(cfg, b)
			return nil
		}}
}

func intVar(name, field, description string, assign func(*config.Config, int)) envVar {
	return envVar{name: name, field: field, description: description,
		set: func(cfg *config.Config, raw string) error {
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("invalid integer %q", raw)
			}
			assign(cfg, n)
			return nil
		}}
}

func listVar(name, field, description string, assign func(*config.Config, []string)) envVar {
	return envVar{name: name, field: field, description: description,
		set: func(cfg *config.Config, raw string) error {
			assign(cfg, splitList(raw))
			return nil
		}}
}

// splitList splits a comma-separated value, dropping blank elements.
func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadFromEnv applies LOCEDIT_* overrides to cfg and returns the fields it
// set. Every malformed value is reported.
func LoadFromEnv(cfg *config.Config) (map[string]bool, error) {
	applied := make(map[string]bool)
	if cfg == nil {
		return applied, nil
	}

	var errs []error
	for _, v := range envVars {
		raw := os.Getenv(envVarPrefix + v.name)
		if raw == "" {
			continue
		}
		if err := v.set(cfg, raw); err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", envVarPrefix, v.name, err))
			continue
		}
		applied[v.field] = true
	}
	return applied, errors.Join(errs...)
}

// EnvVarName returns the environment variable that sets field, or "".
func EnvVarName(field string) string {
	i := slices.IndexFunc(envVars, func(v envVar) bool { return v.field == field })
	if i < 0 {
		return ""
	}
	return envVarPrefix + envVars[i].name
}

// ListEnvVars returns every supported environment variable with its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envVars))
	for _, v := range envVars {
		vars[envVarPrefix+v.name] = v.description
	}
	return vars
}
