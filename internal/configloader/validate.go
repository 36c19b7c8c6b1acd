package configloader

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/locedit/pkg/config"
	"github.com/yaklabco/locedit/pkg/oracle"
	"github.com/yaklabco/locedit/pkg/rewrite"
)

// ErrInvalidConfig indicates a configuration that cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "oracle.mode").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err joins every error into one, wrapped in ErrInvalidConfig.
// It returns nil when the configuration is valid.
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for i := range r.Errors {
		errs = append(errs, &r.Errors[i])
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings. Every problem is
// reported, not just the first.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	validateRoot(cfg, result)

	if !slices.Contains(oracle.Languages(), strings.ToLower(cfg.Language)) {
		result.fail("language", cfg.Language, "unsupported language %q; must be one of: %s",
			cfg.Language, strings.Join(oracle.Languages(), ", "))
	}

	if !cfg.Oracle.Mode.IsValid() {
		result.fail("oracle.mode", cfg.Oracle.Mode, "invalid oracle mode %q; must be one of: treesitter, exec",
			cfg.Oracle.Mode)
	}
	if cfg.Oracle.Mode == config.OracleExec && cfg.Oracle.Binary == "" {
		result.fail("oracle.binary", cfg.Oracle.Binary, "exec mode needs a binary")
	}

	if strings.TrimSpace(cfg.DefinitionQuery) == "" {
		result.fail("definition_query", cfg.DefinitionQuery, "must not be empty")
	}
	if len(cfg.DefinitionPaths) == 0 {
		result.fail("definition_paths", cfg.DefinitionPaths, "at least one path is required")
	}
	if len(cfg.CallPaths) == 0 {
		result.fail("call_paths", cfg.CallPaths, "at least one path is required")
	}

	if strings.TrimSpace(cfg.Keyword) == "" {
		result.fail("keyword", cfg.Keyword, "must not be empty")
	}
	if _, err := regexp.Compile(cfg.Identifier); err != nil {
		result.fail("identifier", cfg.Identifier, "invalid regular expression: %v", err)
	}
	if cfg.Suffix == "" {
		result.fail("suffix", cfg.Suffix, "must not be empty")
	}
	if cfg.Accessor == "" {
		result.fail("accessor", cfg.Accessor, "must not be empty")
	}
	if cfg.Marker == "" {
		result.fail("marker", cfg.Marker, "must not be empty")
	} else if strings.Contains(cfg.Marker, "\n") {
		result.fail("marker", cfg.Marker, "must be a single line")
	}

	validatePasses(cfg, result)

	if cfg.Jobs < 1 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 1")
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: text, json, diff", cfg.Format)
	}
	if cfg.ReopenPerEdit && cfg.DryRun {
		result.warn("reopen_per_edit", cfg.ReopenPerEdit, "ignored in dry-run mode")
	}

	return result
}

func validateRoot(cfg *config.Config, result *ValidationResult) {
	if cfg.Root == "" {
		result.fail("root", cfg.Root, "must not be empty")
		return
	}
	info, err := os.Stat(cfg.Root)
	switch {
	case err != nil:
		result.fail("root", cfg.Root, "cannot be read: %v", err)
	case !info.IsDir():
		result.fail("root", cfg.Root, "is not a directory")
	}
}

func validatePasses(cfg *config.Config, result *ValidationResult) {
	if len(cfg.Passes) == 0 {
		result.fail("passes", cfg.Passes, "at least one pass is required")
		return
	}

	seen := make(map[rewrite.Pass]bool, len(cfg.Passes))
	for i, name := range cfg.Passes {
		pass, err := rewrite.ParsePass(name)
		if err != nil {
			result.fail(fmt.Sprintf("passes[%d]", i), name, "unknown pass %q; must be one of: definitions, calls, unwrap", name)
			continue
		}
		if seen[pass] {
			result.warn(fmt.Sprintf("passes[%d]", i), name, "pass %q listed twice", name)
		}
		seen[pass] = true
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
