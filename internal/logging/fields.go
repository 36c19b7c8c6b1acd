package logging

// Structured logging keys.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Run settings.
	FieldPass     = "pass"
	FieldOracle   = "oracle"
	FieldLanguage = "language"
	FieldDryRun   = "dry_run"
	FieldJobs     = "jobs"
	FieldReopen   = "reopen_per_edit"

	// Counters.
	FieldEdits         = "edits"
	FieldMatches       = "matches"
	FieldDefinitions   = "definitions"
	FieldCalls         = "calls"
	FieldFilesModified = "files_modified"
	FieldBackup        = "backup"

	// Build info.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
