package executor

import "github.com/yaklabco/locedit/pkg/edit"

// FileOutcome is what happened to one file of a batch.
type FileOutcome struct {
	// Path is the file path as named by the edits.
	Path string

	// EditsPlanned is the number of edits targeting the file.
	EditsPlanned int

	// EditsApplied is the number of edits applied, in memory or on disk.
	EditsApplied int

	// Written is true if the file was overwritten.
	Written bool

	// BackupCreated is true if a sidecar backup was written.
	BackupCreated bool

	// Diff is the change set, populated in dry-run mode.
	Diff *edit.Diff

	// Error is set if the file could not be processed.
	Error error
}

// Summary returns a short human-readable status.
func (o *FileOutcome) Summary() string {
	switch {
	case o.Error != nil:
		return "failed"
	case o.Written && o.BackupCreated:
		return "rewritten (backup created)"
	case o.Written:
		return "rewritten"
	case o.Diff.HasChanges():
		return "changes pending"
	default:
		return "unchanged"
	}
}

// Stats aggregates a batch.
type Stats struct {
	FilesPlanned   int
	FilesProcessed int
	FilesModified  int
	FilesErrored   int
	EditsPlanned   int
	EditsApplied   int
	BackupsCreated int
}

// Result is the outcome of Executor.Apply. Files are ordered by path and
// only include files whose processing started.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasChanges reports whether any file was, or in dry-run mode would be,
// modified.
func (r *Result) HasChanges() bool {
	if r == nil {
		return false
	}
	for i := range r.Files {
		if r.Files[i].Written || r.Files[i].Diff.HasChanges() {
			return true
		}
	}
	return false
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)
	r.Stats.EditsApplied += outcome.EditsApplied

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	r.Stats.FilesProcessed++
	if outcome.Written {
		r.Stats.FilesModified++
	}
	if outcome.BackupCreated {
		r.Stats.BackupsCreated++
	}
}
