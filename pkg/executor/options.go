// Package executor applies batches of located edits to files on disk.
package executor

import "github.com/yaklabco/locedit/pkg/fsutil"

// DefaultJobs is the number of files processed concurrently when Options.Jobs
// is not set.
const DefaultJobs = 1

// Options controls how a batch is applied.
type Options struct {
	// Root is the directory relative edit paths are resolved against.
	// Empty means the process working directory.
	Root string

	// DryRun computes the edited contents and a diff without writing.
	DryRun bool

	// Backup configures sidecar backups taken before a file is overwritten.
	Backup fsutil.BackupConfig

	// Jobs bounds the number of files processed concurrently.
	// 0 or negative means DefaultJobs.
	Jobs int

	// ReopenPerEdit opens, splices and saves the file once per edit instead
	// of once per file. The result is identical; only the I/O pattern
	// differs.
	ReopenPerEdit bool

	// StrictRaceDetection compares content hashes, not only size and mtime,
	// when checking for concurrent modification before writing.
	StrictRaceDetection bool
}

func (o Options) jobs() int {
	if o.Jobs <= 0 {
		return DefaultJobs
	}
	return o.Jobs
}
