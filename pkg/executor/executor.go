package executor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/locedit/internal/logging"
	"github.com/yaklabco/locedit/pkg/edit"
)

// Sentinel errors for categorization via errors.Is.
var (
	// ErrConcurrentModification indicates a file changed on disk between
	// being read and being written.
	ErrConcurrentModification = errors.New("file modified during rewrite")

	// ErrWriteFailure indicates a backup or the rewritten file could not be
	// written.
	ErrWriteFailure = errors.New("write failure")
)

// Executor applies edit batches. Callers may pass edits in any order; each
// file's edits are applied from the end of the file towards its start so
// that every edit sees the coordinates it was planned against.
type Executor struct {
	opts Options
}

// New creates an Executor.
func New(opts Options) *Executor {
	return &Executor{opts: opts}
}

// Options returns the executor's configuration.
func (x *Executor) Options() Options {
	return x.opts
}

// Apply validates every edit, then rewrites each affected file. The first
// failure stops the batch: files already rewritten stay rewritten, files not
// yet started are left alone. The partial Result is returned with the error.
func (x *Executor) Apply(ctx context.Context, edits []edit.Edit) (*Result, error) {
	if err := edit.Validate(edits); err != nil {
		return nil, err
	}

	paths, groups := edit.GroupByPath(edits)
	result := &Result{
		Files: make([]FileOutcome, 0, len(paths)),
		Stats: Stats{FilesPlanned: len(paths), EditsPlanned: len(edits)},
	}
	if len(paths) == 0 {
		return result, nil
	}

	logger := logging.FromContext(ctx)
	logger.Debug("applying batch",
		logging.FieldFiles, len(paths),
		logging.FieldEdits, len(edits),
		logging.FieldJobs, x.opts.jobs(),
		logging.FieldDryRun, x.opts.DryRun,
		logging.FieldReopen, x.opts.ReopenPerEdit,
	)

	outcomes := make([]*FileOutcome, len(paths))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(x.opts.jobs())

	for i, path := range paths {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}
			outcome := x.processFile(groupCtx, path, groups[path])
			outcomes[i] = &outcome
			return outcome.Error
		})
	}
	err := group.Wait()

	for _, outcome := range outcomes {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}

	if err == nil && ctx.Err() != nil {
		err = fmt.Errorf("apply cancelled: %w", ctx.Err())
	}
	return result, err
}

// resolvePath joins relative edit paths onto Root.
func (x *Executor) resolvePath(path string) string {
	if filepath.IsAbs(path) || x.opts.Root == "" {
		return path
	}
	return filepath.Join(x.opts.Root, path)
}
