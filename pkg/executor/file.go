package executor

import (
	"context"
	"fmt"

	"github.com/yaklabco/locedit/internal/logging"
	"github.com/yaklabco/locedit/pkg/edit"
	"github.com/yaklabco/locedit/pkg/fsutil"
	"github.com/yaklabco/locedit/pkg/textbuf"
)

// processFile rewrites one file:
//  1. Open the file and remember its on-disk state.
//  2. Order the edits descending and resolve them to offsets.
//  3. Reject overlapping edits before anything is mutated.
//  4. Apply the edits, in memory or with one save per edit.
//  5. In dry-run mode, diff and stop.
//  6. Check the file was not modified concurrently.
//  7. Back up if enabled, then write atomically.
func (x *Executor) processFile(ctx context.Context, path string, edits []edit.Edit) FileOutcome {
	outcome := FileOutcome{Path: path, EditsPlanned: len(edits)}
	logger := logging.FromContext(ctx).With(logging.FieldPath, path)
	abs := x.resolvePath(path)

	buf, err := textbuf.Open(ctx, abs)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	spans, err := plan(buf, edits)
	if err != nil {
		outcome.Error = fmt.Errorf("%s: %w", path, err)
		return outcome
	}

	if x.opts.ReopenPerEdit && !x.opts.DryRun {
		outcome.Error = x.applyReopening(ctx, abs, buf.Snapshot(), spans, &outcome)
		logger.Debug("rewrote file", logging.FieldEdits, outcome.EditsApplied, logging.FieldReopen, true)
		return outcome
	}

	original := buf.Bytes()
	for _, span := range spans {
		if err := span.Apply(buf); err != nil {
			outcome.Error = err
			return outcome
		}
		outcome.EditsApplied++
	}

	if x.opts.DryRun {
		diff, err := edit.GenerateDiff(path, original, buf.Bytes())
		if err != nil {
			outcome.Error = err
			return outcome
		}
		outcome.Diff = diff
		logger.Debug("planned file", logging.FieldEdits, outcome.EditsApplied)
		return outcome
	}

	if err := x.checkUnchanged(ctx, path, buf.Snapshot()); err != nil {
		outcome.Error = err
		return outcome
	}

	outcome.BackupCreated, err = x.backup(ctx, abs)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	if err := buf.Save(ctx, abs); err != nil {
		outcome.Error = fmt.Errorf("%w: %w", ErrWriteFailure, err)
		return outcome
	}
	outcome.Written = true

	logger.Debug("rewrote file", logging.FieldEdits, outcome.EditsApplied, logging.FieldBackup, outcome.BackupCreated)
	return outcome
}

// plan orders edits for application and resolves them against buf.
func plan(buf *textbuf.Buffer, edits []edit.Edit) ([]edit.Span, error) {
	ordered := edit.SortDescending(edits)
	spans := make([]edit.Span, 0, len(ordered))
	for _, e := range ordered {
		span, err := e.Resolve(buf)
		if err != nil {
			return nil, err
		}
		if span.Start > span.End || span.End > buf.Len() {
			return nil, fmt.Errorf("resolve %s: %w: [%d, %d) (buffer has %d characters)",
				e, textbuf.ErrOutOfRange, span.Start, span.End, buf.Len())
		}
		spans = append(spans, span)
	}
	if err := edit.DetectConflicts(spans); err != nil {
		return nil, err
	}
	return spans, nil
}

// applyReopening applies spans one at a time, reopening and saving the file
// around each edit. Each edit is re-resolved from its line and column
// against the file as it is on disk at that moment.
func (x *Executor) applyReopening(
	ctx context.Context,
	abs string,
	snap *fsutil.Snapshot,
	spans []edit.Span,
	outcome *FileOutcome,
) error {
	if err := x.checkUnchanged(ctx, outcome.Path, snap); err != nil {
		return err
	}

	created, err := x.backup(ctx, abs)
	if err != nil {
		return err
	}
	outcome.BackupCreated = created

	for _, span := range spans {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("apply cancelled: %w", err)
		}

		buf, err := textbuf.Open(ctx, abs)
		if err != nil {
			return err
		}
		if err := span.Edit.Apply(buf); err != nil {
			return err
		}
		if err := buf.Save(ctx, abs); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteFailure, err)
		}
		outcome.EditsApplied++
		outcome.Written = true
	}
	return nil
}

func (x *Executor) checkUnchanged(ctx context.Context, path string, snap *fsutil.Snapshot) error {
	modified, err := fsutil.CheckModified(ctx, snap, x.opts.StrictRaceDetection)
	if err != nil {
		return fmt.Errorf("check modified %s: %w", path, err)
	}
	if modified {
		return fmt.Errorf("%w: %s", ErrConcurrentModification, path)
	}
	return nil
}

func (x *Executor) backup(ctx context.Context, abs string) (bool, error) {
	if !x.opts.Backup.Enabled {
		return false, nil
	}
	created, err := fsutil.CreateBackup(ctx, abs, x.opts.Backup)
	if err != nil {
		return false, fmt.Errorf("%w: backup: %w", ErrWriteFailure, err)
	}
	return created, nil
}
