package cli

import (
	"context"
	"errors"

	"github.com/yaklabco/locedit/internal/configloader"
	"github.com/yaklabco/locedit/pkg/edit"
	"github.com/yaklabco/locedit/pkg/executor"
	"github.com/yaklabco/locedit/pkg/fsutil"
	"github.com/yaklabco/locedit/pkg/oracle"
	"github.com/yaklabco/locedit/pkg/planner"
	"github.com/yaklabco/locedit/pkg/record"
	"github.com/yaklabco/locedit/pkg/rewrite"
	"github.com/yaklabco/locedit/pkg/textbuf"
)

// Exit codes for locedit.
const (
	// ExitSuccess indicates every selected pass completed.
	ExitSuccess = 0

	// ExitFailure is used for errors that fit no other category.
	ExitFailure = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitDataError indicates bad configuration, oracle output or records.
	ExitDataError = 65

	// ExitUnavailable indicates the oracle could not be run.
	ExitUnavailable = 69

	// ExitInternalError indicates an internal error, such as conflicting
	// edits produced by the planner.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74

	// ExitInterrupted indicates the run was cancelled.
	ExitInterrupted = 130
)

// ErrInvalidUsage marks errors caused by bad flags or arguments.
var ErrInvalidUsage = errors.New("invalid usage")

// ExitCodeFromError maps an error returned by a command to an exit code.
func ExitCodeFromError(err error) int {
	var conflict *edit.ConflictError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, ErrInvalidUsage),
		errors.Is(err, rewrite.ErrUnknownPass):
		return ExitInvalidUsage
	case errors.Is(err, configloader.ErrInvalidConfig),
		errors.Is(err, rewrite.ErrUnsupportedLanguage),
		errors.Is(err, oracle.ErrUnsupportedLanguage),
		errors.Is(err, oracle.ErrInvalidQuery),
		errors.Is(err, record.ErrMalformedMatch),
		errors.Is(err, record.ErrUnknownSymbol),
		errors.Is(err, record.ErrDuplicateSymbol),
		errors.Is(err, planner.ErrUnpairedAccessor),
		errors.Is(err, planner.ErrInvalidRecord):
		return ExitDataError
	case errors.Is(err, oracle.ErrOracleInvocation):
		return ExitUnavailable
	case errors.As(err, &conflict),
		errors.Is(err, edit.ErrInvalidEdit),
		errors.Is(err, textbuf.ErrOutOfRange):
		return ExitInternalError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, textbuf.ErrIO),
		errors.Is(err, executor.ErrWriteFailure),
		errors.Is(err, executor.ErrConcurrentModification):
		return ExitIOError
	default:
		return ExitFailure
	}
}
