package fsutil

import (
	"context"
	"fmt"
	"os"
)

// BackupSuffix is appended to a file's path to form its sidecar backup.
const BackupSuffix = ".locedit.bak"

// BackupConfig controls whether the executor keeps a pristine copy of each
// file it rewrites.
type BackupConfig struct {
	Enabled bool
}

// BackupPath returns the sidecar backup path for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// CreateBackup copies path to its sidecar backup unless one already exists,
// so repeated runs keep the oldest content. It reports whether a backup was
// written.
func CreateBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	if !cfg.Enabled {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}

	backupPath := BackupPath(path)
	if _, err := os.Stat(backupPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat backup path: %w", err)
	}

	content, snap, err := ReadFile(ctx, path)
	if err != nil {
		return false, fmt.Errorf("read original for backup: %w", err)
	}

	if err := WriteAtomic(ctx, backupPath, content, snap.Mode); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}
