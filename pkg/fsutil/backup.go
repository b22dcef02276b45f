package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"
)

// BackupSuffix is appended to a file's path to name its backup.
const BackupSuffix = ".gocst.bak"

// BackupPath returns the sidecar backup path for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// CreateBackup copies path to its sidecar backup unless a backup already
// exists, so repeated fix runs keep the first original. It reports whether
// a backup was written.
func CreateBackup(ctx context.Context, fsys afero.Fs, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}

	backupPath := BackupPath(path)
	if _, err := fsys.Stat(backupPath); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat backup path: %w", err)
	}

	stat, err := fsys.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat original for backup: %w", err)
	}
	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return false, fmt.Errorf("read original for backup: %w", err)
	}

	if err := WriteAtomic(ctx, fsys, backupPath, content, stat.Mode()); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}

// RestoreBackup writes the backup of path back over path and removes the
// backup. It reports whether a backup existed.
func RestoreBackup(ctx context.Context, fsys afero.Fs, path string) (bool, error) {
	backupPath := BackupPath(path)
	stat, err := fsys.Stat(backupPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat backup: %w", err)
	}
	content, err := afero.ReadFile(fsys, backupPath)
	if err != nil {
		return false, fmt.Errorf("read backup: %w", err)
	}
	if err := WriteAtomic(ctx, fsys, path, content, stat.Mode()); err != nil {
		return false, fmt.Errorf("restore from backup: %w", err)
	}
	if err := fsys.Remove(backupPath); err != nil {
		return true, fmt.Errorf("remove backup: %w", err)
	}
	return true, nil
}
