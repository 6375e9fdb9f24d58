// Package fileutil provides file copy and backup-name helpers for the
// user-tier configuration operations.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"time"
)

// BackupTimeFormat is the timestamp suffix applied to configuration backups.
// Second precision: distinct runs separated by at least one second produce
// distinct backup names.
const BackupTimeFormat = "20060102-150405"

// BackupPath derives the timestamped backup name for path.
func BackupPath(path string, at time.Time) string {
	return fmt.Sprintf("%s.bak.%s", path, at.Format(BackupTimeFormat))
}

// CopyFile streams src to dst with default permissions (0o644).
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
