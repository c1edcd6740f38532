package file

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
)

// writeFileExclusive publishes data at path only if nothing exists there yet.
// The data is written and synced to a temp file in the same directory, then
// hard-linked into place; link(2) fails with EEXIST when the name is taken, so
// the final name never appears with partial contents.
func writeFileExclusive(path string, data []byte, perm os.FileMode, logger *slog.Logger) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".drivecreds-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Link(tmpName, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fs.ErrExist
		}
		// Some filesystems (FAT, certain FUSE mounts) refuse hard links.
		// Fall back to an exclusive create, which is still race-free.
		if errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.ENOTSUP) || errors.Is(err, syscall.EXDEV) {
			logger.Warn("hard link unsupported, falling back to exclusive create",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			return createExclusive(path, data, perm)
		}
		return err
	}

	syncDir(dir)
	return nil
}

// createExclusive writes data with O_EXCL. A failed write removes the file so
// no truncated record is left behind.
func createExclusive(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fs.ErrExist
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	syncDir(filepath.Dir(path))
	return nil
}

func syncDir(dir string) {
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
}
