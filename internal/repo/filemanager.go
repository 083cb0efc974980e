package repo

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// FileManager performs local filesystem operations. Creates and removes are
// idempotent: creates tolerate existing targets and removes tolerate
// missing ones, so cleanup chains can run twice. Move is not: once the
// source is gone, a second Move returns an error.
type FileManager struct {
	Logger *slog.Logger
}

// MakeIfNotExists creates a directory (and parents) if it is not already
// there.
func (f *FileManager) MakeIfNotExists(path string) error {
	f.Logger.Debug("make directory", "path", path)
	return os.MkdirAll(path, 0o750)
}

// RemoveIfExists removes a file, tolerating its absence.
func (f *FileManager) RemoveIfExists(path string) error {
	f.Logger.Debug("remove file", "path", path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveDirIfExists removes a directory tree, tolerating its absence.
func (f *FileManager) RemoveDirIfExists(path string) error {
	f.Logger.Debug("remove directory", "path", path)
	return os.RemoveAll(path)
}

// Move relocates a file, crossing filesystems when rename cannot.
func (f *FileManager) Move(from, to string) error {
	f.Logger.Debug("move file", "from", from, "to", to)
	if err := os.Rename(from, to); err == nil {
		return nil
	}
	// Rename across devices fails; fall back to copy plus remove.
	in, err := os.Open(from)
	if err != nil {
		return fmt.Errorf("move %s: %w", from, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(to), 0o750); err != nil {
		return err
	}
	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("move to %s: %w", to, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("move %s to %s: %w", from, to, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(from)
}

// Copy duplicates a file, creating the destination directory as needed.
func (f *FileManager) Copy(from, to string) error {
	f.Logger.Debug("copy file", "from", from, "to", to)
	in, err := os.Open(from)
	if err != nil {
		return fmt.Errorf("copy %s: %w", from, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(to), 0o750); err != nil {
		return err
	}
	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("copy to %s: %w", to, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s to %s: %w", from, to, err)
	}
	return out.Close()
}
