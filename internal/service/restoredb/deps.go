package restoredb

import (
	"context"
	"log/slog"

	"github.com/aretw0/coldstore/internal/repo"
)

// Deps maps each node to the capability it dispatches, named per call site
// for test substitution.
type Deps struct {
	CreateIntermediateDirectory func(path string) error
	FetchArchive                func(from, to string) error
	DecryptBackup               func(ctx context.Context, in, out string) error
	ExtractBackup               func(ctx context.Context, tarball, dir string) error
	RestoreSchema               func(ctx context.Context, conn repo.Connection, path string) error
	RestoreData                 func(ctx context.Context, conn repo.Connection, path string) error
	RemoveExtractedDirectory    func(path string) error
	RemoveTarball               func(path string) error
	RemoveEncryptedBackup       func(path string) error
	RemoveIntermediateDirectory func(path string) error
}

// NewDeps binds the real repositories with the logger attached.
func NewDeps(logger *slog.Logger) *Deps {
	command := &repo.Command{Logger: logger}
	files := &repo.FileManager{Logger: logger}
	gpg := &repo.GPG{Command: command}
	tar := &repo.Tar{Command: command}
	psql := &repo.Psql{Command: command}

	return &Deps{
		CreateIntermediateDirectory: files.MakeIfNotExists,
		FetchArchive:                files.Copy,
		DecryptBackup:               gpg.Decrypt,
		ExtractBackup:               tar.Extract,
		RestoreSchema:               psql.Restore,
		RestoreData:                 psql.Restore,
		RemoveExtractedDirectory:    files.RemoveDirIfExists,
		RemoveTarball:               files.RemoveIfExists,
		RemoveEncryptedBackup:       files.RemoveIfExists,
		RemoveIntermediateDirectory: files.RemoveDirIfExists,
	}
}
