package backupdb

import (
	"context"
	"log/slog"

	"github.com/aretw0/coldstore/internal/repo"
)

// Deps maps each node to the capability it dispatches. Field names follow
// node names, not repository names, so a test can substitute one call site
// (say CreatePgDumpDirectory) while the sibling sites keep the real
// behavior, even when several fields point at the same capability.
type Deps struct {
	CreateIntermediateDirectory func(path string) error
	CreatePgDumpDirectory       func(path string) error
	BackupSchema                func(ctx context.Context, conn repo.Connection, path string) error
	BackupData                  func(ctx context.Context, conn repo.Connection, path string) error
	Compress                    func(ctx context.Context, dir, tarball string) error
	Encrypt                     func(ctx context.Context, keyName, in, out string) error
	CreateStorageDirectory      func(path string) error
	MoveBackup                  func(from, to string) error
	RemoveEncryptedBackup       func(path string) error
	RemoveTarball               func(path string) error
	RemoveDataFile              func(path string) error
	RemoveSchemaFile            func(path string) error
	RemovePgDumpDirectory       func(path string) error
	RemoveIntermediateDirectory func(path string) error
}

// NewDeps binds the real repositories with the logger attached.
func NewDeps(logger *slog.Logger) *Deps {
	command := &repo.Command{Logger: logger}
	files := &repo.FileManager{Logger: logger}
	dump := &repo.PgDump{Command: command}
	tar := &repo.Tar{Command: command}
	gpg := &repo.GPG{Command: command}

	return &Deps{
		CreateIntermediateDirectory: files.MakeIfNotExists,
		CreatePgDumpDirectory:       files.MakeIfNotExists,
		BackupSchema:                dump.DumpSchema,
		BackupData:                  dump.DumpData,
		Compress:                    tar.Create,
		Encrypt:                     gpg.Encrypt,
		CreateStorageDirectory:      files.MakeIfNotExists,
		MoveBackup:                  files.Move,
		RemoveEncryptedBackup:       files.RemoveIfExists,
		RemoveTarball:               files.RemoveIfExists,
		RemoveDataFile:              files.RemoveIfExists,
		RemoveSchemaFile:            files.RemoveIfExists,
		RemovePgDumpDirectory:       files.RemoveDirIfExists,
		RemoveIntermediateDirectory: files.RemoveDirIfExists,
	}
}
