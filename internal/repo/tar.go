package repo

import (
	"context"
	"os"

	"github.com/aretw0/coldstore/pkg/shell"
)

// Tar creates and unpacks the backup tarballs.
type Tar struct {
	Command *Command
}

// Create packs the contents of dir into tarball (gzip compressed).
func (t *Tar) Create(ctx context.Context, dir, tarball string) error {
	_, err := t.Command.Execute(ctx, shell.Space(
		shell.Plain("tar"),
		shell.Plain("-czf"),
		shell.Plain(tarball),
		shell.Plain("-C"),
		shell.Plain(dir),
		shell.Plain("."),
	))
	return err
}

// Extract unpacks tarball into dir, creating dir as needed.
func (t *Tar) Extract(ctx context.Context, tarball, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	_, err := t.Command.Execute(ctx, shell.Space(
		shell.Plain("tar"),
		shell.Plain("-xzf"),
		shell.Plain(tarball),
		shell.Plain("-C"),
		shell.Plain(dir),
	))
	return err
}
