package repo

import (
	"context"
	"strings"

	"github.com/aretw0/coldstore/pkg/shell"
)

// Storage mounts and unmounts the long-term file share.
type Storage struct {
	Command *Command
}

// IsMounted reports whether path is backed by a remote share.
func (s *Storage) IsMounted(ctx context.Context, path string) (bool, error) {
	out, err := s.Command.Execute(ctx, shell.Space(
		shell.Plain("findmnt"),
		shell.Plain("-T"),
		shell.Plain(path),
	))
	if err != nil {
		return false, err
	}

	lines := strings.Split(out, "\n")
	if len(lines) < 2 {
		return false, nil
	}
	sourceStart := strings.Index(lines[0], "SOURCE")
	if sourceStart < 0 || len(lines[1]) <= sourceStart {
		return false, nil
	}
	return strings.HasPrefix(lines[1][sourceStart:], "//"), nil
}

// Mount attaches a cifs file share. The account key travels as a secret
// fragment so the mount line logs masked.
func (s *Storage) Mount(ctx context.Context, unc, mountPath, accountName string, accountKey shell.Secret, userID string) error {
	_, err := s.Command.Execute(ctx, shell.Space(
		shell.Plain("sudo"),
		shell.Plain("-S"),
		shell.Plain("mount"),
		shell.Plain("-t"),
		shell.Plain("cifs"),
		shell.Plain(unc),
		shell.Plain(mountPath),
		shell.Plain("-o"),
		shell.Comma(
			shell.Equal("username", shell.Plain(accountName)),
			shell.Equal("password", accountKey),
			shell.Plain("serverino"),
			shell.Plain("nosharesock"),
			shell.Equal("actimeo", shell.Plain("30")),
			shell.Plain("mfsymlinks"),
			shell.Equal("uid", shell.Plain(userID)),
			shell.Equal("gid", shell.Plain(userID)),
		),
	))
	return err
}

// Unmount detaches the file share if it is mounted.
func (s *Storage) Unmount(ctx context.Context, mountPath string) error {
	mounted, err := s.IsMounted(ctx, mountPath)
	if err != nil || !mounted {
		return err
	}
	_, err = s.Command.Execute(ctx, shell.Space(
		shell.Plain("sudo"),
		shell.Plain("-S"),
		shell.Plain("umount"),
		shell.Plain(mountPath),
	))
	return err
}
