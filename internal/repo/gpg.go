package repo

import (
	"context"

	"github.com/aretw0/coldstore/pkg/shell"
)

// GPG encrypts and decrypts backup artifacts with a named key.
type GPG struct {
	Command *Command
}

// Encrypt writes an encrypted copy of in to out for the named recipient.
func (g *GPG) Encrypt(ctx context.Context, keyName, in, out string) error {
	_, err := g.Command.Execute(ctx, shell.Space(
		shell.Plain("gpg"),
		shell.Plain("--batch"),
		shell.Plain("--yes"),
		shell.Plain("--trust-model"),
		shell.Plain("always"),
		shell.Plain("--recipient"),
		shell.Plain(keyName),
		shell.Plain("--output"),
		shell.Plain(out),
		shell.Plain("--encrypt"),
		shell.Plain(in),
	))
	return err
}

// Decrypt writes a clear copy of in to out.
func (g *GPG) Decrypt(ctx context.Context, in, out string) error {
	_, err := g.Command.Execute(ctx, shell.Space(
		shell.Plain("gpg"),
		shell.Plain("--batch"),
		shell.Plain("--yes"),
		shell.Plain("--output"),
		shell.Plain(out),
		shell.Plain("--decrypt"),
		shell.Plain(in),
	))
	return err
}
