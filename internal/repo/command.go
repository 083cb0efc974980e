package repo

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/aretw0/coldstore/pkg/shell"
)

// Command executes secret-bearing command lines. The display form of the
// line is what gets logged; the revealed argument vector exists only for
// the instant it is handed to the OS.
type Command struct {
	Logger *slog.Logger
}

// ExecOption adjusts a single execution.
type ExecOption func(*execConfig)

type execConfig struct {
	dir   string
	env   []envEntry
	stdin string
}

type envEntry struct {
	key   string
	value shell.Atom
}

// WithDir sets the working directory.
func WithDir(dir string) ExecOption {
	return func(c *execConfig) { c.dir = dir }
}

// WithEnv adds an environment variable. Secret values are revealed only at
// exec time and never logged.
func WithEnv(key string, value shell.Atom) ExecOption {
	return func(c *execConfig) { c.env = append(c.env, envEntry{key: key, value: value}) }
}

// WithStdin feeds the process input on stdin.
func WithStdin(input string) ExecOption {
	return func(c *execConfig) { c.stdin = input }
}

// Execute runs the command line and returns its stdout. A non-zero exit
// status is an error carrying the process stderr.
func (c *Command) Execute(ctx context.Context, line shell.SpaceDelimited, opts ...ExecOption) (string, error) {
	var cfg execConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	c.Logger.Debug("command started", "command", line.String())

	argv := line.RevealArgs()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = cfg.dir
	cmd.Env = os.Environ()
	for _, e := range cfg.env {
		cmd.Env = append(cmd.Env, e.key+"="+e.value.Reveal())
	}
	if cfg.stdin != "" {
		cmd.Stdin = strings.NewReader(cfg.stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	elapsed := time.Since(start)
	if err != nil {
		c.Logger.Debug("command failed", "command", line.String(), "elapsed", elapsed, "err", err)
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return "", fmt.Errorf("%s: %w", line.String(), err)
		}
		return "", fmt.Errorf("%s: %s", line.String(), detail)
	}

	c.Logger.Debug("command completed", "command", line.String(), "elapsed", elapsed)
	return stdout.String(), nil
}
