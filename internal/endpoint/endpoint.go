// Package endpoint bridges a machine run to the hosting process: failures
// go to stdout, the failure count becomes the exit code.
package endpoint

import (
	"log/slog"
	"os"

	"github.com/muesli/termenv"

	"github.com/aretw0/coldstore/internal/repo"
	"github.com/aretw0/coldstore/pkg/machine"
)

// Deps maps the process-boundary actions, substitutable in tests so an
// end-point run neither prints nor exits for real.
type Deps struct {
	WriteToStdout func(content string)
	Exit          func(code int)
}

// NewDeps binds the real process repository with the logger attached.
func NewDeps(logger *slog.Logger) *Deps {
	process := &repo.Process{Logger: logger}
	return &Deps{
		WriteToStdout: process.WriteToStdout,
		Exit:          process.Exit,
	}
}

// EndPoint executes a machine and reports its outcome to the process.
type EndPoint struct {
	logger  *slog.Logger
	machine *machine.Machine
	deps    *Deps
	output  *termenv.Output
}

// New wraps a machine for process-level execution.
func New(logger *slog.Logger, m *machine.Machine, deps *Deps) *EndPoint {
	return &EndPoint{
		logger:  logger,
		machine: m,
		deps:    deps,
		output:  termenv.NewOutput(os.Stdout),
	}
}

// Execute runs the machine, writes each failure's display string to stdout,
// and exits with the failure count; zero means all green.
func (e *EndPoint) Execute() {
	results := e.machine.Execute()
	failures := machine.Failures(results)

	for _, failure := range failures {
		e.logger.Error("failure", "node", failure.Node, "message", failure.Message)
		e.deps.WriteToStdout(e.paint("Failure: " + failure.String()))
	}

	e.deps.Exit(len(failures))
}

// paint tints failure lines red when the terminal supports it.
func (e *EndPoint) paint(content string) string {
	return e.output.String(content).Foreground(e.output.Color("1")).String()
}
