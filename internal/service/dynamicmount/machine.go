// Package dynamicmount wraps another machine between a file-share mount and
// unmount. The inner machine's failures splice into the stream without
// diverting the wrapper; a failed mount skips the inner machine entirely,
// and the unmount runs on every path that acquired the mount.
package dynamicmount

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/coldstore/internal/repo"
	"github.com/aretw0/coldstore/pkg/machine"
	"github.com/aretw0/coldstore/pkg/shell"
)

// Name is the registered machine kind.
const Name = "DynamicMount"

func init() {
	machine.Register(Name, func() machine.Spec {
		b := &builder{ctx: context.Background(), state: &State{}, deps: &Deps{}}
		return b.spec()
	})
}

// State carries the mount parameters and the name of the wrapped machine.
type State struct {
	unc         string
	mountPath   string
	accountName string
	accountKey  shell.Secret
	userID      string
	inner       string
}

// NewState builds the wrapper state. inner names the machine kind the
// wrapper runs between mount and unmount.
func NewState(unc, mountPath, accountName string, accountKey shell.Secret, userID, inner string) *State {
	return &State{
		unc:         unc,
		mountPath:   mountPath,
		accountName: accountName,
		accountKey:  accountKey,
		userID:      userID,
		inner:       inner,
	}
}

// MountPath returns where the share attaches.
func (s *State) MountPath() string { return s.mountPath }

// Deps maps each node to the capability it dispatches. RunMachine is the
// factory for the wrapped machine.
type Deps struct {
	IsMounted  func(ctx context.Context, path string) (bool, error)
	Mount      func(ctx context.Context, unc, mountPath, accountName string, accountKey shell.Secret, userID string) error
	Unmount    func(ctx context.Context, mountPath string) error
	RunMachine func() (*machine.Machine, error)
}

// NewDeps binds the storage repository with the logger attached. RunMachine
// stays nil; the caller supplies the factory for the wrapped machine.
func NewDeps(logger *slog.Logger) *Deps {
	storage := &repo.Storage{Command: &repo.Command{Logger: logger}}
	return &Deps{
		IsMounted: storage.IsMounted,
		Mount:     storage.Mount,
		Unmount:   storage.Unmount,
	}
}

// New builds the wrapper machine.
func New(ctx context.Context, logger *slog.Logger, state *State, deps *Deps) (*machine.Machine, error) {
	b := &builder{ctx: ctx, state: state, deps: deps}
	m, err := machine.New(b.spec(), logger)
	b.machine = m
	return m, err
}

type builder struct {
	ctx     context.Context
	state   *State
	deps    *Deps
	machine *machine.Machine
}

func (b *builder) spec() machine.Spec {
	state, deps := b.state, b.deps
	return machine.Spec{
		Name:          Name,
		Overview:      "Mount the long-term file share, run the wrapped machine, and unmount.",
		FailurePrefix: fmt.Sprintf("mount %s", state.mountPath),
		Nodes: []machine.Node{
			{
				Name:         "mount_storage",
				Overview:     "Attach the file share unless it is already mounted.",
				Entry:        true,
				HappyPaths:   []string{"run_machine"},
				UnhappyPaths: []string{"report_results"},
				OnException:  "report_results",
				Body: func() (machine.Transition, error) {
					mounted, err := deps.IsMounted(b.ctx, state.mountPath)
					if err != nil {
						return machine.Transition{}, err
					}
					if !mounted {
						if err := deps.Mount(b.ctx, state.unc, state.mountPath,
							state.accountName, state.accountKey, state.userID); err != nil {
							return machine.Transition{}, err
						}
					}
					return machine.Success("run_machine"), nil
				},
			},
			{
				Name:           "run_machine",
				Overview:       "Run the wrapped machine against the mounted share.",
				HappyPaths:     []string{"unmount_storage"},
				UnhappyPaths:   []string{"unmount_storage"},
				OnException:    "unmount_storage",
				InvokesMachine: state.inner,
				Body: func() (machine.Transition, error) {
					inner, err := deps.RunMachine()
					if err != nil {
						return machine.Transition{}, err
					}
					b.machine.Invoke(inner)
					return machine.Success("unmount_storage"), nil
				},
			},
			{
				Name:         "unmount_storage",
				Overview:     "Detach the file share.",
				HappyPaths:   []string{"report_results"},
				UnhappyPaths: []string{"report_results"},
				OnException:  "report_results",
				Body: func() (machine.Transition, error) {
					if err := deps.Unmount(b.ctx, state.mountPath); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("report_results"), nil
				},
			},
		},
	}
}
