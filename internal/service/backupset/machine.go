// Package backupset archives every database of a client: discover the
// databases, run the per-database backup machine for each, then apply the
// end-of-month and end-of-year retention policies to long-term storage.
// A failing database backup never stops the run; its failures ride along
// in the result stream while the remaining databases and the retention
// nodes still execute.
package backupset

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/coldstore/internal/service/backupdb"
	"github.com/aretw0/coldstore/pkg/machine"
)

// Name is the registered machine kind.
const Name = "BackupDatabases"

func init() {
	machine.Register(Name, func() machine.Spec {
		m := &builder{ctx: context.Background(), state: &State{}, deps: &Deps{}}
		return m.spec()
	})
}

// New builds the client-level archival machine.
func New(ctx context.Context, logger *slog.Logger, state *State, deps *Deps) (*machine.Machine, error) {
	b := &builder{ctx: ctx, state: state, deps: deps}
	m, err := machine.New(b.spec(), logger)
	b.machine = m
	return m, err
}

// builder holds what the node bodies close over; machine is assigned after
// construction so the invoking node can splice sub-streams.
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
		Overview:      "Archive every database of a client and apply the retention policies to long-term storage.",
		FailurePrefix: fmt.Sprintf("%s %s", state.Client(), state.Conn().Host),
		Nodes: []machine.Node{
			{
				Name:         "fetch_databases",
				Overview:     "Discover the databases to archive from the server catalog.",
				Entry:        true,
				HappyPaths:   []string{"backup_databases"},
				UnhappyPaths: []string{"end_of_month_retention"},
				OnException:  "end_of_month_retention",
				Body: func() (machine.Transition, error) {
					databases, err := deps.FetchDatabases(b.ctx, state.Conn())
					if err != nil {
						return machine.Transition{}, err
					}
					state.Databases = databases
					if len(databases) == 0 {
						return machine.Failure("end_of_month_retention", "no databases to backup"), nil
					}
					return machine.Success("backup_databases"), nil
				},
			},
			{
				Name:           "backup_databases",
				Overview:       "Run the per-database backup machine for each discovered database.",
				HappyPaths:     []string{"end_of_month_retention"},
				UnhappyPaths:   []string{"end_of_month_retention"},
				OnException:    "end_of_month_retention",
				InvokesMachine: backupdb.Name,
				Body: func() (machine.Transition, error) {
					for _, database := range state.Databases {
						sub, err := deps.BackupDatabase(b.ctx, b.machine.Logger(), state.DatabaseState(database))
						if err != nil {
							return machine.Transition{}, err
						}
						// Sub-failures already walked their own unhappy paths;
						// they ride along in the stream without diverting us.
						b.machine.Invoke(sub)
					}
					return machine.Success("end_of_month_retention"), nil
				},
			},
			{
				Name:         "end_of_month_retention",
				Overview:     "Select stale artifacts that are not the last backup of their month.",
				HappyPaths:   []string{"end_of_year_retention"},
				UnhappyPaths: []string{"end_of_year_retention"},
				OnException:  "end_of_year_retention",
				Body: func() (machine.Transition, error) {
					candidates, err := deps.EndOfMonthRetention(state.ClientStorageDir(), state.Stamp(), state.eomKeep)
					if err != nil {
						return machine.Transition{}, err
					}
					state.EomCandidates = candidates
					return machine.Success("end_of_year_retention"), nil
				},
			},
			{
				Name:         "end_of_year_retention",
				Overview:     "Select stale artifacts that are not the last backup of their year.",
				HappyPaths:   []string{"remove_eom_candidates"},
				UnhappyPaths: []string{"remove_eom_candidates"},
				OnException:  "remove_eom_candidates",
				Body: func() (machine.Transition, error) {
					candidates, err := deps.EndOfYearRetention(state.ClientStorageDir(), state.Stamp(), state.eoyKeep)
					if err != nil {
						return machine.Transition{}, err
					}
					state.EoyCandidates = candidates
					return machine.Success("remove_eom_candidates"), nil
				},
			},
			{
				Name:         "remove_eom_candidates",
				Overview:     "Delete the end-of-month deletion candidates.",
				HappyPaths:   []string{"remove_eoy_candidates"},
				UnhappyPaths: []string{"remove_eoy_candidates"},
				OnException:  "remove_eoy_candidates",
				Body: func() (machine.Transition, error) {
					if err := deps.RemoveEomCandidates(state.EomCandidates); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("remove_eoy_candidates"), nil
				},
			},
			{
				Name:         "remove_eoy_candidates",
				Overview:     "Delete the end-of-year deletion candidates.",
				HappyPaths:   []string{"report_results"},
				UnhappyPaths: []string{"report_results"},
				OnException:  "report_results",
				Body: func() (machine.Transition, error) {
					if err := deps.RemoveEoyCandidates(state.EoyCandidates); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("report_results"), nil
				},
			},
		},
	}
}
