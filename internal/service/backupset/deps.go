package backupset

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/coldstore/internal/repo"
	"github.com/aretw0/coldstore/internal/service/backupdb"
	"github.com/aretw0/coldstore/pkg/machine"
)

// Deps maps each node to the capability it dispatches. BackupDatabase is a
// factory: the invoking node builds one sub-machine per discovered
// database, so tests can hand back machines wired with their own doubles.
type Deps struct {
	FetchDatabases      func(ctx context.Context, conn repo.Connection) ([]string, error)
	BackupDatabase      func(ctx context.Context, logger *slog.Logger, state *backupdb.State) (*machine.Machine, error)
	EndOfMonthRetention func(dir string, now time.Time, keep time.Duration) ([]string, error)
	EndOfYearRetention  func(dir string, now time.Time, keep time.Duration) ([]string, error)
	RemoveEomCandidates func(paths []string) error
	RemoveEoyCandidates func(paths []string) error
}

// NewDeps binds the real repositories with the logger attached.
func NewDeps(logger *slog.Logger) *Deps {
	catalog := &repo.Catalog{Logger: logger}
	retention := &repo.Retention{Logger: logger}
	files := &repo.FileManager{Logger: logger}

	removeAll := func(paths []string) error {
		for _, path := range paths {
			if err := files.RemoveIfExists(path); err != nil {
				return err
			}
		}
		return nil
	}

	return &Deps{
		FetchDatabases: catalog.ListDatabases,
		BackupDatabase: func(ctx context.Context, logger *slog.Logger, state *backupdb.State) (*machine.Machine, error) {
			return backupdb.New(ctx, logger, state, backupdb.NewDeps(logger))
		},
		EndOfMonthRetention: retention.EndOfMonthCandidates,
		EndOfYearRetention:  retention.EndOfYearCandidates,
		RemoveEomCandidates: removeAll,
		RemoveEoyCandidates: removeAll,
	}
}
