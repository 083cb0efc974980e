// Package backupdb archives a single database: dump schema and data,
// compress, encrypt, move the artifact to long-term storage, then clean up
// every intermediate file. Every resource acquired on the happy path has a
// release node on both the happy continuation and every unhappy path, so a
// failed run leaves nothing behind.
package backupdb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/coldstore/pkg/machine"
)

// Name is the registered machine kind.
const Name = "BackupDatabase"

func init() {
	machine.Register(Name, func() machine.Spec {
		return spec(context.Background(), &State{}, &Deps{})
	})
}

// New builds the backup machine for one database.
func New(ctx context.Context, logger *slog.Logger, state *State, deps *Deps) (*machine.Machine, error) {
	return machine.New(spec(ctx, state, deps), logger)
}

func spec(ctx context.Context, state *State, deps *Deps) machine.Spec {
	return machine.Spec{
		Name:     Name,
		Overview: "Dump, compress, encrypt, and archive one database, then remove every intermediate artifact.",
		FailurePrefix: fmt.Sprintf("%s %s %s",
			state.Client(), state.Conn().Host, state.Conn().Database),
		Nodes: []machine.Node{
			{
				Name:         "create_intermediate_directory",
				Overview:     "Create the per-run scratch directory.",
				Entry:        true,
				HappyPaths:   []string{"create_pg_dump_directory"},
				UnhappyPaths: []string{"remove_intermediate_directory"},
				OnException:  "remove_intermediate_directory",
				Body: func() (machine.Transition, error) {
					if err := deps.CreateIntermediateDirectory(state.IntermediateDir()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("create_pg_dump_directory"), nil
				},
			},
			{
				Name:         "create_pg_dump_directory",
				Overview:     "Create the directory the SQL renderings land in.",
				HappyPaths:   []string{"backup_schema"},
				UnhappyPaths: []string{"remove_pg_dump_directory"},
				OnException:  "remove_pg_dump_directory",
				Body: func() (machine.Transition, error) {
					if err := deps.CreatePgDumpDirectory(state.PgDumpDir()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("backup_schema"), nil
				},
			},
			{
				Name:         "backup_schema",
				Overview:     "Dump the database schema, without ownership.",
				HappyPaths:   []string{"backup_data"},
				UnhappyPaths: []string{"remove_schema_file"},
				OnException:  "remove_schema_file",
				Body: func() (machine.Transition, error) {
					if err := deps.BackupSchema(ctx, state.Conn(), state.SchemaFile()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("backup_data"), nil
				},
			},
			{
				Name:         "backup_data",
				Overview:     "Dump the database contents.",
				HappyPaths:   []string{"compress"},
				UnhappyPaths: []string{"remove_data_file"},
				OnException:  "remove_data_file",
				Body: func() (machine.Transition, error) {
					if err := deps.BackupData(ctx, state.Conn(), state.DataFile()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("compress"), nil
				},
			},
			{
				Name:         "compress",
				Overview:     "Tar and gzip the dump directory into one artifact.",
				HappyPaths:   []string{"encrypt"},
				UnhappyPaths: []string{"remove_tarball"},
				OnException:  "remove_tarball",
				Body: func() (machine.Transition, error) {
					if err := deps.Compress(ctx, state.PgDumpDir(), state.Tarball()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("encrypt"), nil
				},
			},
			{
				Name:         "encrypt",
				Overview:     "Encrypt the tarball for the archival key.",
				HappyPaths:   []string{"create_storage_directory"},
				UnhappyPaths: []string{"remove_encrypted_backup"},
				OnException:  "remove_encrypted_backup",
				Body: func() (machine.Transition, error) {
					if err := deps.Encrypt(ctx, state.GPGKey(), state.Tarball(), state.EncryptedFile()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("create_storage_directory"), nil
				},
			},
			{
				Name:         "create_storage_directory",
				Overview:     "Create the database's directory on long-term storage.",
				HappyPaths:   []string{"move_backup"},
				UnhappyPaths: []string{"remove_encrypted_backup"},
				OnException:  "remove_encrypted_backup",
				Body: func() (machine.Transition, error) {
					if err := deps.CreateStorageDirectory(state.StorageDir()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("move_backup"), nil
				},
			},
			{
				Name:         "move_backup",
				Overview:     "Move the encrypted artifact to long-term storage.",
				HappyPaths:   []string{"remove_encrypted_backup"},
				UnhappyPaths: []string{"remove_encrypted_backup"},
				OnException:  "remove_encrypted_backup",
				Body: func() (machine.Transition, error) {
					if err := deps.MoveBackup(state.EncryptedFile(), state.StorageFile()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("remove_encrypted_backup"), nil
				},
			},
			{
				Name:         "remove_encrypted_backup",
				Overview:     "Remove the local encrypted artifact if it is still there.",
				HappyPaths:   []string{"remove_tarball"},
				UnhappyPaths: []string{"remove_tarball"},
				OnException:  "remove_tarball",
				Body: func() (machine.Transition, error) {
					if err := deps.RemoveEncryptedBackup(state.EncryptedFile()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("remove_tarball"), nil
				},
			},
			{
				Name:         "remove_tarball",
				Overview:     "Remove the tarball if it is still there.",
				HappyPaths:   []string{"remove_data_file"},
				UnhappyPaths: []string{"remove_data_file"},
				OnException:  "remove_data_file",
				Body: func() (machine.Transition, error) {
					if err := deps.RemoveTarball(state.Tarball()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("remove_data_file"), nil
				},
			},
			{
				Name:         "remove_data_file",
				Overview:     "Remove the data dump if it is still there.",
				HappyPaths:   []string{"remove_schema_file"},
				UnhappyPaths: []string{"remove_schema_file"},
				OnException:  "remove_schema_file",
				Body: func() (machine.Transition, error) {
					if err := deps.RemoveDataFile(state.DataFile()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("remove_schema_file"), nil
				},
			},
			{
				Name:         "remove_schema_file",
				Overview:     "Remove the schema dump if it is still there.",
				HappyPaths:   []string{"remove_pg_dump_directory"},
				UnhappyPaths: []string{"remove_pg_dump_directory"},
				OnException:  "remove_pg_dump_directory",
				Body: func() (machine.Transition, error) {
					if err := deps.RemoveSchemaFile(state.SchemaFile()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("remove_pg_dump_directory"), nil
				},
			},
			{
				Name:         "remove_pg_dump_directory",
				Overview:     "Remove the dump directory if it is still there.",
				HappyPaths:   []string{"remove_intermediate_directory"},
				UnhappyPaths: []string{"remove_intermediate_directory"},
				OnException:  "remove_intermediate_directory",
				Body: func() (machine.Transition, error) {
					if err := deps.RemovePgDumpDirectory(state.PgDumpDir()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("remove_intermediate_directory"), nil
				},
			},
			{
				Name:         "remove_intermediate_directory",
				Overview:     "Remove the per-run scratch directory if it is still there.",
				HappyPaths:   []string{"report_results"},
				UnhappyPaths: []string{"report_results"},
				OnException:  "report_results",
				Body: func() (machine.Transition, error) {
					if err := deps.RemoveIntermediateDirectory(state.IntermediateDir()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("report_results"), nil
				},
			},
		},
	}
}
