// Package restoredb is the symmetric counterpart to backupdb: fetch an
// archived artifact from long-term storage, decrypt and unpack it, replay
// schema and data into the target database, then remove every intermediate
// file. The cleanup chain is shared between the happy path and every
// unhappy path.
package restoredb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/coldstore/pkg/machine"
)

// Name is the registered machine kind.
const Name = "RestoreDatabase"

func init() {
	machine.Register(Name, func() machine.Spec {
		return spec(context.Background(), &State{}, &Deps{})
	})
}

// New builds the restore machine for one database.
func New(ctx context.Context, logger *slog.Logger, state *State, deps *Deps) (*machine.Machine, error) {
	return machine.New(spec(ctx, state, deps), logger)
}

func spec(ctx context.Context, state *State, deps *Deps) machine.Spec {
	return machine.Spec{
		Name:     Name,
		Overview: "Fetch, decrypt, and unpack an archived artifact, replay it into the target database, then remove every intermediate file.",
		FailurePrefix: fmt.Sprintf("%s %s %s",
			state.Client(), state.Conn().Host, state.Conn().Database),
		Nodes: []machine.Node{
			{
				Name:         "create_intermediate_directory",
				Overview:     "Create the per-run scratch directory.",
				Entry:        true,
				HappyPaths:   []string{"fetch_archive"},
				UnhappyPaths: []string{"remove_intermediate_directory"},
				OnException:  "remove_intermediate_directory",
				Body: func() (machine.Transition, error) {
					if err := deps.CreateIntermediateDirectory(state.IntermediateDir()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("fetch_archive"), nil
				},
			},
			{
				Name:         "fetch_archive",
				Overview:     "Copy the archived artifact from long-term storage.",
				HappyPaths:   []string{"decrypt_backup"},
				UnhappyPaths: []string{"remove_encrypted_backup"},
				OnException:  "remove_encrypted_backup",
				Body: func() (machine.Transition, error) {
					if err := deps.FetchArchive(state.StorageFile(), state.EncryptedFile()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("decrypt_backup"), nil
				},
			},
			{
				Name:         "decrypt_backup",
				Overview:     "Decrypt the artifact back into a tarball.",
				HappyPaths:   []string{"extract_backup"},
				UnhappyPaths: []string{"remove_tarball"},
				OnException:  "remove_tarball",
				Body: func() (machine.Transition, error) {
					if err := deps.DecryptBackup(ctx, state.EncryptedFile(), state.Tarball()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("extract_backup"), nil
				},
			},
			{
				Name:         "extract_backup",
				Overview:     "Unpack the SQL renderings from the tarball.",
				HappyPaths:   []string{"restore_schema"},
				UnhappyPaths: []string{"remove_extracted_directory"},
				OnException:  "remove_extracted_directory",
				Body: func() (machine.Transition, error) {
					if err := deps.ExtractBackup(ctx, state.Tarball(), state.ExtractDir()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("restore_schema"), nil
				},
			},
			{
				Name:         "restore_schema",
				Overview:     "Replay the schema into the target database.",
				HappyPaths:   []string{"restore_data"},
				UnhappyPaths: []string{"remove_extracted_directory"},
				OnException:  "remove_extracted_directory",
				Body: func() (machine.Transition, error) {
					if err := deps.RestoreSchema(ctx, state.Conn(), state.SchemaFile()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("restore_data"), nil
				},
			},
			{
				Name:         "restore_data",
				Overview:     "Replay the data into the target database.",
				HappyPaths:   []string{"remove_extracted_directory"},
				UnhappyPaths: []string{"remove_extracted_directory"},
				OnException:  "remove_extracted_directory",
				Body: func() (machine.Transition, error) {
					if err := deps.RestoreData(ctx, state.Conn(), state.DataFile()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("remove_extracted_directory"), nil
				},
			},
			{
				Name:         "remove_extracted_directory",
				Overview:     "Remove the unpacked renderings if they are still there.",
				HappyPaths:   []string{"remove_tarball"},
				UnhappyPaths: []string{"remove_tarball"},
				OnException:  "remove_tarball",
				Body: func() (machine.Transition, error) {
					if err := deps.RemoveExtractedDirectory(state.ExtractDir()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("remove_tarball"), nil
				},
			},
			{
				Name:         "remove_tarball",
				Overview:     "Remove the decrypted tarball if it is still there.",
				HappyPaths:   []string{"remove_encrypted_backup"},
				UnhappyPaths: []string{"remove_encrypted_backup"},
				OnException:  "remove_encrypted_backup",
				Body: func() (machine.Transition, error) {
					if err := deps.RemoveTarball(state.Tarball()); err != nil {
						return machine.Transition{}, err
					}
					return machine.Success("remove_encrypted_backup"), nil
				},
			},
			{
				Name:         "remove_encrypted_backup",
				Overview:     "Remove the local artifact copy if it is still there.",
				HappyPaths:   []string{"remove_intermediate_directory"},
				UnhappyPaths: []string{"remove_intermediate_directory"},
				OnException:  "remove_intermediate_directory",
				Body: func() (machine.Transition, error) {
					if err := deps.RemoveEncryptedBackup(state.EncryptedFile()); err != nil {
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
