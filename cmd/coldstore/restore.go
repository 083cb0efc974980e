package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/coldstore/internal/endpoint"
	"github.com/aretw0/coldstore/internal/repo"
	"github.com/aretw0/coldstore/internal/service/dynamicmount"
	"github.com/aretw0/coldstore/internal/service/restoredb"
	"github.com/aretw0/coldstore/pkg/machine"
)

var restoreCmd = &cobra.Command{
	Use:   "restore CLIENT DATABASE",
	Short: "Restore a database from an archived artifact",
	Long:  `Fetches the artifact taken at --stamp from long-term storage, decrypts and unpacks it, and replays schema and data into the target database. The exit code is the number of failures.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRestore(cmd, args[0], args[1]); err != nil {
			critical(err)
		}
	},
}

func init() {
	restoreCmd.Flags().String("stamp", "", "Artifact timestamp, e.g. 20260731T040000Z")
	restoreCmd.MarkFlagRequired("stamp")
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, client, database string) error {
	rc, err := newRunContext(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()

	raw, _ := cmd.Flags().GetString("stamp")
	stamp, err := time.Parse(repo.StampLayout, raw)
	if err != nil {
		return fmt.Errorf("invalid stamp %q: %w", raw, err)
	}

	conn, err := rc.connection()
	if err != nil {
		return err
	}
	accountKey, err := rc.cfg.Secret("storage", "account_key")
	if err != nil {
		return err
	}

	restoreState := restoredb.NewState(client, conn.WithDatabase(database),
		rc.master.Storage.IntermediateRoot, rc.master.Storage.ArchiveRoot, stamp)

	mountState := dynamicmount.NewState(rc.master.Storage.UNC, rc.master.Storage.MountPath,
		rc.master.Storage.AccountName, accountKey, rc.master.Storage.UserID, restoredb.Name)

	mountDeps := dynamicmount.NewDeps(rc.logger)
	mountDeps.RunMachine = func() (*machine.Machine, error) {
		return restoredb.New(ctx, rc.logger, restoreState, restoredb.NewDeps(rc.logger))
	}

	m, err := dynamicmount.New(ctx, rc.logger, mountState, mountDeps)
	if err != nil {
		return err
	}

	endpoint.New(rc.logger, m, endpoint.NewDeps(rc.logger)).Execute()
	return nil
}
