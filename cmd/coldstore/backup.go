package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/coldstore/internal/endpoint"
	"github.com/aretw0/coldstore/internal/runlock"
	"github.com/aretw0/coldstore/internal/service/backupset"
	"github.com/aretw0/coldstore/internal/service/dynamicmount"
	"github.com/aretw0/coldstore/pkg/machine"
	backend "github.com/redis/go-redis/v9"
)

var backupCmd = &cobra.Command{
	Use:   "backup CLIENT",
	Short: "Archive every database for a client",
	Long:  `Mounts the long-term file share, discovers the client's databases, runs the per-database backup machine for each, applies retention, and unmounts. The exit code is the number of failures.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runBackup(cmd, args[0]); err != nil {
			critical(err)
		}
	},
}

func init() {
	backupCmd.Flags().String("redis", "", "Redis address for the per-client run lock (optional)")
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, client string) error {
	rc, err := newRunContext(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		locker := runlock.New(backend.NewClient(&backend.Options{Addr: addr}), "coldstore:")
		release, err := locker.Acquire(ctx, client, 4*time.Hour)
		if err != nil {
			return err
		}
		defer release(ctx)
	}

	conn, err := rc.connection()
	if err != nil {
		return err
	}
	accountKey, err := rc.cfg.Secret("storage", "account_key")
	if err != nil {
		return err
	}

	eomKeep, eoyKeep := rc.retentionWindows()
	setState := backupset.NewState(client, conn, rc.master.GPG.KeyName,
		rc.master.Storage.IntermediateRoot, rc.master.Storage.ArchiveRoot,
		time.Now().UTC(), eomKeep, eoyKeep)

	mountState := dynamicmount.NewState(rc.master.Storage.UNC, rc.master.Storage.MountPath,
		rc.master.Storage.AccountName, accountKey, rc.master.Storage.UserID, backupset.Name)

	mountDeps := dynamicmount.NewDeps(rc.logger)
	mountDeps.RunMachine = func() (*machine.Machine, error) {
		return backupset.New(ctx, rc.logger, setState, backupset.NewDeps(rc.logger))
	}

	m, err := dynamicmount.New(ctx, rc.logger, mountState, mountDeps)
	if err != nil {
		return err
	}

	endpoint.New(rc.logger, m, endpoint.NewDeps(rc.logger)).Execute()
	return nil
}
