package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/coldstore/internal/logging"
	"github.com/aretw0/coldstore/internal/model"
	"github.com/aretw0/coldstore/internal/repo"
	"github.com/aretw0/coldstore/pkg/config"
)

// runContext is the process-wide state every machine entry point shares:
// the loaded configuration and the logger, initialized once and injected
// everywhere else.
type runContext struct {
	cfg    *config.Config
	master *model.Master
	logger *slog.Logger
}

// newRunContext loads the configuration named by --config and builds the
// logger, attaching the optional tenant and authority identifiers.
func newRunContext(cmd *cobra.Command) (*runContext, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	master, err := model.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.ParseLevel(master.Logging.Level))
	if tenant, _ := cmd.Flags().GetString("tenant"); tenant != "" {
		logger = logger.With("tenant", tenant)
	}
	if authority, _ := cmd.Flags().GetString("authority"); authority != "" {
		logger = logger.With("authority", authority)
	}

	return &runContext{cfg: cfg, master: master, logger: logger}, nil
}

// connection assembles the server-level connection from the cleartext
// postgres group and the encrypted token.
func (rc *runContext) connection() (repo.Connection, error) {
	token, err := rc.cfg.Secret("postgres", "token")
	if err != nil {
		return repo.Connection{}, err
	}
	return repo.Connection{
		Host:  rc.master.Postgres.Host,
		Port:  rc.master.Postgres.Port,
		User:  rc.master.Postgres.User,
		Token: token,
	}, nil
}

func (rc *runContext) retentionWindows() (eom, eoy time.Duration) {
	return time.Duration(rc.master.Retention.EndOfMonthKeepDays) * 24 * time.Hour,
		time.Duration(rc.master.Retention.EndOfYearKeepDays) * 24 * time.Hour
}

// critical reports an error outside any machine and exits 1, the process
// boundary contract for uncaught failures.
func critical(err error) {
	fmt.Fprintf(os.Stderr, "Critical failure: %v\n", err)
	fmt.Fprintln(os.Stdout, "Critical failure:", err)
	os.Exit(1)
}
