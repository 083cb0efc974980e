package repo

import (
	"context"
	"strconv"

	"github.com/aretw0/coldstore/pkg/shell"
)

// Connection describes how to reach a PostgreSQL server. The token is the
// only secret and stays masked until exec time.
type Connection struct {
	Host     string
	Port     int
	User     string
	Database string
	Token    shell.Secret
}

// WithDatabase returns a copy of the connection pointed at another database.
func (c Connection) WithDatabase(database string) Connection {
	c.Database = database
	return c
}

// PgDump pulls SQL renderings of a database with pg_dump.
type PgDump struct {
	Command *Command
}

// DumpSchema writes the schema of the connected database to path, without
// ownership.
func (p *PgDump) DumpSchema(ctx context.Context, conn Connection, path string) error {
	return p.execute(ctx, conn, shell.Space(
		shell.Plain("pg_dump"),
		shell.Plain("-h"),
		shell.Plain(conn.Host),
		shell.Plain("-p"),
		shell.Plain(strconv.Itoa(conn.Port)),
		shell.Plain("-U"),
		shell.Plain(conn.User),
		shell.Plain("--no-owner"),
		shell.Plain("--schema-only"),
		shell.Plain(conn.Database),
		shell.Plain("--file"),
		shell.Plain(path),
	))
}

// DumpData writes the data of the connected database to path.
func (p *PgDump) DumpData(ctx context.Context, conn Connection, path string) error {
	return p.execute(ctx, conn, shell.Space(
		shell.Plain("pg_dump"),
		shell.Plain("-h"),
		shell.Plain(conn.Host),
		shell.Plain("-p"),
		shell.Plain(strconv.Itoa(conn.Port)),
		shell.Plain("-U"),
		shell.Plain(conn.User),
		shell.Plain("--no-owner"),
		shell.Plain("--data-only"),
		shell.Plain(conn.Database),
		shell.Plain("--file"),
		shell.Plain(path),
	))
}

func (p *PgDump) execute(ctx context.Context, conn Connection, line shell.SpaceDelimited) error {
	_, err := p.Command.Execute(ctx, line,
		WithEnv("PGSSLMODE", shell.Plain("require")),
		WithEnv("PGPASSWORD", conn.Token),
	)
	return err
}

// Psql replays SQL renderings against a database.
type Psql struct {
	Command *Command
}

// Restore feeds the SQL file at path to the connected database.
func (p *Psql) Restore(ctx context.Context, conn Connection, path string) error {
	_, err := p.Command.Execute(ctx, shell.Space(
		shell.Plain("psql"),
		shell.Plain("-h"),
		shell.Plain(conn.Host),
		shell.Plain("-p"),
		shell.Plain(strconv.Itoa(conn.Port)),
		shell.Plain("-U"),
		shell.Plain(conn.User),
		shell.Plain("-d"),
		shell.Plain(conn.Database),
		shell.Plain("--set"),
		shell.Plain("ON_ERROR_STOP=on"),
		shell.Plain("--file"),
		shell.Plain(path),
	),
		WithEnv("PGSSLMODE", shell.Plain("require")),
		WithEnv("PGPASSWORD", conn.Token),
	)
	return err
}
