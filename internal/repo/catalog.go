package repo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/jackc/pgx/v5"
)

// Catalog reads the server's database catalog.
type Catalog struct {
	Logger *slog.Logger
}

// ListDatabases returns the names of the databases to archive: everything
// except templates and the maintenance database, sorted by name.
func (c *Catalog) ListDatabases(ctx context.Context, conn Connection) ([]string, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/postgres?sslmode=require",
		url.QueryEscape(conn.User),
		url.QueryEscape(conn.Token.Reveal()),
		conn.Host,
		conn.Port,
	)

	c.Logger.Debug("listing databases", "host", conn.Host, "port", conn.Port)

	db, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", conn.Host, err)
	}
	defer db.Close(ctx)

	rows, err := db.Query(ctx,
		`SELECT datname FROM pg_database
		 WHERE NOT datistemplate AND datname <> 'postgres'
		 ORDER BY datname`)
	if err != nil {
		return nil, fmt.Errorf("query pg_database: %w", err)
	}
	defer rows.Close()

	var databases []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		databases = append(databases, name)
	}
	return databases, rows.Err()
}
