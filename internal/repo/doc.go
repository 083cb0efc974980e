// Package repo holds the side-effecting repositories machines dispatch
// through: subprocess execution, file management, archive and encryption
// tools, PostgreSQL dumps and restores, and the database catalog. Each
// repository exposes a small execute surface, carries an injected logger,
// and is the only layer allowed to return errors into a machine run.
package repo
