package backupdb

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/coldstore/internal/repo"
)

// State carries one database backup run. Every field is a frozen input set
// at construction; the node chain derives its paths from them.
type State struct {
	client           string
	conn             repo.Connection
	gpgKey           string
	intermediateRoot string
	storageRoot      string
	stamp            time.Time
}

// NewState builds the state for backing up conn.Database.
func NewState(client string, conn repo.Connection, gpgKey, intermediateRoot, storageRoot string, stamp time.Time) *State {
	return &State{
		client:           client,
		conn:             conn,
		gpgKey:           gpgKey,
		intermediateRoot: intermediateRoot,
		storageRoot:      storageRoot,
		stamp:            stamp,
	}
}

// Client returns the client identity.
func (s *State) Client() string { return s.client }

// Conn returns the database connection.
func (s *State) Conn() repo.Connection { return s.conn }

// GPGKey returns the encryption key name.
func (s *State) GPGKey() string { return s.gpgKey }

// Stamp returns the run timestamp.
func (s *State) Stamp() time.Time { return s.stamp }

// IntermediateDir is the per-run scratch directory.
func (s *State) IntermediateDir() string {
	return filepath.Join(s.intermediateRoot, s.client, s.conn.Database, s.stamp.Format(repo.StampLayout))
}

// PgDumpDir holds the raw SQL renderings inside the intermediate directory.
func (s *State) PgDumpDir() string {
	return filepath.Join(s.IntermediateDir(), "pg_dump")
}

// SchemaFile is the schema dump path.
func (s *State) SchemaFile() string {
	return filepath.Join(s.PgDumpDir(), "schema.sql")
}

// DataFile is the data dump path.
func (s *State) DataFile() string {
	return filepath.Join(s.PgDumpDir(), "data.sql")
}

// Tarball is the compressed artifact path.
func (s *State) Tarball() string {
	return filepath.Join(s.IntermediateDir(),
		fmt.Sprintf("%s_%s.tar.gz", s.conn.Database, s.stamp.Format(repo.StampLayout)))
}

// EncryptedFile is the encrypted artifact path.
func (s *State) EncryptedFile() string {
	return s.Tarball() + ".gpg"
}

// StorageDir is the database's directory on long-term storage.
func (s *State) StorageDir() string {
	return filepath.Join(s.storageRoot, s.client, s.conn.Database)
}

// StorageFile is the artifact's final path on long-term storage.
func (s *State) StorageFile() string {
	return filepath.Join(s.StorageDir(), filepath.Base(s.EncryptedFile()))
}
