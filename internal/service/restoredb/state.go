package restoredb

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/coldstore/internal/repo"
)

// State carries one database restore run. All fields are frozen inputs; the
// stamp selects which archived artifact to bring back.
type State struct {
	client           string
	conn             repo.Connection
	intermediateRoot string
	storageRoot      string
	stamp            time.Time
}

// NewState builds the state for restoring conn.Database from the artifact
// taken at stamp.
func NewState(client string, conn repo.Connection, intermediateRoot, storageRoot string, stamp time.Time) *State {
	return &State{
		client:           client,
		conn:             conn,
		intermediateRoot: intermediateRoot,
		storageRoot:      storageRoot,
		stamp:            stamp,
	}
}

// Client returns the client identity.
func (s *State) Client() string { return s.client }

// Conn returns the database connection.
func (s *State) Conn() repo.Connection { return s.conn }

// IntermediateDir is the per-run scratch directory.
func (s *State) IntermediateDir() string {
	return filepath.Join(s.intermediateRoot, s.client, s.conn.Database,
		"restore_"+s.stamp.Format(repo.StampLayout))
}

func (s *State) artifactName() string {
	return fmt.Sprintf("%s_%s.tar.gz.gpg", s.conn.Database, s.stamp.Format(repo.StampLayout))
}

// StorageFile is the archived artifact's path on long-term storage.
func (s *State) StorageFile() string {
	return filepath.Join(s.storageRoot, s.client, s.conn.Database, s.artifactName())
}

// EncryptedFile is the local copy of the archived artifact.
func (s *State) EncryptedFile() string {
	return filepath.Join(s.IntermediateDir(), s.artifactName())
}

// Tarball is the decrypted artifact path.
func (s *State) Tarball() string {
	encrypted := s.EncryptedFile()
	return encrypted[:len(encrypted)-len(".gpg")]
}

// ExtractDir holds the unpacked SQL renderings.
func (s *State) ExtractDir() string {
	return filepath.Join(s.IntermediateDir(), "pg_dump")
}

// SchemaFile is the unpacked schema dump path.
func (s *State) SchemaFile() string {
	return filepath.Join(s.ExtractDir(), "schema.sql")
}

// DataFile is the unpacked data dump path.
func (s *State) DataFile() string {
	return filepath.Join(s.ExtractDir(), "data.sql")
}
