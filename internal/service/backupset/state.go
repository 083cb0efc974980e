package backupset

import (
	"path/filepath"
	"time"

	"github.com/aretw0/coldstore/internal/repo"
	"github.com/aretw0/coldstore/internal/service/backupdb"
)

// State carries a client-level archival run. The constructor-set fields are
// frozen inputs; the exported fields are the scratch the node chain writes
// as it progresses: the discovered database list and the retention
// candidates handed from the selection nodes to the removal nodes.
type State struct {
	client           string
	conn             repo.Connection
	gpgKey           string
	intermediateRoot string
	storageRoot      string
	stamp            time.Time
	eomKeep          time.Duration
	eoyKeep          time.Duration

	// Databases is filled by fetch_databases and drives the per-database
	// nested backups.
	Databases []string

	// EomCandidates and EoyCandidates are filled by the retention nodes and
	// consumed by the removal nodes.
	EomCandidates []string
	EoyCandidates []string
}

// NewState builds the state for one client run.
func NewState(client string, conn repo.Connection, gpgKey, intermediateRoot, storageRoot string, stamp time.Time, eomKeep, eoyKeep time.Duration) *State {
	return &State{
		client:           client,
		conn:             conn,
		gpgKey:           gpgKey,
		intermediateRoot: intermediateRoot,
		storageRoot:      storageRoot,
		stamp:            stamp,
		eomKeep:          eomKeep,
		eoyKeep:          eoyKeep,
	}
}

// Client returns the client identity.
func (s *State) Client() string { return s.client }

// Conn returns the server-level connection.
func (s *State) Conn() repo.Connection { return s.conn }

// Stamp returns the run timestamp.
func (s *State) Stamp() time.Time { return s.stamp }

// ClientStorageDir is the client's directory on long-term storage.
func (s *State) ClientStorageDir() string {
	return filepath.Join(s.storageRoot, s.client)
}

// DatabaseState derives the nested backup state for one database.
func (s *State) DatabaseState(database string) *backupdb.State {
	return backupdb.NewState(s.client, s.conn.WithDatabase(database),
		s.gpgKey, s.intermediateRoot, s.storageRoot, s.stamp)
}
