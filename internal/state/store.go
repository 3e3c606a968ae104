// Package state records rebuild history in SQLite: one row per run plus one
// row per published table with its input/output counts, so silent row loss
// from inner joins stays observable after the fact.
package state

import "time"

// RunStatus represents the lifecycle state of a rebuild run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one full warehouse rebuild.
type Run struct {
	ID          string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       *string
}

// TableLoad records the publish of one warehouse table within a run.
// RowsIn is the builder's primary input row count; RowsOut is the published
// row count. Dropped is the number of rows removed by required joins.
type TableLoad struct {
	RunID   string
	Table   string
	RowsIn  int
	RowsOut int
	Dropped int
}

// Store is the run-ledger contract. SQLiteStore is the only implementation;
// the interface exists so the engine can be tested against a fake.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	CreateRun() (*Run, error)
	CompleteRun(id string, status RunStatus, errMsg string) error
	GetRun(id string) (*Run, error)
	ListRuns(limit int) ([]*Run, error)

	RecordTableLoad(load TableLoad) error
	ListTableLoads(runID string) ([]*TableLoad, error)
}
