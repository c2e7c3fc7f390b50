package store

import (
	"errors"

	"github.com/inovacc/orgclone/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the ledger operations used by the app.
type Store interface {
	Ping() error
	Close() error

	// Mirror records, keyed by absolute mirror path
	SaveMirror(rec *model.MirrorRecord) error
	GetMirror(path string) (*model.MirrorRecord, error)
	ListMirrors(entity string) ([]model.MirrorRecord, error)

	// Run records, keyed by run ID
	SaveRun(run *model.RunRecord) error
	ListRuns(entity string) ([]model.RunRecord, error)
}
