package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inovacc/orgclone/internal/model"
)

// RunRecorder writes the results of one run into a Store. It is safe for
// concurrent use by the engine's workers.
type RunRecorder struct {
	store Store

	mu  sync.Mutex
	run model.RunRecord
	now func() time.Time
}

// NewRunRecorder starts a run record for entity with a fresh ID.
func NewRunRecorder(s Store, entity string) *RunRecorder {
	r := &RunRecorder{store: s, now: time.Now}
	r.run = model.RunRecord{
		ID:        uuid.New().String(),
		Entity:    entity,
		StartedAt: r.now(),
		Outcomes:  make(map[string]int),
	}

	return r
}

// ID returns the run ID.
func (r *RunRecorder) ID() string {
	return r.run.ID
}

// Record stores result as the latest state of its mirror path. The last
// success time survives failed runs.
func (r *RunRecorder) Record(result model.SyncResult) error {
	now := r.now()

	rec := &model.MirrorRecord{
		Path:     result.Path,
		Entity:   r.run.Entity,
		Name:     result.Repo.Name,
		CloneURL: result.Repo.CloneURL,
		Outcome:  result.Outcome,
		Head:     result.Head,
		Detail:   result.Detail,
		RunID:    r.run.ID,
		SyncedAt: now,
	}

	if result.Err != nil {
		rec.Error = result.Err.Error()
	}

	if result.Failed() {
		prev, err := r.store.GetMirror(result.Path)

		switch {
		case err == nil:
			rec.LastSuccessAt = prev.LastSuccessAt
			if rec.Head == "" {
				rec.Head = prev.Head
			}
		case !errors.Is(err, ErrNotFound):
			return err
		}
	} else {
		rec.LastSuccessAt = now
	}

	r.mu.Lock()
	r.run.Total++
	r.run.Outcomes[result.Outcome.String()]++

	if result.Failed() {
		r.run.Failed++
	}
	r.mu.Unlock()

	return r.store.SaveMirror(rec)
}

// Finish stamps the run and saves it.
func (r *RunRecorder) Finish() (*model.RunRecord, error) {
	r.mu.Lock()
	r.run.FinishedAt = r.now()
	run := r.run
	r.mu.Unlock()

	if err := r.store.SaveRun(&run); err != nil {
		return nil, err
	}

	return &run, nil
}
