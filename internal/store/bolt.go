package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/inovacc/orgclone/internal/application"
	"github.com/inovacc/orgclone/internal/model"
	"go.etcd.io/bbolt"
)

const (
	boltBucketMirrors = "mirrors" // key: path -> MirrorRecord JSON
	boltBucketRuns    = "runs"    // key: run ID -> RunRecord JSON
)

// FileName is the ledger file inside the application directory.
const FileName = "orgclone.bolt"

type Bolt struct {
	storage *bbolt.DB
}

// DefaultPath returns the ledger location in the application directory,
// creating the directory if needed.
func DefaultPath() (string, error) {
	dir, err := application.EnsureApplicationDirectory()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, FileName), nil
}

// Open opens (creating if needed) the Bolt ledger at path.
func Open(path string) (*Bolt, error) {
	instance, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{boltBucketMirrors, boltBucketRuns} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		_ = instance.Close()

		return nil, err
	}

	return &Bolt{storage: instance}, nil
}

// Close closes the database.
func (b *Bolt) Close() error {
	return b.storage.Close()
}

func (b *Bolt) Ping() error {
	return b.storage.View(func(tx *bbolt.Tx) error {
		return nil
	})
}

func (b *Bolt) SaveMirror(rec *model.MirrorRecord) error {
	if rec == nil || rec.Path == "" {
		return errors.New("mirror record requires a path")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketMirrors)).Put([]byte(rec.Path), data)
	})
}

func (b *Bolt) GetMirror(path string) (*model.MirrorRecord, error) {
	var rec *model.MirrorRecord

	err := b.storage.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(boltBucketMirrors)).Get([]byte(path))
		if v == nil {
			return ErrNotFound
		}

		rec = &model.MirrorRecord{}

		return json.Unmarshal(v, rec)
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// ListMirrors returns the records of entity, or all records when entity is
// empty, ordered by path.
func (b *Bolt) ListMirrors(entity string) ([]model.MirrorRecord, error) {
	var out []model.MirrorRecord

	err := b.storage.View(func(tx *bbolt.Tx) error {
		mirrors := tx.Bucket([]byte(boltBucketMirrors))

		return mirrors.ForEach(func(k, v []byte) error {
			var r model.MirrorRecord

			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}

			if entity != "" && r.Entity != entity {
				return nil
			}

			out = append(out, r)

			return nil
		})
	})

	return out, err
}

func (b *Bolt) SaveRun(run *model.RunRecord) error {
	if run == nil || run.ID == "" {
		return errors.New("run record requires an id")
	}

	data, err := json.Marshal(run)
	if err != nil {
		return err
	}

	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketRuns)).Put([]byte(run.ID), data)
	})
}

// ListRuns returns the runs of entity (all when empty), oldest first.
func (b *Bolt) ListRuns(entity string) ([]model.RunRecord, error) {
	var out []model.RunRecord

	err := b.storage.View(func(tx *bbolt.Tx) error {
		runs := tx.Bucket([]byte(boltBucketRuns))

		return runs.ForEach(func(k, v []byte) error {
			var r model.RunRecord

			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}

			if entity != "" && r.Entity != entity {
				return nil
			}

			out = append(out, r)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})

	return out, nil
}
