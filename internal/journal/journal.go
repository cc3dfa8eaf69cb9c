// Package journal keeps scan bookkeeping in an embedded bolt database: one
// record per directory scan and a per-file fingerprint so documents that have
// not changed can be skipped on re-scan.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"
)

const (
	runsBucket  = "runs"
	filesBucket = "files"
)

// Run summarizes one directory scan.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Files      int       `json:"files"`
	Skipped    int       `json:"skipped"`
	Items      int       `json:"items"`
	Totals     int       `json:"totals"`
	Failures   []string  `json:"failures,omitempty"`
}

type fingerprint struct {
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Journal is a bolt-backed scan journal.
type Journal struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) the journal at path.
func Open(path string) (*Journal, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(runsBucket)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(filesBucket)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal buckets: %w", err)
	}

	return &Journal{db: db}, nil
}

// Seen reports whether the file at path was journaled with its current size
// and modification time.
func (j *Journal) Seen(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stating file: %w", err)
	}

	var seen bool
	err = j.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(filesBucket)).Get([]byte(path))
		if data == nil {
			return nil
		}
		var fp fingerprint
		if err := json.Unmarshal(data, &fp); err != nil {
			return fmt.Errorf("unmarshaling fingerprint: %w", err)
		}
		seen = fp.Size == info.Size() && fp.ModTime.Equal(info.ModTime())
		return nil
	})
	if err != nil {
		return false, err
	}
	return seen, nil
}

// MarkSeen journals the file at path with its current size and modification
// time.
func (j *Journal) MarkSeen(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stating file: %w", err)
	}

	data, err := json.Marshal(fingerprint{Size: info.Size(), ModTime: info.ModTime()})
	if err != nil {
		return fmt.Errorf("marshaling fingerprint: %w", err)
	}

	return j.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(filesBucket)).Put([]byte(path), data)
	})
}

// RecordRun saves the summary of a completed scan.
func (j *Journal) RecordRun(run Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshaling run: %w", err)
	}

	return j.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(runsBucket)).Put([]byte(run.ID), data)
	})
}

// Runs returns every recorded scan.
func (j *Journal) Runs() ([]Run, error) {
	runs := make([]Run, 0)
	err := j.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(runsBucket)).ForEach(func(k, v []byte) error {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("unmarshaling run: %w", err)
			}
			runs = append(runs, run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}
