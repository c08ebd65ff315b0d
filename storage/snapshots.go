// Package storage persists scan run history in bbolt.
//
// Each completed run stores one RunRecord plus a JSON snapshot of every
// environment's resource set, keyed by a monotonically increasing run ID.
// History is append-only; nothing here mutates cloud state.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/yairfalse/tagscope/types"
)

// Bucket names in bbolt
var (
	bucketRuns      = []byte("runs")
	bucketSnapshots = []byte("snapshots")
)

// RunRecord describes one completed scan run.
type RunRecord struct {
	ID           uint64         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Environments map[string]int `json:"environments"`
}

// Store is a bbolt-backed scan history.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRuns); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init snapshot db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores every environment's resource set under a new run ID.
// Run IDs increase monotonically across the life of the database.
func (s *Store) RecordRun(environments []string, data map[string][]types.Resource) (uint64, error) {
	var runID uint64

	err := s.db.Update(func(tx *bbolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		snapshots := tx.Bucket(bucketSnapshots)

		id, err := runs.NextSequence()
		if err != nil {
			return err
		}
		runID = id

		record := RunRecord{
			ID:           id,
			Timestamp:    time.Now().UTC(),
			Environments: make(map[string]int, len(environments)),
		}

		for _, env := range environments {
			resources := data[env]
			record.Environments[env] = len(resources)

			payload, err := json.Marshal(resources)
			if err != nil {
				return fmt.Errorf("marshal snapshot for %s: %w", env, err)
			}
			if err := snapshots.Put(snapshotKey(id, env), payload); err != nil {
				return err
			}
		}

		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal run record: %w", err)
		}
		return runs.Put(runKey(id), payload)
	})
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}

	return runID, nil
}

// Runs lists recorded runs in ID order.
func (s *Store) Runs() ([]RunRecord, error) {
	var records []RunRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRuns).ForEach(func(_, value []byte) error {
			var record RunRecord
			if err := json.Unmarshal(value, &record); err != nil {
				return fmt.Errorf("unmarshal run record: %w", err)
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return records, nil
}

// Snapshot returns one environment's resource set from a recorded run.
func (s *Store) Snapshot(runID uint64, environment string) ([]types.Resource, error) {
	var resources []types.Resource

	err := s.db.View(func(tx *bbolt.Tx) error {
		payload := tx.Bucket(bucketSnapshots).Get(snapshotKey(runID, environment))
		if payload == nil {
			return fmt.Errorf("no snapshot for run %d environment %s", runID, environment)
		}
		return json.Unmarshal(payload, &resources)
	})
	if err != nil {
		return nil, err
	}

	return resources, nil
}

// runKey encodes a run ID big-endian so bbolt iterates runs in ID order.
func runKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

func snapshotKey(id uint64, environment string) []byte {
	return append(append(runKey(id), '/'), environment...)
}
