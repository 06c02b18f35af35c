package triage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"
)

const runsBucket = "runs"

// ErrRunNotFound is returned by LoadRun for unknown run ids
var ErrRunNotFound = errors.New("run not found")

// Run is one archived batch analysis
type Run struct {
	ID         string           `json:"id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	AlertsFile string           `json:"alerts_file,omitempty"`
	Model      string           `json:"model,omitempty"`
	Results    []AnalysisResult `json:"results"`
}

// RunInfo is the listing view of a run
type RunInfo struct {
	ID         string
	StartedAt  time.Time
	AlertsFile string
	Model      string
	Alerts     int
	Failures   int
}

// HistoryStore archives batch runs in a bolt database
type HistoryStore struct {
	db *bolt.DB
}

// OpenHistory opens or creates the history database at path
func OpenHistory(path string) (*HistoryStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", runsBucket, err)
	}

	return &HistoryStore{db: db}, nil
}

// SaveRun stores the run, assigning it a fresh id when it has none
func (h *HistoryStore) SaveRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	return h.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(runsBucket))
		if bucket == nil {
			return fmt.Errorf("runs bucket not found")
		}
		return bucket.Put([]byte(run.ID), data)
	})
}

// LoadRun returns the run with the given id
func (h *HistoryStore) LoadRun(id string) (*Run, error) {
	var run Run
	err := h.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(runsBucket))
		if bucket == nil {
			return fmt.Errorf("runs bucket not found")
		}
		data := bucket.Get([]byte(id))
		if data == nil {
			return ErrRunNotFound
		}
		return json.Unmarshal(data, &run)
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns every archived run, newest first
func (h *HistoryStore) ListRuns() ([]RunInfo, error) {
	var infos []RunInfo
	err := h.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(runsBucket))
		if bucket == nil {
			return fmt.Errorf("runs bucket not found")
		}
		return bucket.ForEach(func(k, v []byte) error {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("corrupt run %s: %w", k, err)
			}
			info := RunInfo{
				ID:         run.ID,
				StartedAt:  run.StartedAt,
				AlertsFile: run.AlertsFile,
				Model:      run.Model,
				Alerts:     len(run.Results),
			}
			for _, r := range run.Results {
				if r.Failed() {
					info.Failures++
				}
			}
			infos = append(infos, info)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].StartedAt.After(infos[j].StartedAt)
	})
	return infos, nil
}

// Close closes the database
func (h *HistoryStore) Close() error {
	return h.db.Close()
}
