package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"courtflow/internal/session"
)

// Store persists a session snapshot to a single JSON file. Every save
// rewrites the whole file; there is no partial update.
type Store struct {
	path   string
	courts int
}

func New(path string, courts int) *Store {
	return &Store{path: path, courts: courts}
}

// Path returns the location of the state file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted snapshot. A missing file is not an error: the
// session simply has not started yet, so the empty default comes back.
func (s *Store) Load() (*session.Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return session.NewSnapshot(s.courts), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file %s: %w", s.path, err)
	}

	snap := &session.Snapshot{}
	if err := json.Unmarshal(raw, snap); err != nil {
		return nil, fmt.Errorf("decode state file %s: %w", s.path, err)
	}
	normalize(snap, s.courts)
	return snap, nil
}

// Save overwrites the state file with the full snapshot. The write goes to a
// temp file first and is renamed into place, so a crash mid-write never
// leaves a truncated state file behind.
func (s *Store) Save(snap *session.Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// normalize repairs a hand-edited or older state file: nil collections
// become empty ones and the court list is padded out to the configured
// count so indexes stay valid.
func normalize(snap *session.Snapshot, courts int) {
	if snap.Players == nil {
		snap.Players = []string{}
	}
	if snap.Queue == nil {
		snap.Queue = []string{}
	}
	if snap.Streaks == nil {
		snap.Streaks = map[string]int{}
	}
	if snap.History == nil {
		snap.History = []session.GameRecord{}
	}
	for i := range snap.Courts {
		if snap.Courts[i] == nil {
			snap.Courts[i] = []string{}
		}
	}
	for len(snap.Courts) < courts {
		snap.Courts = append(snap.Courts, []string{})
	}
}
