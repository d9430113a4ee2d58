// Package cache persists the single most recent snapshot as a
// pretty-printed JSON file. One collector process writes it; the API and
// any dashboards read it. Writes are atomic with respect to reads, so a
// reader never sees a partial snapshot.
package cache

import (
	"encoding/json"
	"os"

	"atlas/internal/models"
)

// Store is the durable latest-snapshot store. There is exactly one
// logical cache file; every write fully replaces it.
type Store struct {
	path string
}

// NewStore returns a store over the given cache file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the canonical cache file location.
func (s *Store) Path() string {
	return s.path
}

// Write serializes the snapshot to a temporary file in the same directory
// and renames it over the canonical path. The rename is what makes a
// concurrent Read see either the old snapshot or the new one, never a
// mix.
func (s *Store) Write(snap *models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Read returns the cached snapshot. A missing or corrupt file reports
// absence, not an error: callers treat that as "collector not yet run".
func (s *Store) Read() (*models.Snapshot, bool) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false
	}
	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

// Exists reports whether a cache file is present, without reading it.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}
