// Package history keeps an append-only, bounded-retention log of snapshot
// summaries in SQLite for trend queries.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"atlas/internal/models"
)

// MaxQueryLimit caps a single query regardless of what the caller asks
// for, bounding response size and query cost.
const MaxQueryLimit = 1000

// Record is one row: the summary columns served by the history API. The
// percent fields are nil when the source section was absent or failed.
type Record struct {
	CollectedAt string   `json:"collected_at"`
	Hostname    string   `json:"hostname"`
	CPUPercent  *float64 `json:"cpu_percent"`
	RAMPercent  *float64 `json:"ram_percent"`
	DiskPercent *float64 `json:"disk_percent"`
}

// Store is the SQLite-backed history store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database and ensures the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.EnsureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the snapshots table and its time index.
func (s *Store) EnsureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS snapshots (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  collected_at TEXT NOT NULL,
  hostname TEXT,
  cpu_percent REAL,
  ram_percent REAL,
  disk_percent REAL,
  raw_json TEXT
);
CREATE INDEX IF NOT EXISTS idx_snapshots_collected ON snapshots(collected_at);
`)
	return err
}

// Append inserts one row for a completed cycle and prunes rows older than
// the retention window. Pruning on every append keeps the retention bound
// holding at all times, not just at startup.
func (s *Store) Append(snap *models.Snapshot, keepDays int) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO snapshots
		(collected_at, hostname, cpu_percent, ram_percent, disk_percent, raw_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snap.CollectedAt, snap.Hostname,
		nullable(snap.CPUPercent()), nullable(snap.RAMPercent()), nullable(snap.DiskPercent()),
		string(raw))
	if err != nil {
		return fmt.Errorf("history insert: %w", err)
	}
	return s.Prune(keepDays)
}

// Prune deletes rows older than keepDays. Rows are deleted, never
// archived.
func (s *Store) Prune(keepDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -keepDays).Format(time.RFC3339)
	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE collected_at < ?`, cutoff); err != nil {
		return fmt.Errorf("history prune: %w", err)
	}
	return nil
}

// Query returns up to limit records, newest first. The limit is clamped
// to MaxQueryLimit; zero or negative limits return an empty slice.
func (s *Store) Query(limit int) ([]Record, error) {
	if limit <= 0 {
		return []Record{}, nil
	}
	if limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}
	rows, err := s.db.Query(`SELECT collected_at, hostname, cpu_percent, ram_percent, disk_percent
		FROM snapshots ORDER BY collected_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history query: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		var host sql.NullString
		var cpu, ram, disk sql.NullFloat64
		if err := rows.Scan(&r.CollectedAt, &host, &cpu, &ram, &disk); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		r.Hostname = host.String
		if cpu.Valid {
			r.CPUPercent = &cpu.Float64
		}
		if ram.Valid {
			r.RAMPercent = &ram.Float64
		}
		if disk.Valid {
			r.DiskPercent = &disk.Float64
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of retained rows, mainly for tests and the
// collector's startup log line.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
