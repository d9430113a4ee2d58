package history

import (
	"path/filepath"
	"testing"
	"time"

	"atlas/internal/models"
)

// --- helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "atlas.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func snapshotAt(ts time.Time, cpu float64) *models.Snapshot {
	return &models.Snapshot{
		AtlasVersion: "2.1.0",
		CollectedAt:  ts.UTC().Format(time.RFC3339),
		Hostname:     "testhost",
		CPU:          models.Ok(&models.CPUStats{Percent: cpu}),
		RAM:          models.Ok(&models.RAMStats{Percent: 50}),
		Disk:         diskSection(73.5),
	}
}

func diskSection(pct float64) *models.Section[models.DiskStats] {
	return models.Ok(&models.DiskStats{
		Partitions: []models.DiskPartition{{Mountpoint: "/", Percent: pct}},
	})
}

// --- schema ---

func TestEnsureSchema_Idempotent(t *testing.T) {
	s := testStore(t)
	if err := s.EnsureSchema(); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

// --- Append / Query ---

func TestAppend_ExtractsSummaryColumns(t *testing.T) {
	s := testStore(t)
	if err := s.Append(snapshotAt(time.Now(), 42.5), 7); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := s.Query(10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.Hostname != "testhost" {
		t.Errorf("hostname = %q", r.Hostname)
	}
	if r.CPUPercent == nil || *r.CPUPercent != 42.5 {
		t.Errorf("cpu_percent = %v, want 42.5", r.CPUPercent)
	}
	if r.RAMPercent == nil || *r.RAMPercent != 50 {
		t.Errorf("ram_percent = %v, want 50", r.RAMPercent)
	}
	if r.DiskPercent == nil || *r.DiskPercent != 73.5 {
		t.Errorf("disk_percent = %v, want first partition 73.5", r.DiskPercent)
	}
}

func TestAppend_DegradedSnapshotStoresNulls(t *testing.T) {
	s := testStore(t)
	snap := snapshotAt(time.Now(), 0)
	snap.CPU = models.Failed[models.CPUStats]("exploded")
	snap.Disk = nil
	if err := s.Append(snap, 7); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := s.Query(1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if records[0].CPUPercent != nil {
		t.Error("failed cpu section should store NULL")
	}
	if records[0].DiskPercent != nil {
		t.Error("absent disk section should store NULL")
	}
	if records[0].RAMPercent == nil {
		t.Error("healthy ram section should still be recorded")
	}
}

func TestQuery_NewestFirst(t *testing.T) {
	s := testStore(t)
	now := time.Now()
	for i := 3; i >= 1; i-- {
		if err := s.Append(snapshotAt(now.Add(-time.Duration(i)*time.Minute), float64(i)), 7); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	records, err := s.Query(10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i-1].CollectedAt < records[i].CollectedAt {
			t.Errorf("records out of order: %s before %s",
				records[i-1].CollectedAt, records[i].CollectedAt)
		}
	}
	if *records[0].CPUPercent != 1 {
		t.Errorf("newest record cpu = %v, want 1", *records[0].CPUPercent)
	}
}

func TestQuery_LimitBehavior(t *testing.T) {
	s := testStore(t)
	now := time.Now()
	for i := 0; i < 5; i++ {
		if err := s.Append(snapshotAt(now.Add(time.Duration(i)*time.Second), float64(i)), 7); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	records, err := s.Query(2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("limit 2 returned %d records", len(records))
	}

	records, err = s.Query(0)
	if err != nil {
		t.Fatalf("query limit 0: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("limit 0 should return no records, got %d", len(records))
	}

	records, err = s.Query(-3)
	if err != nil {
		t.Fatalf("query negative limit: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("negative limit should return no records, got %d", len(records))
	}
}

func TestQuery_ClampsToMaxLimit(t *testing.T) {
	s := testStore(t)
	now := time.Now()
	for i := 0; i < MaxQueryLimit+5; i++ {
		if err := s.Append(snapshotAt(now.Add(time.Duration(i)*time.Second), float64(i%100)), 7); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	records, err := s.Query(5000)
	if err != nil {
		t.Fatalf("query over cap: %v", err)
	}
	if len(records) != MaxQueryLimit {
		t.Errorf("got %d records, want %d", len(records), MaxQueryLimit)
	}
}

// --- retention ---

func TestAppend_PrunesOldRows(t *testing.T) {
	s := testStore(t)
	now := time.Now()

	old := snapshotAt(now.AddDate(0, 0, -8), 1)
	recent := snapshotAt(now.AddDate(0, 0, -6), 2)

	if err := s.Append(old, 7); err != nil {
		t.Fatalf("append old: %v", err)
	}
	if err := s.Append(recent, 7); err != nil {
		t.Fatalf("append recent: %v", err)
	}

	records, err := s.Query(10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records after prune, want 1", len(records))
	}
	if *records[0].CPUPercent != 2 {
		t.Error("the six day old row should survive a 7 day window")
	}
}

func TestCount(t *testing.T) {
	s := testStore(t)
	if n, err := s.Count(); err != nil || n != 0 {
		t.Fatalf("empty count = %d, %v", n, err)
	}
	if err := s.Append(snapshotAt(time.Now(), 1), 7); err != nil {
		t.Fatalf("append: %v", err)
	}
	if n, err := s.Count(); err != nil || n != 1 {
		t.Fatalf("count after append = %d, %v", n, err)
	}
}
