package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cmakefileapi/internal/graph"
	"cmakefileapi/pkg/objects"
)

func TestStore_OpenInitializesSchemaAndSaveLoad(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	first := Snapshot{Timestamp: base, Configuration: "Debug", TargetCount: 5, EdgeCount: 4, CycleCount: 1}
	dup := Snapshot{Timestamp: base, Configuration: "Debug", TargetCount: 8, EdgeCount: 7, CycleCount: 2}
	second := Snapshot{
		Timestamp:     base.Add(2 * time.Hour),
		Configuration: "Debug",
		IndexFile:     "index-2026-02-13T12-00-00-0000.json",
		CMakeVersion:  "3.28.1",
		TargetCount:   6,
		EdgeCount:     5,
		MaxDepth:      3,
		AvgFanIn:      1.5,
		AvgFanOut:     2.0,
		MaxFanIn:      4,
		MaxFanOut:     5,
	}

	for _, s := range []Snapshot{first, dup, second} {
		if err := store.Save("/build", s); err != nil {
			t.Fatalf("save snapshot: %v", err)
		}
	}

	got, err := store.Load("/build", "Debug", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("load snapshots: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 snapshot after since filter, got %d", len(got))
	}
	if !got[0].Timestamp.Equal(second.Timestamp) {
		t.Fatalf("timestamp did not roundtrip: got %v, want %v", got[0].Timestamp, second.Timestamp)
	}
	roundTripped, want := got[0], withSchema(second)
	roundTripped.Timestamp, want.Timestamp = time.Time{}, time.Time{}
	if roundTripped != want {
		t.Fatalf("snapshot did not roundtrip:\n got %+v\nwant %+v", roundTripped, want)
	}

	all, err := store.Load("/build", "Debug", time.Time{})
	if err != nil {
		t.Fatalf("load all snapshots: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected deduplicated 2 snapshots, got %d", len(all))
	}
	if all[0].TargetCount != 8 {
		t.Fatalf("expected upserted target_count=8, got %d", all[0].TargetCount)
	}
}

func withSchema(s Snapshot) Snapshot {
	s.SchemaVersion = SchemaVersion
	return s
}

func TestStore_Isolation(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	saves := []struct {
		buildDir string
		snap     Snapshot
	}{
		{"/a", Snapshot{Timestamp: base, Configuration: "Debug", TargetCount: 1}},
		{"/a", Snapshot{Timestamp: base, Configuration: "Release", TargetCount: 2}},
		{"/b", Snapshot{Timestamp: base, Configuration: "Debug", TargetCount: 3}},
	}
	for _, s := range saves {
		if err := store.Save(s.buildDir, s.snap); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := store.Load("/a", "Release", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].TargetCount != 2 {
		t.Fatalf("unexpected /a Release rows: %+v", rows)
	}

	rows, err = store.Load("/b", "Debug", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].TargetCount != 3 {
		t.Fatalf("unexpected /b Debug rows: %+v", rows)
	}
}

func TestStore_SaveRejectsUnknownSchema(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	err = store.Save("/build", Snapshot{SchemaVersion: SchemaVersion + 1})
	if err == nil || !strings.Contains(err.Error(), "unsupported snapshot schema") {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestStore_OpenRejectsDirectoryPath(t *testing.T) {
	_, err := Open(t.TempDir())
	if err == nil {
		t.Fatal("expected open error for directory path")
	}
	if !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStore_OpenCorruptDBPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	if err := os.WriteFile(path, []byte("this is not sqlite"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if err == nil {
		t.Fatal("expected sqlite open error")
	}
	lower := strings.ToLower(err.Error())
	if !strings.Contains(lower, "not a database") && !strings.Contains(lower, "schema") {
		t.Fatalf("expected schema/open error, got: %v", err)
	}
}

func TestEnsureSchema_DetectsNewerVersionDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := store.db.Exec(`INSERT OR REPLACE INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open(driverName, "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	err = EnsureSchema(db)
	if err == nil {
		t.Fatal("expected drift error")
	}
	if !strings.Contains(err.Error(), "newer than supported") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildTrendReport(t *testing.T) {
	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	snapshots := []Snapshot{
		{Timestamp: base, Configuration: "Debug", TargetCount: 4, EdgeCount: 3, CycleCount: 2, AvgFanIn: 1, AvgFanOut: 1.25},
		{Timestamp: base.Add(2 * time.Hour), Configuration: "Debug", TargetCount: 6, EdgeCount: 6, CycleCount: 1, AvgFanIn: 2, AvgFanOut: 2.5},
		{Timestamp: base.Add(25 * time.Hour), Configuration: "Debug", TargetCount: 7, EdgeCount: 6, CycleCount: 3, AvgFanIn: 2.5, AvgFanOut: 2},
	}

	report, err := BuildTrendReport("/build", snapshots, 24*time.Hour)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.LoadCount != 3 || report.Configuration != "Debug" {
		t.Fatalf("unexpected report header: %+v", report)
	}
	if report.Points[1].DeltaTargets != 2 {
		t.Fatalf("expected delta_targets=2, got %d", report.Points[1].DeltaTargets)
	}
	if report.Points[2].DeltaCycles != 2 {
		t.Fatalf("expected delta_cycles=2, got %d", report.Points[2].DeltaCycles)
	}
	if report.Points[1].DeltaAvgFanIn != 1 {
		t.Fatalf("expected delta_avg_fan_in=1, got %v", report.Points[1].DeltaAvgFanIn)
	}
	if report.Points[1].TargetGrowthPct != 50 {
		t.Fatalf("expected target growth pct=50, got %v", report.Points[1].TargetGrowthPct)
	}
	// The first load falls outside the window of the third.
	if report.Points[2].AvgCycles != 2 {
		t.Fatalf("expected avg_cycles=2, got %v", report.Points[2].AvgCycles)
	}

	if _, err := BuildTrendReport("/build", nil, time.Hour); err == nil {
		t.Fatal("expected error for empty snapshot list")
	}
}

func TestFromGraph(t *testing.T) {
	cfg := &objects.Configuration{
		Name: "Debug",
		TargetRefs: []objects.TargetReference{
			{Name: "app", ID: "app::@0"},
			{Name: "core", ID: "core::@0"},
			{Name: "util", ID: "util::@0"},
		},
		Targets: []objects.Target{
			{Name: "app", ID: "app::@0", Type: "EXECUTABLE", Dependencies: []objects.Dependency{{ID: "core::@0"}, {ID: "util::@0"}}},
			{Name: "core", ID: "core::@0", Type: "STATIC_LIBRARY", Dependencies: []objects.Dependency{{ID: "util::@0"}}},
			{Name: "util", ID: "util::@0", Type: "STATIC_LIBRARY"},
		},
	}
	g, err := graph.Build(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	ts := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	snap := FromGraph(g, "index-a.json", "3.28.1", ts)
	if snap.Configuration != "Debug" || snap.TargetCount != 3 || snap.EdgeCount != 3 {
		t.Fatalf("unexpected counts: %+v", snap)
	}
	if snap.MaxDepth != 2 || snap.MaxFanIn != 2 || snap.MaxFanOut != 2 {
		t.Fatalf("unexpected maxima: %+v", snap)
	}
	if snap.AvgFanIn != 1 || snap.AvgFanOut != 1 {
		t.Fatalf("unexpected averages: %+v", snap)
	}
}
