package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/uuid"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hull/pkg/ccd"
	"github.com/chazu/hull/pkg/checker"
	"github.com/chazu/hull/pkg/config"
	"github.com/chazu/hull/pkg/scene"
	"github.com/chazu/hull/pkg/tessellate"
)

func TestNilManager(t *testing.T) {
	m, err := NewManager("")
	if err != nil || m != nil {
		t.Fatalf("NewManager(\"\") = %v, %v; want nil, nil", m, err)
	}
	if err := m.WriteReports([]ReportRow{{}}); err != nil {
		t.Error(err)
	}
	if err := m.WriteMeshes(nil); err != nil {
		t.Error(err)
	}
	if err := m.WriteConfig(config.Default()); err != nil {
		t.Error(err)
	}
	if m.Dir() != "" || m.Session() != "" {
		t.Errorf("Dir() = %q, Session() = %q", m.Dir(), m.Session())
	}
	if err := m.Close(); err != nil {
		t.Error(err)
	}
}

func TestNewReportRow(t *testing.T) {
	r := &checker.Report{
		Flags:     checker.FlagHaveSeparation | checker.FlagHavePosition,
		Distance:  0.5,
		Direction: v3.Vec{X: 1},
		Pos1:      v3.Vec{X: 1},
		Pos2:      v3.Vec{X: 1.5},
		Algorithm: ccd.GJK,
	}
	q := scene.Query{A: "a", B: "b", Type: checker.QuerySeparation, Margin: 0.1}
	row := NewReportRow(3, q, true, r)
	want := ReportRow{
		Run: 3, Query: "separation", A: "a", B: "b", Margin: 0.1, Result: true,
		Flags: "HAVE_SEPARATION|HAVE_POSITION", Algorithm: "gjk",
		Distance: 0.5, DirX: 1, Pos1X: 1, Pos2X: 1.5,
	}
	if row != want {
		t.Errorf("row = %+v\nwant %+v", row, want)
	}

	// Values without their flag are not copied.
	r.Flags = checker.FlagIntersect
	row = NewReportRow(1, q, false, r)
	if row.Distance != 0 || row.DirX != 0 || row.Pos1X != 0 {
		t.Errorf("unflagged values leaked into %+v", row)
	}
}

func TestWriteReportsHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	m, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	if m.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", m.Dir(), dir)
	}
	for run := 1; run <= 2; run++ {
		rows := []ReportRow{
			{Run: run, Query: "intersect", A: "a", B: "b", Result: true, Flags: "INTERSECT"},
			{Run: run, Query: "separation", A: "a", B: "c", Result: true, Distance: 1.25},
		}
		if err := m.WriteReports(rows); err != nil {
			t.Fatalf("WriteReports: %v", err)
		}
	}
	if err := m.WriteReports(nil); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "reports.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 5 {
		t.Fatalf("expected header + 4 rows, got %d records", len(records))
	}
	if records[0][0] != "run" || records[0][1] != "query" {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[3][0] != "2" {
		t.Errorf("third row run = %q, want 2", records[3][0])
	}
	col := -1
	for i, h := range records[0] {
		if h == "distance" {
			col = i
		}
	}
	if col < 0 {
		t.Fatal("no distance column")
	}
	if d, _ := strconv.ParseFloat(records[2][col], 64); d != 1.25 {
		t.Errorf("distance = %q, want 1.25", records[2][col])
	}

	last := len(records[0]) - 1
	if records[0][last] != "session" {
		t.Fatalf("last column = %q, want session", records[0][last])
	}
	if _, err := uuid.Parse(records[1][last]); err != nil {
		t.Errorf("session %q: %v", records[1][last], err)
	}
	for _, rec := range records[1:] {
		if rec[last] != m.Session() {
			t.Errorf("session = %q, want %q", rec[last], m.Session())
		}
	}
}

func TestWriteMeshesAndConfig(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	meshes := []*tessellate.Mesh{{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2},
		Shape:    "tri",
	}}
	if err := m.WriteMeshes(meshes); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "meshes.json"))
	if err != nil {
		t.Fatal(err)
	}
	var got []tessellate.Mesh
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Shape != "tri" || got[0].TriangleCount() != 1 {
		t.Errorf("meshes.json = %+v", got)
	}

	cfg := config.Default()
	cfg.Checker.Algorithm = "mpr"
	if err := m.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Checker.Algorithm != "mpr" {
		t.Errorf("algorithm = %q", loaded.Checker.Algorithm)
	}
}
