// Package output writes query results and meshes to a run directory.
// A nil *Manager is valid and discards everything, which is how output is
// disabled.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/chazu/hull/pkg/checker"
	"github.com/chazu/hull/pkg/config"
	"github.com/chazu/hull/pkg/scene"
	"github.com/chazu/hull/pkg/tessellate"
)

// ReportRow is one line of reports.csv.
type ReportRow struct {
	Run       int     `csv:"run"`
	Query     string  `csv:"query"`
	A         string  `csv:"a"`
	B         string  `csv:"b"`
	Margin    float64 `csv:"margin"`
	Result    bool    `csv:"result"`
	Flags     string  `csv:"flags"`
	Algorithm string  `csv:"algorithm"`
	Distance  float64 `csv:"distance"`
	DirX      float64 `csv:"dir_x"`
	DirY      float64 `csv:"dir_y"`
	DirZ      float64 `csv:"dir_z"`
	Pos1X     float64 `csv:"pos1_x"`
	Pos1Y     float64 `csv:"pos1_y"`
	Pos1Z     float64 `csv:"pos1_z"`
	Pos2X     float64 `csv:"pos2_x"`
	Pos2Y     float64 `csv:"pos2_y"`
	Pos2Z     float64 `csv:"pos2_z"`
	Session   string  `csv:"session"`
}

// NewReportRow flattens the outcome of q. Fields whose flag is not set in
// r are left zero.
func NewReportRow(run int, q scene.Query, ok bool, r *checker.Report) ReportRow {
	row := ReportRow{
		Run:       run,
		Query:     q.Type.String(),
		A:         q.A,
		B:         q.B,
		Margin:    q.Margin,
		Result:    ok,
		Flags:     r.Flags.String(),
		Algorithm: r.Algorithm.String(),
	}
	if r.Flags.Has(checker.FlagHaveSeparation) {
		row.Distance = r.Distance
		row.DirX, row.DirY, row.DirZ = r.Direction.X, r.Direction.Y, r.Direction.Z
	}
	if r.Flags.Has(checker.FlagHavePosition) {
		row.Pos1X, row.Pos1Y, row.Pos1Z = r.Pos1.X, r.Pos1.Y, r.Pos1.Z
		row.Pos2X, row.Pos2Y, row.Pos2Z = r.Pos2.X, r.Pos2.Y, r.Pos2.Z
	}
	return row
}

// Manager owns the files of one output directory. Every row it writes
// carries the manager's session ID, so reports from separate invocations
// can be told apart once collected.
type Manager struct {
	dir           string
	session       uuid.UUID
	reportFile    *os.File
	headerWritten bool
}

// NewManager creates dir and opens reports.csv in it. It returns nil when
// dir is empty.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "reports.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating reports.csv: %w", err)
	}
	return &Manager{dir: dir, session: uuid.New(), reportFile: f}, nil
}

// WriteReports appends rows to reports.csv. The header is written with the
// first batch only.
func (m *Manager) WriteReports(rows []ReportRow) error {
	if m == nil || len(rows) == 0 {
		return nil
	}
	stamped := make([]ReportRow, len(rows))
	for i, row := range rows {
		row.Session = m.session.String()
		stamped[i] = row
	}
	rows = stamped

	var err error
	if !m.headerWritten {
		err = gocsv.Marshal(rows, m.reportFile)
		m.headerWritten = err == nil
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, m.reportFile)
	}
	if err != nil {
		return fmt.Errorf("writing reports: %w", err)
	}
	return nil
}

// WriteMeshes saves meshes as meshes.json, replacing any earlier file.
func (m *Manager) WriteMeshes(meshes []*tessellate.Mesh) error {
	if m == nil {
		return nil
	}
	data, err := json.Marshal(meshes)
	if err != nil {
		return fmt.Errorf("marshaling meshes: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, "meshes.json"), data, 0644); err != nil {
		return fmt.Errorf("writing meshes.json: %w", err)
	}
	return nil
}

// WriteConfig saves the configuration in effect as config.yaml.
func (m *Manager) WriteConfig(cfg *config.Config) error {
	if m == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(m.dir, "config.yaml"))
}

// Dir returns the output directory path.
func (m *Manager) Dir() string {
	if m == nil {
		return ""
	}
	return m.dir
}

// Session returns the ID stamped on every report row.
func (m *Manager) Session() string {
	if m == nil {
		return ""
	}
	return m.session.String()
}

// Close closes reports.csv.
func (m *Manager) Close() error {
	if m == nil || m.reportFile == nil {
		return nil
	}
	err := m.reportFile.Close()
	m.reportFile = nil
	return err
}
