// Package storage keeps finished runs on disk: one directory per run with
// metadata.json and a states.csv of the sampled snapshots.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/sim"
)

var ErrNoColumn = errors.New("storage: no such column")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was configured.
type RunInfo struct {
	Scene      string  `json:"scene"`
	Engine     string  `json:"engine"`
	Integrator string  `json:"integrator"`
	Dt         float64 `json:"dt"`
	Duration   float64 `json:"duration"`
}

type RunMetadata struct {
	RunInfo
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Steps     int                `json:"steps"`
	Masses    []string           `json:"masses"`
	Basins    []string           `json:"basins"`
	Discarded float64            `json:"discarded"`
	Drift     float64            `json:"volume_drift"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	runID, runDir, err := s.newRunDir(info.Scene)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		RunInfo:   info,
		ID:        runID,
		Timestamp: time.Now(),
		Steps:     result.StepsTaken,
		Drift:     result.VolumeDrift,
		Metrics:   result.Metrics,
	}
	if final := result.Final(); final != nil {
		meta.Discarded = final.Discarded
		for _, m := range final.Masses {
			meta.Masses = append(meta.Masses, m.ID)
		}
		for _, b := range final.Basins {
			meta.Basins = append(meta.Basins, b.ID)
		}
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Snapshots); err != nil {
		return "", err
	}

	return runID, nil
}

// newRunDir creates <scene>_<unix ms>, adding a suffix if a run with the same
// id already exists.
func (s *Store) newRunDir(scene string) (string, string, error) {
	if scene == "" {
		scene = "run"
	}
	base := fmt.Sprintf("%s_%d", scene, time.Now().UnixMilli())
	if err := s.Init(); err != nil {
		return "", "", err
	}
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
}

// Header returns the csv columns for snapshots shaped like snap.
func Header(snap *fluid.Snapshot) []string {
	header := []string{"time"}
	for _, m := range snap.Masses {
		header = append(header,
			m.ID+"_x", m.ID+"_y", m.ID+"_z", m.ID+"_vy",
			m.ID+"_submerged", m.ID+"_fraction", m.ID+"_buoyancy", m.ID+"_contact",
		)
	}
	for _, b := range snap.Basins {
		header = append(header, b.ID+"_height", b.ID+"_volume")
	}
	return append(header, "discarded")
}

func row(snap *fluid.Snapshot) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	r := []string{f(snap.Time)}
	for _, m := range snap.Masses {
		r = append(r,
			f(m.Position[0]), f(m.Position[1]), f(m.Position[2]), f(m.Velocity[1]),
			f(m.Submerged), f(m.SubmergedFraction), f(m.Forces.Buoyancy[1]), f(m.Forces.Contact[1]),
		)
	}
	for _, b := range snap.Basins {
		r = append(r, f(b.Height), f(b.Volume))
	}
	return append(r, f(snap.Discarded))
}

// WriteCSV writes one row per snapshot.
func WriteCSV(out io.Writer, snaps []*fluid.Snapshot) error {
	w := csv.NewWriter(out)
	if len(snaps) == 0 {
		w.Flush()
		return w.Error()
	}

	if err := w.Write(Header(snaps[0])); err != nil {
		return err
	}
	for _, snap := range snaps {
		if err := w.Write(row(snap)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	slices.SortFunc(runs, func(a, b RunMetadata) int { return a.Timestamp.Compare(b.Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Table is a loaded states.csv.
type Table struct {
	Header []string
	Times  []float64
	Rows   [][]float64
}

// Column returns the named series.
func (t *Table) Column(name string) ([]float64, error) {
	idx := slices.Index(t.Header, name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoColumn, name)
	}
	if idx == 0 {
		return t.Times, nil
	}
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		if idx-1 < len(r) {
			out[i] = r[idx-1]
		}
	}
	return out, nil
}

func (s *Store) CSVPath(runID string) string {
	return filepath.Join(s.baseDir, runID, "states.csv")
}

func (s *Store) LoadStates(runID string) (*Table, error) {
	file, err := os.Open(s.CSVPath(runID))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	table := &Table{}
	if len(records) == 0 {
		return table, nil
	}
	table.Header = records[0]

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		table.Times = append(table.Times, t)

		vals := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				val = 0
			}
			vals = append(vals, val)
		}
		table.Rows = append(table.Rows, vals)
	}

	return table, nil
}
