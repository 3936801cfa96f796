// Package store persists render runs under a data directory, one
// subdirectory per run holding metadata.json and the rendered map.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/basinmap/internal/analysis"
	"github.com/san-kum/basinmap/internal/basin"
	"github.com/san-kum/basinmap/internal/ppm"
	"github.com/san-kum/basinmap/internal/scenario"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Timestamp     time.Time          `json:"timestamp"`
	Integrator    string             `json:"integrator"`
	GridSize      int                `json:"grid_size"`
	Dt            float64            `json:"dt"`
	MaxSteps      int                `json:"max_steps"`
	CaptureRadius float64            `json:"capture_radius"`
	EscapeRadius  float64            `json:"escape_radius"`
	Seed          int64              `json:"seed"`
	ElapsedMs     int64              `json:"elapsed_ms"`
	Scenario      *scenario.Scenario `json:"scenario"`
	Summary       analysis.Summary   `json:"summary"`
}

// Save writes the run directory and returns its ID. The image lands in
// map.ppm next to metadata.json.
func (s *Store) Save(meta RunMetadata, m *basin.Map) (string, error) {
	runID := fmt.Sprintf("%s_%s_%d", meta.Scenario.Name, meta.Integrator, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

	f, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	if err := ppm.WriteFile(filepath.Join(runDir, "map.ppm"), m.Size, m.Size, m.Pixels); err != nil {
		return "", err
	}
	return runID, nil
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
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

// ImagePath returns the location of a run's rendered map.
func (s *Store) ImagePath(runID string) string {
	return filepath.Join(s.baseDir, runID, "map.ppm")
}

// ExportJSONStdout writes a run's metadata to stdout as indented JSON.
func ExportJSONStdout(meta *RunMetadata) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
