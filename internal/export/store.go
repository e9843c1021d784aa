// Package export persists simulation runs: per-run directories holding JSON
// metadata and a CSV trajectory, plus SVG rendering of trail canvases.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/devfmo/physkit/internal/verlet"
)

// Store manages run directories under a base data directory.
type Store struct {
	baseDir string
}

// NewStore returns a store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Init creates the base directory.
func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one saved run.
type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	StepSize  float64            `json:"step_size"`
	Duration  float64            `json:"duration"`
	Bodies    int                `json:"bodies"`
	Dropped   float64            `json:"dropped_time"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Sample is one trajectory row: the simulation time and every body's
// kinematic state at that instant.
type Sample struct {
	Time   float64
	States []BodyState
}

// BodyState is one body's position and velocity.
type BodyState struct {
	X, Y, VX, VY float64
}

// Snapshot captures the current state of bodies as a Sample.
func Snapshot(t float64, bodies []*verlet.Body) Sample {
	states := make([]BodyState, len(bodies))
	for i, b := range bodies {
		states[i] = BodyState{X: b.Pos.X, Y: b.Pos.Y, VX: b.Vel.X, VY: b.Vel.Y}
	}
	return Sample{Time: t, States: states}
}

// Save writes a run directory with metadata.json and trajectory.csv and
// returns the run ID.
func (s *Store) Save(meta RunMetadata, samples []Sample) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Scene, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

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

	if err := writeTrajectory(filepath.Join(runDir, "trajectory.csv"), samples); err != nil {
		return "", err
	}
	return runID, nil
}

func writeTrajectory(path string, samples []Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if len(samples) == 0 {
		return nil
	}

	header := []string{"t"}
	for i := range samples[0].States {
		n := strconv.Itoa(i)
		header = append(header, "x"+n, "y"+n, "vx"+n, "vy"+n)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range samples {
		row := make([]string, 0, 1+4*len(s.States))
		row = append(row, formatFloat(s.Time))
		for _, b := range s.States {
			row = append(row, formatFloat(b.X), formatFloat(b.Y), formatFloat(b.VX), formatFloat(b.VY))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// List returns metadata for every saved run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, e.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

// Load reads one run's metadata by ID.
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
