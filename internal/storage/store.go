package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mlund/particletracking/internal/analysis"
	"github.com/mlund/particletracking/internal/config"
	"github.com/mlund/particletracking/internal/export"
	"github.com/mlund/particletracking/internal/mc"
	"github.com/mlund/particletracking/internal/space"
)

// Store keeps one directory per finished run: metadata.json, hist.dat,
// state.json and confout.pqr.
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
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Particles   int                `json:"particles"`
	Box         float64            `json:"box"`
	Periodic    bool               `json:"periodic"`
	Iterations  int                `json:"iterations"`
	KT          float64            `json:"kt"`
	Potential   string             `json:"potential"`
	Acceptance  map[string]float64 `json:"acceptance"`
	FinalEnergy float64            `json:"final_energy"`
	Elapsed     float64            `json:"elapsed_seconds"`
}

// Save persists a finished run and returns its id.
func (s *Store) Save(cfg *config.Config, res *mc.Result, sp *space.Space, hist *analysis.Histogram, elapsed time.Duration) (string, error) {
	runID := fmt.Sprintf("mc_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   time.Now(),
		Seed:        cfg.Seed,
		Particles:   cfg.Particles,
		Box:         cfg.Box,
		Periodic:    cfg.Periodic,
		Iterations:  res.Iterations,
		KT:          cfg.KT,
		Potential:   cfg.Potential.Name,
		Acceptance:  res.Acceptance,
		FinalEnergy: res.FinalEnergy,
		Elapsed:     elapsed.Seconds(),
	}

	f, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := hist.Save(filepath.Join(runDir, "hist.dat")); err != nil {
		return "", err
	}
	if err := sp.Save(filepath.Join(runDir, "state.json")); err != nil {
		return "", err
	}
	if err := export.SavePQR(filepath.Join(runDir, "confout.pqr"), sp.Particles); err != nil {
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

// LoadHistogram reads a stored hist.dat back as center/count columns.
func (s *Store) LoadHistogram(runID string) ([]float64, []int64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "hist.dat"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var centers []float64
	var counts []int64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		c, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		n, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			continue
		}
		centers = append(centers, c)
		counts = append(counts, n)
	}
	return centers, counts, sc.Err()
}

// PQRPath points at the stored trajectory file for a run.
func (s *Store) PQRPath(runID string) string {
	return filepath.Join(s.baseDir, runID, "confout.pqr")
}

// StatePath points at the stored particle state for a run.
func (s *Store) StatePath(runID string) string {
	return filepath.Join(s.baseDir, runID, "state.json")
}
