// Package storage persists simulation runs: one JSON metadata file plus an
// optional CSV trajectory per run, under a base directory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/is-jow/dipolesim/internal/solver"
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
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Atoms     int                `json:"atoms"`
	Detuning  float64            `json:"detuning"`
	Rabi      float64            `json:"rabi"`
	Gamma     float64            `json:"gamma"`
	K0        float64            `json:"k0"`
	Duration  float64            `json:"duration"`
	Seed      int64              `json:"seed"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes metadata and, when the result carries a trajectory, a CSV with
// one row per sample: t, then Re and Im of every state component. It returns
// the run ID.
func (s *Store) Save(meta RunMetadata, result *solver.Result) (string, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Model, time.Now().Unix())
	}
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, "meta.json"), data, 0644); err != nil {
		return "", err
	}

	if len(result.Times) > 0 {
		if err := s.writeTrajectory(filepath.Join(runDir, "trajectory.csv"), result); err != nil {
			return "", err
		}
	}
	return meta.ID, nil
}

func (s *Store) writeTrajectory(path string, result *solver.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	dim := len(result.States[0])
	header := make([]string, 0, 1+2*dim)
	header = append(header, "t")
	for i := 0; i < dim; i++ {
		header = append(header, fmt.Sprintf("re_%d", i), fmt.Sprintf("im_%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, 1+2*dim)
	for i, t := range result.Times {
		row[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for j, v := range result.States[i] {
			row[1+2*j] = strconv.FormatFloat(real(v), 'g', -1, 64)
			row[2+2*j] = strconv.FormatFloat(imag(v), 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// List returns metadata for every stored run, newest last.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, e.Name(), "meta.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}
