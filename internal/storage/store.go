package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/particles/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var ErrMalformedFrames = errors.New("storage: malformed frames file")

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
	Scene      string
	Seed       int64
	Dt         float64
	Steps      int
	Integrator string
	Policy     string
	Masses     []float64
	Bodies     [][]int
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	StepsTaken int                `json:"steps_taken"`
	Particles  int                `json:"particles"`
	Integrator string             `json:"integrator"`
	Policy     string             `json:"policy"`
	Collisions int                `json:"collisions"`
	Masses     []float64          `json:"masses,omitempty"`
	Bodies     [][]int            `json:"bodies,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

func (s *Store) Save(info RunInfo, result *dynamo.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", info.Scene, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scene:      info.Scene,
		Timestamp:  now,
		Seed:       info.Seed,
		Dt:         info.Dt,
		Steps:      info.Steps,
		StepsTaken: result.StepsTaken,
		Particles:  particleCount(result),
		Integrator: info.Integrator,
		Policy:     info.Policy,
		Collisions: result.Collisions,
		Masses:     info.Masses,
		Bodies:     info.Bodies,
		Metrics:    finiteMetrics(result.Metrics),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	if err := WriteFramesCSV(csvFile, result.Frames); err != nil {
		csvFile.Close()
		return "", err
	}
	if err := csvFile.Close(); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns every readable run, newest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]dynamo.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadFramesCSV(file)
}

// WriteFramesCSV writes one row per frame: step, time, then x,y,z per particle.
func WriteFramesCSV(out io.Writer, frames []dynamo.Frame) error {
	w := csv.NewWriter(out)

	if len(frames) > 0 {
		header := []string{"step", "time"}
		for i := 0; i < len(frames[0].Positions)/3; i++ {
			header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i), fmt.Sprintf("z%d", i))
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}

	for _, f := range frames {
		row := make([]string, 0, 2+len(f.Positions))
		row = append(row, strconv.Itoa(f.Step), strconv.FormatFloat(f.Time, 'g', -1, 64))
		for _, v := range f.Positions {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func ReadFramesCSV(in io.Reader) ([]dynamo.Frame, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []dynamo.Frame{}, nil
	}

	frames := make([]dynamo.Frame, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < 2 || (len(record)-2)%3 != 0 {
			return nil, fmt.Errorf("%w: row %d has %d fields", ErrMalformedFrames, i+1, len(record))
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedFrames, i+1, err)
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedFrames, i+1, err)
		}

		positions := make([]float64, len(record)-2)
		for j, field := range record[2:] {
			positions[j], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedFrames, i+1, err)
			}
		}
		frames = append(frames, dynamo.Frame{Step: step, Time: t, Positions: positions})
	}
	return frames, nil
}

// Info reconstructs the run description stored with the metadata.
func (m *RunMetadata) Info() RunInfo {
	return RunInfo{
		Scene:      m.Scene,
		Seed:       m.Seed,
		Dt:         m.Dt,
		Steps:      m.Steps,
		Integrator: m.Integrator,
		Policy:     m.Policy,
		Masses:     m.Masses,
		Bodies:     m.Bodies,
	}
}

func particleCount(result *dynamo.Result) int {
	if len(result.Frames) == 0 {
		return 0
	}
	return len(result.Frames[0].Positions) / 3
}

// finiteMetrics drops values JSON cannot encode.
func finiteMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[k] = v
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
