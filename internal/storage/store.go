package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/gyroint/internal/dynamo"
	"github.com/san-kum/gyroint/internal/sim"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

type Store struct {
	baseDir string
	log     *logrus.Entry
}

func New(baseDir string) *Store {
	return &Store{
		baseDir: baseDir,
		log:     logrus.WithField("store", baseDir),
	}
}

func (s *Store) Init() error {
	return errors.Wrap(os.MkdirAll(s.baseDir, 0755), "create data directory")
}

// RunInfo describes how a run was produced.
type RunInfo struct {
	Scenario string
	Axis     string
	Dt       float64
	Seed     int64
}

type RunMetadata struct {
	ID        string           `json:"id"`
	Scenario  string           `json:"scenario"`
	Axis      string           `json:"axis,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Seed      int64            `json:"seed"`
	Dt        float64          `json:"dt"`
	Ticks     int              `json:"ticks"`
	NonFinite int              `json:"non_finite"`
	Final     Float            `json:"final"`
	Metrics   map[string]Float `json:"metrics"`
}

// Series is the per-tick record of one run.
type Series struct {
	Times   dynamo.Series
	Samples dynamo.Series
	Outputs dynamo.Series
}

func SeriesFromResult(r *sim.Result) Series {
	return Series{Times: r.Times, Samples: r.Samples, Outputs: r.Outputs}
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", info.Scenario, now.UnixNano())
	if info.Axis != "" {
		runID = fmt.Sprintf("%s_%s_%d", info.Scenario, info.Axis, now.UnixNano())
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", errors.Wrap(err, "create run directory")
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  info.Scenario,
		Axis:      info.Axis,
		Timestamp: now,
		Seed:      info.Seed,
		Dt:        info.Dt,
		Ticks:     result.TicksTaken,
		NonFinite: result.NonFinite,
		Final:     Float(result.Final),
		Metrics:   toFloatMap(result.Metrics),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeSeries(filepath.Join(runDir, seriesFile), SeriesFromResult(result)); err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{"run": runID, "ticks": meta.Ticks}).Debug("run saved")
	return runID, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create metadata")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encode metadata")
}

func writeSeries(path string, series Series) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create series")
	}
	defer f.Close()

	return WriteCSV(f, series)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, errors.Wrap(err, "list runs")
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.WithError(err).WithField("dir", entry.Name()).Debug("skipping unreadable run")
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(dynamo.ErrNotFound, "run %s", runID)
		}
		return nil, errors.Wrapf(err, "read run %s", runID)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "decode run %s", runID)
	}

	return &meta, nil
}

func (s *Store) LoadSeries(runID string) (Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Series{}, errors.Wrapf(dynamo.ErrNotFound, "series for run %s", runID)
		}
		return Series{}, errors.Wrapf(err, "open series %s", runID)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return Series{}, errors.Wrapf(err, "read series %s", runID)
	}

	var series Series
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 4 {
			return Series{}, errors.Errorf("series %s row %d: %d fields, want 4", runID, i+1, len(record))
		}

		var vals [3]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return Series{}, errors.Wrapf(err, "series %s row %d", runID, i+1)
			}
			vals[j] = v
		}

		series.Times = append(series.Times, vals[0])
		series.Samples = append(series.Samples, vals[1])
		series.Outputs = append(series.Outputs, vals[2])
	}

	return series, nil
}
