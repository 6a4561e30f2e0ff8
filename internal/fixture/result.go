package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vaultsandbox/byzbench/internal/harness"
)

// DefaultResultsDir is where sweeps write their result files.
const DefaultResultsDir = "results"

// ManifestFile is the name of the manifest written next to result files.
const ManifestFile = "manifest.json"

// ResultPath returns <dir>/<mode><index>.json.
func ResultPath(dir string, mode harness.FlushMode, index int) string {
	return filepath.Join(dir, fmt.Sprintf("%s%d.json", mode, index))
}

// WriteResult writes sample as a JSON array of nanoseconds and returns the
// path written.
func WriteResult(dir string, mode harness.FlushMode, index int, sample harness.TimingSample) (string, error) {
	path := ResultPath(dir, mode, index)
	if err := writeJSON(path, sample.Nanos()); err != nil {
		return "", err
	}
	return path, nil
}

// ReadResult reads a file written by WriteResult.
func ReadResult(path string) (harness.TimingSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResult, err)
	}
	var nanos []int64
	if err := json.Unmarshal(data, &nanos); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrResult, path, err)
	}

	sample := make(harness.TimingSample, len(nanos))
	for i, n := range nanos {
		if n < 0 {
			return nil, fmt.Errorf("%w: %s: trial %d is negative", ErrResult, path, i)
		}
		sample[i] = time.Duration(n)
	}
	return sample, nil
}

// Manifest describes one sweep.
type Manifest struct {
	RunID       uuid.UUID `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	Fixture     string    `json:"fixture"`
	Modes       []string  `json:"modes"`
	Repetitions int       `json:"repetitions"`
	Runs        int       `json:"runs"`
}

// NewManifest starts a manifest with a fresh run ID.
func NewManifest(fixturePath string, modes []harness.FlushMode, repetitions, runs int) Manifest {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return Manifest{
		RunID:       uuid.New(),
		StartedAt:   time.Now().UTC(),
		Fixture:     fixturePath,
		Modes:       names,
		Repetitions: repetitions,
		Runs:        runs,
	}
}

// WriteManifest writes m to <dir>/manifest.json.
func WriteManifest(dir string, m Manifest) error {
	return writeJSON(filepath.Join(dir, ManifestFile), m)
}

// ReadManifest reads <dir>/manifest.json.
func ReadManifest(dir string) (Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: %v", ErrResult, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: %s: %v", ErrResult, path, err)
	}
	return m, nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrResult, path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrResult, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrResult, err)
	}
	return nil
}
