// Package job defines the batch job descriptor handed to a scheduler backend.
package job

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bravo-wd/BasicTS/internal/gpu"
)

// Common validation errors
var (
	// ErrNoConfig indicates a missing experiment config path
	ErrNoConfig = errors.New("experiment config path is required")

	// ErrBadGpuCount indicates a GPU count below 1
	ErrBadGpuCount = errors.New("GPU count must be at least 1")
)

// Spec describes one training submission: which experiment to run, how many
// devices it gets, and where the scheduler should put it.
type Spec struct {
	ConfigPath string        // experiment config handed to the trainer via -c
	GpuCount   int           // accelerator request (N)
	Name       string        // job name ("" = derived from ConfigPath)
	Queue      string        // queue/partition ("" = scheduler default)
	WorkDir    string        // working directory for the job
	LogDir     string        // directory for stdout/stderr logs
	Time       time.Duration // walltime limit (0 = scheduler default)
	MemMB      int64         // memory request per node (0 = scheduler default)
}

// Validate checks the descriptor before script generation.
func (s *Spec) Validate() error {
	if strings.TrimSpace(s.ConfigPath) == "" {
		return ErrNoConfig
	}
	if s.GpuCount < 1 {
		return fmt.Errorf("%w: got %d", ErrBadGpuCount, s.GpuCount)
	}
	return nil
}

// GpuList returns the accelerator index list for this job ("0,1,...,N-1").
func (s *Spec) GpuList() (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	return gpu.IndexList(s.GpuCount)
}

// EffectiveName returns the explicit job name, or one derived from the
// experiment config path.
func (s *Spec) EffectiveName() string {
	if s.Name != "" {
		return s.Name
	}
	return DeriveName(s.ConfigPath)
}

// DeriveName builds a job name from an experiment config path.
// "baselines/HyperD/PEMS04.py" → "HyperD_PEMS04";
// a bare "PEMS04.py" → "PEMS04".
func DeriveName(configPath string) string {
	base := filepath.Base(configPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		return "train"
	}

	parent := filepath.Base(filepath.Dir(configPath))
	if parent == "." || parent == "/" || parent == "" || parent == "baselines" {
		return sanitizeName(base)
	}
	return sanitizeName(parent + "_" + base)
}

// sanitizeName makes a job name safe for schedulers and log filenames.
func sanitizeName(name string) string {
	r := strings.NewReplacer("/", "--", " ", "_", ":", "_")
	return r.Replace(name)
}
