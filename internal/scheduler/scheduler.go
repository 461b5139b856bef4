// Package scheduler provides a unified interface for HPC job schedulers.
package scheduler

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/bravo-wd/BasicTS/internal/job"
)

// Type represents the type of job scheduler
type Type string

const (
	TypeUnknown Type = ""
	TypeSLURM   Type = "SLURM"
	TypeLSF     Type = "LSF"
)

// Info holds information about the detected scheduler
type Info struct {
	Type      string // Scheduler type (e.g., "SLURM", "LSF")
	Binary    string // Path to the submit binary (e.g., "/usr/bin/sbatch")
	Version   string // Scheduler version (if available)
	InJob     bool   // Whether we're currently inside a scheduled job
	Available bool   // Whether scheduler is available for job submission
}

// Scheduler defines the interface for job schedulers
type Scheduler interface {
	// IsAvailable checks if the scheduler is usable and we're not already in a job
	IsAvailable() bool

	// CreateScript generates a batch script for the given job descriptor
	// and returns the path to the created script
	CreateScript(spec *job.Spec, outputDir string) (string, error)

	// Submit hands a generated script to the scheduler binary
	// and returns the job ID assigned by the scheduler
	Submit(scriptPath string) (string, error)

	// GetInfo returns information about the scheduler
	GetInfo() *Info
}

// Detect attempts to detect and return an available scheduler.
// Returns ErrSchedulerNotAvailable when one is found but submission is not
// possible (e.g. inside a job), or ErrSchedulerNotFound when none exists.
func Detect() (Scheduler, error) {
	sched, err := DetectWithBinary("")
	if err != nil {
		return nil, err
	}
	if !sched.IsAvailable() {
		return nil, ErrSchedulerNotAvailable
	}
	return sched, nil
}

// DetectWithBinary attempts to initialize a scheduler using a preferred submit
// binary path. If preferredBin is empty, detection falls back to PATH lookup.
// The returned scheduler may be unavailable; use Detect to require availability.
func DetectWithBinary(preferredBin string) (Scheduler, error) {
	if preferredBin != "" {
		switch filepath.Base(preferredBin) {
		case "bsub", "bjobs", "bkill":
			return NewLsfSchedulerWithBinary(preferredBin)
		default:
			// sbatch and anything else defaults to SLURM
			return NewSlurmSchedulerWithBinary(preferredBin)
		}
	}

	// SLURM first (most common)
	slurm, err := NewSlurmScheduler()
	if err == nil {
		return slurm, nil
	}

	lsf, lsfErr := NewLsfScheduler()
	if lsfErr == nil {
		return lsf, nil
	}

	return nil, ErrSchedulerNotFound
}

// DetectType returns the type of scheduler available on the system without
// initializing it.
func DetectType() Type {
	if _, err := exec.LookPath("sbatch"); err == nil {
		return TypeSLURM
	}
	if _, err := exec.LookPath("bsub"); err == nil {
		return TypeLSF
	}
	return TypeUnknown
}

// IsInsideJob checks if we're currently running inside a scheduler job.
// Used to refuse nested job submission.
func IsInsideJob() bool {
	if _, ok := os.LookupEnv("SLURM_JOB_ID"); ok {
		return true
	}
	if _, ok := os.LookupEnv("LSB_JOBID"); ok {
		return true
	}
	return false
}
