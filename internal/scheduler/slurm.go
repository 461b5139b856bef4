package scheduler

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/bravo-wd/BasicTS/internal/config"
	"github.com/bravo-wd/BasicTS/internal/job"
	"github.com/bravo-wd/BasicTS/internal/utils"
)

// SlurmScheduler implements the Scheduler interface for SLURM
type SlurmScheduler struct {
	sbatchBin string
	jobIDRe   *regexp.Regexp
}

// NewSlurmScheduler creates a new SLURM scheduler instance using sbatch from PATH
func NewSlurmScheduler() (*SlurmScheduler, error) {
	return newSlurmSchedulerWithBinary("")
}

// NewSlurmSchedulerWithBinary creates a SLURM scheduler using an explicit sbatch path
func NewSlurmSchedulerWithBinary(sbatchBin string) (*SlurmScheduler, error) {
	return newSlurmSchedulerWithBinary(sbatchBin)
}

func newSlurmSchedulerWithBinary(sbatchBin string) (*SlurmScheduler, error) {
	binPath := sbatchBin
	if binPath == "" {
		var err error
		binPath, err = exec.LookPath("sbatch")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchedulerNotFound, err)
		}
	} else {
		if absPath, err := filepath.Abs(binPath); err == nil {
			binPath = absPath
		}
		info, err := os.Stat(binPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchedulerNotFound, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", ErrSchedulerNotFound, binPath)
		}
	}

	return &SlurmScheduler{
		sbatchBin: binPath,
		jobIDRe:   regexp.MustCompile(`Submitted batch job (\d+)`),
	}, nil
}

// IsAvailable checks if SLURM is usable and we're not inside a SLURM job
func (s *SlurmScheduler) IsAvailable() bool {
	if s.sbatchBin == "" {
		return false
	}
	if _, inJob := os.LookupEnv("SLURM_JOB_ID"); inJob {
		return false
	}
	return true
}

// GetInfo returns information about the SLURM scheduler
func (s *SlurmScheduler) GetInfo() *Info {
	_, inJob := os.LookupEnv("SLURM_JOB_ID")

	info := &Info{
		Type:      string(TypeSLURM),
		Binary:    s.sbatchBin,
		InJob:     inJob,
		Available: s.IsAvailable(),
	}

	if s.sbatchBin != "" {
		if version, err := s.getVersion(); err == nil {
			info.Version = version
		}
	}

	return info
}

// getVersion parses the version from "slurm 23.02.6" style output
func (s *SlurmScheduler) getVersion() (string, error) {
	output, err := exec.Command(s.sbatchBin, "--version").Output()
	if err != nil {
		return "", err
	}
	parts := strings.Fields(strings.TrimSpace(string(output)))
	if len(parts) >= 2 {
		return parts[1], nil
	}
	return strings.TrimSpace(string(output)), nil
}

// CreateScript generates a SLURM batch script for the job descriptor
func (s *SlurmScheduler) CreateScript(spec *job.Spec, outputDir string) (string, error) {
	name := spec.EffectiveName()

	if err := spec.Validate(); err != nil {
		return "", NewScriptCreationError(name, outputDir, err)
	}

	logDir := spec.LogDir
	if logDir == "" {
		logDir = config.Global.LogsDir
	}
	if err := utils.EnsureDirs(outputDir, logDir); err != nil {
		return "", NewScriptCreationError(name, outputDir, err)
	}

	scriptPath := filepath.Join(outputDir, fmt.Sprintf("%s.sbatch", name))
	file, err := os.Create(scriptPath)
	if err != nil {
		return "", NewScriptCreationError(name, scriptPath, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	fmt.Fprintln(writer, "#!/bin/bash")
	fmt.Fprintf(writer, "#SBATCH --job-name=%s\n", name)
	fmt.Fprintf(writer, "#SBATCH --output=%s\n", filepath.Join(logDir, name+".out"))
	fmt.Fprintf(writer, "#SBATCH --error=%s\n", filepath.Join(logDir, name+".err"))
	if spec.Queue != "" {
		fmt.Fprintf(writer, "#SBATCH --partition=%s\n", spec.Queue)
	}
	fmt.Fprintf(writer, "#SBATCH --gres=gpu:%d\n", spec.GpuCount)
	if spec.WorkDir != "" {
		fmt.Fprintf(writer, "#SBATCH --chdir=%s\n", spec.WorkDir)
	}
	if spec.Time > 0 {
		fmt.Fprintf(writer, "#SBATCH --time=%s\n", formatSlurmTime(spec.Time))
	}
	if spec.MemMB > 0 {
		fmt.Fprintf(writer, "#SBATCH --mem=%dmb\n", spec.MemMB)
	}
	fmt.Fprintln(writer, "")

	writeJobHeader(writer, "$SLURM_JOB_ID", spec)
	if err := writeBody(writer, spec); err != nil {
		return "", NewScriptCreationError(name, scriptPath, err)
	}
	writeJobFooter(writer, "$SLURM_JOB_ID")

	if err := os.Chmod(scriptPath, utils.PermExec); err != nil {
		return "", NewScriptCreationError(name, scriptPath, err)
	}

	return scriptPath, nil
}

// Submit submits a generated script via sbatch and returns the job ID
func (s *SlurmScheduler) Submit(scriptPath string) (string, error) {
	output, err := exec.Command(s.sbatchBin, scriptPath).CombinedOutput()
	if err != nil {
		return "", NewSubmissionError(string(TypeSLURM), filepath.Base(scriptPath), string(output), err)
	}
	return s.parseJobID(string(output))
}

// parseJobID extracts the job ID from "Submitted batch job 12345" output
func (s *SlurmScheduler) parseJobID(output string) (string, error) {
	matches := s.jobIDRe.FindStringSubmatch(output)
	if len(matches) < 2 {
		return "", fmt.Errorf("%w: %s", ErrJobIDParseFailed, output)
	}
	return matches[1], nil
}

// formatSlurmTime renders a duration as D-HH:MM:SS (or HH:MM:SS under a day)
func formatSlurmTime(d time.Duration) string {
	total := int64(d.Seconds())
	days := total / (24 * 3600)
	rem := total % (24 * 3600)
	hours := rem / 3600
	rem %= 3600
	minutes := rem / 60
	seconds := rem % 60
	if days > 0 {
		return fmt.Sprintf("%d-%02d:%02d:%02d", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
