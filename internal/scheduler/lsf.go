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

// LsfScheduler implements the Scheduler interface for IBM Spectrum LSF
type LsfScheduler struct {
	bsubBin string
	jobIDRe *regexp.Regexp
}

// NewLsfScheduler creates a new LSF scheduler instance using bsub from PATH
func NewLsfScheduler() (*LsfScheduler, error) {
	return newLsfSchedulerWithBinary("")
}

// NewLsfSchedulerWithBinary creates an LSF scheduler using an explicit bsub path
func NewLsfSchedulerWithBinary(bsubBin string) (*LsfScheduler, error) {
	return newLsfSchedulerWithBinary(bsubBin)
}

func newLsfSchedulerWithBinary(bsubBin string) (*LsfScheduler, error) {
	binPath := bsubBin
	if binPath == "" {
		var err error
		binPath, err = exec.LookPath("bsub")
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

	return &LsfScheduler{
		bsubBin: binPath,
		jobIDRe: regexp.MustCompile(`Job <(\d+)> is submitted`),
	}, nil
}

// IsAvailable checks if LSF is usable and we're not inside an LSF job
func (l *LsfScheduler) IsAvailable() bool {
	if l.bsubBin == "" {
		return false
	}
	if _, inJob := os.LookupEnv("LSB_JOBID"); inJob {
		return false
	}
	return true
}

// GetInfo returns information about the LSF scheduler
func (l *LsfScheduler) GetInfo() *Info {
	_, inJob := os.LookupEnv("LSB_JOBID")

	info := &Info{
		Type:      string(TypeLSF),
		Binary:    l.bsubBin,
		InJob:     inJob,
		Available: l.IsAvailable(),
	}

	if l.bsubBin != "" {
		if version, err := l.getVersion(); err == nil {
			info.Version = version
		}
	}

	return info
}

// getVersion parses the version from "IBM Spectrum LSF 10.1.0.0, ..." output
func (l *LsfScheduler) getVersion() (string, error) {
	output, err := exec.Command(l.bsubBin, "-V").CombinedOutput()
	if err != nil {
		return "", err
	}
	line := strings.SplitN(strings.TrimSpace(string(output)), "\n", 2)[0]
	fields := strings.Fields(strings.TrimSuffix(strings.SplitN(line, ",", 2)[0], ","))
	if len(fields) > 0 {
		return strings.TrimSuffix(fields[len(fields)-1], ","), nil
	}
	return line, nil
}

// CreateScript generates an LSF batch script for the job descriptor
func (l *LsfScheduler) CreateScript(spec *job.Spec, outputDir string) (string, error) {
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

	scriptPath := filepath.Join(outputDir, fmt.Sprintf("%s.lsf", name))
	file, err := os.Create(scriptPath)
	if err != nil {
		return "", NewScriptCreationError(name, scriptPath, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	fmt.Fprintln(writer, "#!/bin/bash")
	fmt.Fprintf(writer, "#BSUB -J %s\n", name)
	if spec.Queue != "" {
		fmt.Fprintf(writer, "#BSUB -q %s\n", spec.Queue)
	}
	fmt.Fprintf(writer, "#BSUB -gpu \"num=%d\"\n", spec.GpuCount)
	fmt.Fprintf(writer, "#BSUB -o %s\n", filepath.Join(logDir, name+".%J.out"))
	fmt.Fprintf(writer, "#BSUB -e %s\n", filepath.Join(logDir, name+".%J.err"))
	if spec.WorkDir != "" {
		fmt.Fprintf(writer, "#BSUB -cwd %s\n", spec.WorkDir)
	}
	if spec.Time > 0 {
		fmt.Fprintf(writer, "#BSUB -W %s\n", formatLsfTime(spec.Time))
	}
	if spec.MemMB > 0 {
		fmt.Fprintf(writer, "#BSUB -R \"rusage[mem=%d]\"\n", spec.MemMB)
	}
	fmt.Fprintln(writer, "")

	writeJobHeader(writer, "$LSB_JOBID", spec)
	if err := writeBody(writer, spec); err != nil {
		return "", NewScriptCreationError(name, scriptPath, err)
	}
	writeJobFooter(writer, "$LSB_JOBID")

	if err := os.Chmod(scriptPath, utils.PermExec); err != nil {
		return "", NewScriptCreationError(name, scriptPath, err)
	}

	return scriptPath, nil
}

// Submit hands a generated script to bsub on stdin and returns the job ID.
// LSF only honors #BSUB directives when the script arrives via stdin.
func (l *LsfScheduler) Submit(scriptPath string) (string, error) {
	file, err := os.Open(scriptPath)
	if err != nil {
		return "", NewSubmissionError(string(TypeLSF), filepath.Base(scriptPath), "", err)
	}
	defer file.Close()

	cmd := exec.Command(l.bsubBin)
	cmd.Stdin = file
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", NewSubmissionError(string(TypeLSF), filepath.Base(scriptPath), string(output), err)
	}
	return l.parseJobID(string(output))
}

// parseJobID extracts the job ID from "Job <12345> is submitted ..." output
func (l *LsfScheduler) parseJobID(output string) (string, error) {
	matches := l.jobIDRe.FindStringSubmatch(output)
	if len(matches) < 2 {
		return "", fmt.Errorf("%w: %s", ErrJobIDParseFailed, output)
	}
	return matches[1], nil
}

// formatLsfTime renders a duration as HH:MM for the -W limit
func formatLsfTime(d time.Duration) string {
	total := int64(d.Minutes())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
