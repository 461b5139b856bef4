// Package launch runs the training entry point directly, outside a scheduler.
package launch

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/bravo-wd/BasicTS/internal/config"
	"github.com/bravo-wd/BasicTS/internal/job"
	"github.com/bravo-wd/BasicTS/internal/runtime"
	"github.com/bravo-wd/BasicTS/internal/utils"
)

// Command builds the exec.Cmd for a local training run without starting it.
// Split from Run so argv/env assembly is testable.
func Command(spec *job.Spec) (*exec.Cmd, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	list, err := spec.GpuList()
	if err != nil {
		return nil, err
	}

	cfg := &config.Global
	argv := runtime.TrainCommand(cfg, spec.ConfigPath, list)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = runtime.Env(cfg, spec.GpuCount, list)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if spec.WorkDir != "" {
		cmd.Dir = spec.WorkDir
	}
	return cmd, nil
}

// Run launches the trainer in the current session and returns its exit code.
// The trainer's exit code is propagated; preparation failures return -1.
func Run(spec *job.Spec) (int, error) {
	cmd, err := Command(spec)
	if err != nil {
		return -1, err
	}

	logDir := spec.LogDir
	if logDir == "" {
		logDir = config.Global.LogsDir
	}
	if err := utils.EnsureDirs(logDir, config.Global.CkptDir); err != nil {
		return -1, err
	}

	list, _ := spec.GpuList()
	fmt.Printf("Using GPUs %s (%d devices)\n", list, spec.GpuCount)
	utils.PrintDebug("Launching: %s", utils.StyleCommand(cmd.String()))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("failed to launch trainer: %w", err)
	}
	return 0, nil
}
