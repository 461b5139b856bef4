package launch

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bravo-wd/BasicTS/internal/config"
	"github.com/bravo-wd/BasicTS/internal/job"
)

func setTestConfig(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	old := config.Global
	t.Cleanup(func() { config.Global = old })

	config.Global = config.Config{
		BaseDir:     tmp,
		TrainScript: filepath.Join("experiments", "train.py"),
		LogsDir:     filepath.Join(tmp, "logs"),
		CkptDir:     filepath.Join(tmp, "checkpoints"),
		PythonBin:   "python",
	}
	return tmp
}

func TestCommand(t *testing.T) {
	tmp := setTestConfig(t)

	spec := &job.Spec{
		ConfigPath: "baselines/HyperD/PEMS04.py",
		GpuCount:   4,
		WorkDir:    tmp,
	}

	cmd, err := Command(spec)
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	wantArgs := []string{
		"python",
		filepath.Join(tmp, "experiments", "train.py"),
		"-c", "baselines/HyperD/PEMS04.py",
		"-g", "0,1,2,3",
	}
	if len(cmd.Args) != len(wantArgs) {
		t.Fatalf("args = %v, want %v", cmd.Args, wantArgs)
	}
	for i := range wantArgs {
		if cmd.Args[i] != wantArgs[i] {
			t.Errorf("args[%d] = %q, want %q", i, cmd.Args[i], wantArgs[i])
		}
	}

	if cmd.Dir != tmp {
		t.Errorf("Dir = %q, want %q", cmd.Dir, tmp)
	}

	var gotCount, gotDevices string
	for _, kv := range cmd.Env {
		if v, ok := strings.CutPrefix(kv, "NUM_GPUS="); ok {
			gotCount = v
		}
		if v, ok := strings.CutPrefix(kv, "CUDA_VISIBLE_DEVICES="); ok {
			gotDevices = v
		}
	}
	if gotCount != "4" {
		t.Errorf("NUM_GPUS = %q, want 4", gotCount)
	}
	if gotDevices != "0,1,2,3" {
		t.Errorf("CUDA_VISIBLE_DEVICES = %q, want 0,1,2,3", gotDevices)
	}
}

func TestCommandRejectsInvalidSpec(t *testing.T) {
	setTestConfig(t)

	if _, err := Command(&job.Spec{ConfigPath: "cfg.py", GpuCount: 0}); !errors.Is(err, job.ErrBadGpuCount) {
		t.Errorf("expected ErrBadGpuCount, got %v", err)
	}
	if _, err := Command(&job.Spec{GpuCount: 1}); !errors.Is(err, job.ErrNoConfig) {
		t.Errorf("expected ErrNoConfig, got %v", err)
	}
}
