package scheduler

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/bravo-wd/BasicTS/internal/config"
	"github.com/bravo-wd/BasicTS/internal/job"
)

// newTestSlurmScheduler builds a scheduler without touching PATH.
func newTestSlurmScheduler() *SlurmScheduler {
	return &SlurmScheduler{
		sbatchBin: "/usr/bin/sbatch",
		jobIDRe:   regexp.MustCompile(`Submitted batch job (\d+)`),
	}
}

// setTestConfig points the global config at a temp framework layout.
func setTestConfig(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	old := config.Global
	t.Cleanup(func() { config.Global = old })

	config.Global = config.Config{
		BaseDir:     tmp,
		TrainScript: filepath.Join("experiments", "train.py"),
		LogsDir:     filepath.Join(tmp, "logs"),
		ScriptsDir:  filepath.Join(tmp, "logs", "scripts"),
		CkptDir:     filepath.Join(tmp, "checkpoints"),
		PythonBin:   "python",
		CondaRoot:   "/opt/miniconda3",
		CondaEnv:    "basicts",
	}
	return tmp
}

func TestSlurmScriptGeneration(t *testing.T) {
	tmp := setTestConfig(t)
	sched := newTestSlurmScheduler()

	spec := &job.Spec{
		ConfigPath: "baselines/HyperD/PEMS04.py",
		GpuCount:   4,
		Queue:      "gpu",
		WorkDir:    tmp,
		Time:       24 * time.Hour,
		MemMB:      32768,
	}

	scriptPath, err := sched.CreateScript(spec, config.Global.ScriptsDir)
	if err != nil {
		t.Fatalf("CreateScript failed: %v", err)
	}
	data, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatal(err)
	}
	script := string(data)

	checks := []struct{ label, want string }{
		{"shebang", "#!/bin/bash"},
		{"job name", "#SBATCH --job-name=HyperD_PEMS04"},
		{"stdout log", "#SBATCH --output=" + filepath.Join(tmp, "logs", "HyperD_PEMS04.out")},
		{"stderr log", "#SBATCH --error=" + filepath.Join(tmp, "logs", "HyperD_PEMS04.err")},
		{"partition", "#SBATCH --partition=gpu"},
		{"gpu request", "#SBATCH --gres=gpu:4"},
		{"working dir", "#SBATCH --chdir=" + tmp},
		{"walltime", "#SBATCH --time=1-00:00:00"},
		{"memory", "#SBATCH --mem=32768mb"},
		{"strict mode", "set -e"},
		{"log dirs", "mkdir -p " + filepath.Join(tmp, "logs") + " " + filepath.Join(tmp, "checkpoints")},
		{"conda source", "source /opt/miniconda3/etc/profile.d/conda.sh"},
		{"conda activate", "conda activate basicts"},
		{"lib path", "export LD_LIBRARY_PATH=$CONDA_PREFIX/lib:$LD_LIBRARY_PATH"},
		{"count export", "export NUM_GPUS=4"},
		{"gpu list", "GPU_LIST=0,1,2,3"},
		{"info line", `echo "Using GPUs ${GPU_LIST} (4 devices)"`},
		{"train launch", "python " + filepath.Join(tmp, "experiments", "train.py") + " -c baselines/HyperD/PEMS04.py -g ${GPU_LIST}"},
		{"job id header", "$SLURM_JOB_ID"},
	}

	for _, c := range checks {
		if !strings.Contains(script, c.want) {
			t.Errorf("[%s] missing %q\nScript:\n%s", c.label, c.want, script)
		}
	}
}

func TestSlurmScriptMinimalSpec(t *testing.T) {
	setTestConfig(t)
	sched := newTestSlurmScheduler()

	spec := &job.Spec{ConfigPath: "baselines/STID/PEMS08.py", GpuCount: 1}

	scriptPath, err := sched.CreateScript(spec, config.Global.ScriptsDir)
	if err != nil {
		t.Fatalf("CreateScript failed: %v", err)
	}
	data, _ := os.ReadFile(scriptPath)
	script := string(data)

	if !strings.Contains(script, "GPU_LIST=0\n") {
		t.Error("single-device job should render GPU_LIST=0")
	}
	if strings.Contains(script, "--partition") {
		t.Error("no partition directive expected without a queue")
	}
	if strings.Contains(script, "--time") {
		t.Error("no time directive expected without a walltime")
	}
	if strings.Contains(script, "--mem=") {
		t.Error("no memory directive expected without a request")
	}
}

func TestSlurmScriptRejectsInvalidSpec(t *testing.T) {
	setTestConfig(t)
	sched := newTestSlurmScheduler()

	spec := &job.Spec{ConfigPath: "baselines/HyperD/PEMS04.py", GpuCount: 0}
	if _, err := sched.CreateScript(spec, config.Global.ScriptsDir); err == nil {
		t.Fatal("expected error for zero GPU count")
	} else if !errors.Is(err, job.ErrBadGpuCount) {
		t.Errorf("expected ErrBadGpuCount, got %v", err)
	}

	spec = &job.Spec{GpuCount: 4}
	if _, err := sched.CreateScript(spec, config.Global.ScriptsDir); !errors.Is(err, job.ErrNoConfig) {
		t.Errorf("expected ErrNoConfig, got %v", err)
	}
}

func TestSlurmScriptIdempotentDirs(t *testing.T) {
	setTestConfig(t)
	sched := newTestSlurmScheduler()

	spec := &job.Spec{ConfigPath: "baselines/HyperD/PEMS04.py", GpuCount: 2}

	// Running twice must not fail on pre-existing directories
	if _, err := sched.CreateScript(spec, config.Global.ScriptsDir); err != nil {
		t.Fatalf("first CreateScript failed: %v", err)
	}
	if _, err := sched.CreateScript(spec, config.Global.ScriptsDir); err != nil {
		t.Fatalf("second CreateScript failed: %v", err)
	}
}

func TestSlurmParseJobID(t *testing.T) {
	sched := newTestSlurmScheduler()

	id, err := sched.parseJobID("Submitted batch job 123456\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "123456" {
		t.Errorf("parseJobID = %q, want 123456", id)
	}

	if _, err := sched.parseJobID("sbatch: error: invalid partition"); !errors.Is(err, ErrJobIDParseFailed) {
		t.Errorf("expected ErrJobIDParseFailed, got %v", err)
	}
}

func TestSlurmAvailability(t *testing.T) {
	sched := newTestSlurmScheduler()

	t.Setenv("SLURM_JOB_ID", "99")
	if sched.IsAvailable() {
		t.Error("scheduler should be unavailable inside a SLURM job")
	}
	info := sched.GetInfo()
	if !info.InJob {
		t.Error("GetInfo should report InJob inside a SLURM job")
	}
}

func TestFormatSlurmTime(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Minute, "00:30:00"},
		{2 * time.Hour, "02:00:00"},
		{24 * time.Hour, "1-00:00:00"},
		{72*time.Hour + 30*time.Minute, "3-00:30:00"},
	}
	for _, c := range cases {
		if got := formatSlurmTime(c.in); got != c.want {
			t.Errorf("formatSlurmTime(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
