package scheduler

import (
	"fmt"
	"io"
	"strings"

	"github.com/bravo-wd/BasicTS/internal/config"
	"github.com/bravo-wd/BasicTS/internal/job"
	"github.com/bravo-wd/BasicTS/internal/runtime"
)

// writeBody writes the scheduler-independent payload of a batch script:
// strict-error mode, log directory creation, runtime activation, GPU exports,
// the informational device line, and the training launch.
//
// Rendered for a 4-GPU job:
//
//	set -e
//	mkdir -p <logs> <checkpoints>
//	source <conda>/etc/profile.d/conda.sh
//	conda activate <env>
//	export LD_LIBRARY_PATH=$CONDA_PREFIX/lib:$LD_LIBRARY_PATH
//	export NUM_GPUS=4
//	GPU_LIST=0,1,2,3
//	echo "Using GPUs ${GPU_LIST} (4 devices)"
//	python <train.py> -c <config> -g ${GPU_LIST}
func writeBody(w io.Writer, spec *job.Spec) error {
	cfg := &config.Global

	list, err := spec.GpuList()
	if err != nil {
		return err
	}

	// Any failing step aborts the whole job with a non-zero status
	fmt.Fprintln(w, "set -e")
	fmt.Fprintln(w, "")

	logDir := spec.LogDir
	if logDir == "" {
		logDir = cfg.LogsDir
	}
	fmt.Fprintf(w, "mkdir -p %s %s\n", logDir, cfg.CkptDir)
	fmt.Fprintln(w, "")

	if lines := runtime.ActivationLines(cfg); len(lines) > 0 {
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w, "")
	}

	for _, line := range runtime.ExportLines(spec.GpuCount) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "GPU_LIST=%s\n", list)
	fmt.Fprintf(w, "echo \"Using GPUs ${GPU_LIST} (%d devices)\"\n", spec.GpuCount)
	fmt.Fprintln(w, "")

	argv := runtime.TrainCommand(cfg, spec.ConfigPath, "${GPU_LIST}")
	fmt.Fprintln(w, strings.Join(argv, " "))

	return nil
}

// writeJobHeader writes the job info echo block.
// jobIDVar is the shell expression for the job ID (e.g. "$SLURM_JOB_ID").
func writeJobHeader(w io.Writer, jobIDVar string, spec *job.Spec) {
	fmt.Fprintln(w, "echo \"========================================\"")
	fmt.Fprintf(w, "echo \"Job ID:    %s\"\n", jobIDVar)
	fmt.Fprintf(w, "echo \"Job Name:  %s\"\n", spec.EffectiveName())
	fmt.Fprintf(w, "echo \"Config:    %s\"\n", spec.ConfigPath)
	fmt.Fprintf(w, "echo \"GPUs:      %d\"\n", spec.GpuCount)
	fmt.Fprintln(w, "echo \"PWD:       $(pwd)\"")
	fmt.Fprintf(w, "%s\n", "echo \"Started:   $(date '+%Y-%m-%d %T')\"")
	fmt.Fprintln(w, "echo \"========================================\"")
	fmt.Fprintln(w, "")
}

// writeJobFooter writes the job completion echo block.
func writeJobFooter(w io.Writer, jobIDVar string) {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "echo \"========================================\"")
	fmt.Fprintf(w, "echo \"Job ID:    %s\"\n", jobIDVar)
	fmt.Fprintf(w, "%s\n", "echo \"Completed: $(date '+%Y-%m-%d %T')\"")
	fmt.Fprintln(w, "echo \"========================================\"")
}
