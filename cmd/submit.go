package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bravo-wd/BasicTS/internal/config"
	"github.com/bravo-wd/BasicTS/internal/job"
	"github.com/bravo-wd/BasicTS/internal/launch"
	"github.com/bravo-wd/BasicTS/internal/scheduler"
	"github.com/bravo-wd/BasicTS/internal/utils"
)

var (
	submitConfig string
	submitGpus   int
	submitName   string
	submitQueue  string
	submitTime   string
	submitMem    string
	submitDryRun bool
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a training job to the cluster scheduler",
	Long: `Submit a training job to the detected cluster scheduler.

Generates a batch script carrying the queue descriptor, conda activation,
GPU exports, and the training launch line, then hands it to the scheduler.
With --local (or when no scheduler is available and --dry-run is not set),
the trainer runs directly in the current session.`,
	Example: `  tsrun submit -c baselines/HyperD/PEMS04.py -g 4
  tsrun submit -c baselines/STID/PEMS08.py -g 8 -q gpuqueue --time 2d
  tsrun submit -c baselines/HyperD/PEMS04.py -g 4 --dry-run`,
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringVarP(&submitConfig, "config", "c", "", "Experiment config passed to the trainer (required)")
	submitCmd.Flags().IntVarP(&submitGpus, "gpus", "g", 1, "Number of GPUs to request")
	submitCmd.Flags().StringVarP(&submitName, "name", "J", "", "Job name (default: derived from the config path)")
	submitCmd.Flags().StringVarP(&submitQueue, "queue", "q", "", "Queue/partition to submit to")
	submitCmd.Flags().StringVar(&submitTime, "time", "", "Walltime limit (e.g. 24h, 2d, 24:00:00)")
	submitCmd.Flags().StringVar(&submitMem, "mem", "", "Memory request (e.g. 32G, 8192M)")
	submitCmd.Flags().BoolVar(&submitDryRun, "dry-run", false, "Generate the batch script without submitting")
	submitCmd.MarkFlagRequired("config")
}

// buildSpec assembles the job descriptor from flags and config defaults.
func buildSpec() (*job.Spec, error) {
	spec := &job.Spec{
		ConfigPath: submitConfig,
		GpuCount:   submitGpus,
		Name:       submitName,
		Queue:      submitQueue,
		WorkDir:    config.Global.BaseDir,
		LogDir:     config.Global.LogsDir,
		Time:       config.Global.DefaultTime,
		MemMB:      config.Global.DefaultMemMB,
	}
	if spec.Queue == "" {
		spec.Queue = config.Global.Queue
	}
	if submitTime != "" {
		d, err := utils.ParseDuration(submitTime)
		if err != nil {
			return nil, fmt.Errorf("invalid --time: %w", err)
		}
		spec.Time = d
	}
	if submitMem != "" {
		mb, err := utils.ParseSizeToMB(submitMem)
		if err != nil {
			return nil, fmt.Errorf("invalid --mem: %w", err)
		}
		spec.MemMB = mb
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// warnMissingConfig flags an experiment config the trainer will not find.
// Non-fatal: on some sites the submit host does not mount the compute
// filesystem, so the job may still be valid.
func warnMissingConfig(spec *job.Spec) {
	path := spec.ConfigPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(spec.WorkDir, path)
	}
	if !utils.FileExists(path) {
		utils.PrintWarning("Experiment config not found: %s", utils.StylePath(path))
	}
}

func runSubmit(cmd *cobra.Command, args []string) error {
	spec, err := buildSpec()
	if err != nil {
		return err
	}
	warnMissingConfig(spec)

	list, err := spec.GpuList()
	if err != nil {
		return err
	}
	utils.PrintMessage("Using GPUs %s (%s devices)", utils.StyleNumber(list), utils.StyleNumber(spec.GpuCount))

	// Log directories must exist before submission: the scheduler opens the
	// stdout/stderr paths at job start.
	if err := utils.EnsureDirs(spec.LogDir, config.Global.ScriptsDir); err != nil {
		return err
	}

	sched := scheduler.ActiveScheduler()
	if sched == nil {
		if submitDryRun {
			return scheduler.ErrSchedulerNotAvailable
		}
		if scheduler.IsInsideJob() {
			return scheduler.ErrAlreadyInJob
		}
		utils.PrintNote("No scheduler available; running locally.")
		return runLocally(spec)
	}

	scriptPath, err := sched.CreateScript(spec, config.Global.ScriptsDir)
	if err != nil {
		return err
	}
	utils.PrintMessage("Batch script: %s", utils.StylePath(scriptPath))

	if submitDryRun {
		utils.PrintNote("Dry run: script generated but not submitted.")
		return nil
	}

	jobID, err := sched.Submit(scriptPath)
	if err != nil {
		return err
	}
	utils.PrintSuccess("Submitted job %s with ID %s", spec.EffectiveName(), jobID)
	return nil
}

// runLocally launches the trainer in the current session. The trainer's
// exit code is propagated verbatim.
func runLocally(spec *job.Spec) error {
	code, err := launch.Run(spec)
	if err != nil {
		return err
	}
	if code != 0 {
		os.Exit(code)
	}
	return nil
}
