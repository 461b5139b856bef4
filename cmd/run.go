package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bravo-wd/BasicTS/internal/config"
	"github.com/bravo-wd/BasicTS/internal/job"
)

var (
	runConfig string
	runGpus   int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a training job locally, without the scheduler",
	Long: `Run the training entry point directly in the current session.

The environment is assembled the same way as for a batch job (GPU count
export, CUDA device visibility, conda lib path) and the trainer's exit
code is propagated.`,
	Example: `  tsrun run -c baselines/HyperD/PEMS04.py -g 2
  tsrun run -c baselines/STID/PEMS08.py`,
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := &job.Spec{
			ConfigPath: runConfig,
			GpuCount:   runGpus,
			WorkDir:    config.Global.BaseDir,
			LogDir:     config.Global.LogsDir,
		}
		if err := spec.Validate(); err != nil {
			return err
		}
		warnMissingConfig(spec)
		return runLocally(spec)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runConfig, "config", "c", "", "Experiment config passed to the trainer (required)")
	runCmd.Flags().IntVarP(&runGpus, "gpus", "g", 1, "Number of GPUs to use")
	runCmd.MarkFlagRequired("config")
}
