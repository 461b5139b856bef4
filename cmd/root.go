package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bravo-wd/BasicTS/internal/config"
	"github.com/bravo-wd/BasicTS/internal/scheduler"
	"github.com/bravo-wd/BasicTS/internal/utils"
)

var (
	debugMode bool
	quietMode bool
	localMode bool
)

var rootCmd = &cobra.Command{
	Use:           "tsrun",
	Short:         "tsrun: submit and launch time-series forecasting training jobs on HPC clusters.",
	Version:       config.VERSION,
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		exe, err := os.Executable()
		if err != nil {
			utils.PrintError("Failed to determine executable path: %v", err)
			os.Exit(1)
		}

		// Step 1: Load defaults (framework layout, directories)
		config.LoadDefaults(exe)

		// Step 2: Initialize Viper (config file, TSRUN_* env vars)
		if err := config.InitViper(); err != nil {
			utils.PrintDebug("Error reading config file: %v", err)
		}

		// Step 3: Load resolved values into the Global config
		config.LoadFromViper()

		// Step 4: Apply command-line flags (highest priority)
		if debugMode {
			utils.DebugMode = true
			config.Global.Debug = true
			utils.PrintDebug("Debug mode enabled")
			utils.PrintDebug("tsrun Version: %s", utils.StyleInfo(config.VERSION))
			utils.PrintDebug("Executable: %s", exe)
			utils.PrintDebug("Base Directory: %s", config.Global.BaseDir)
			utils.PrintDebug("Train Script: %s", config.Global.TrainScript)
			utils.PrintDebug("Conda Env: %s", config.Global.CondaEnv)
			if config.Global.SchedulerBin != "" {
				utils.PrintDebug("Scheduler Binary: %s", config.Global.SchedulerBin)
			}
			cmd.Flags().Visit(func(f *pflag.Flag) {
				utils.PrintDebug("Flag --%s=%s", f.Name, f.Value.String())
			})
		}
		if quietMode {
			utils.QuietMode = true
			config.Global.Quiet = true
		}
		if localMode {
			config.Global.SubmitJob = false
			utils.PrintDebug("Local mode enabled (job submission disabled)")
		}

		// Step 5: Initialize scheduler if job submission is enabled
		if config.Global.SubmitJob {
			sched, err := scheduler.DetectWithBinary(config.Global.SchedulerBin)
			if err == nil && sched.IsAvailable() {
				scheduler.SetActiveScheduler(sched)
				utils.PrintDebug("Scheduler initialized and available")
			} else if err != nil {
				utils.PrintDebug("Scheduler not available: %v", err)
			} else {
				utils.PrintDebug("Scheduler not available (already in a job)")
			}
		}
	},
}

// Execute runs the root command and exits non-zero on any failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Subcommands are attached to rootCmd in their respective init() functions
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode with verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "Q", false, "Suppress informational output")
	rootCmd.PersistentFlags().BoolVar(&localMode, "local", false, "Disable job submission (run locally)")
}
