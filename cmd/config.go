package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bravo-wd/BasicTS/internal/config"
	"github.com/bravo-wd/BasicTS/internal/utils"
)

var showConfigPath bool

// configKeysCompletion returns settable config keys for shell completion
func configKeysCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.SettableKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	if len(args) == 1 {
		return configValueCompletion(args[0]), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// configValueCompletion returns suggested values for a config key
func configValueCompletion(key string) []string {
	switch key {
	case "submit_job":
		return []string{"true", "false"}
	case "default_time":
		return []string{"12h", "24h", "48h", "72h"}
	case "default_mem":
		return []string{"16G", "32G", "64G", "128G"}
	default:
		return nil
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tsrun configuration",
	Long: `Manage tsrun configuration settings.

Configuration priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (TSRUN_*)
  3. User config file (~/.config/tsrun/config.yaml)
  4. System config file (/etc/tsrun/config.yaml)
  5. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "Show current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		if showConfigPath {
			configPath, err := config.GetUserConfigPath()
			if err != nil {
				utils.PrintError("Failed to get config path: %v", err)
				os.Exit(1)
			}
			fmt.Println(configPath)
			return
		}

		fmt.Println(utils.StyleTitle("Environment:"))
		fmt.Printf("  python_bin:     %s\n", viper.GetString("python_bin"))
		condaRoot := viper.GetString("conda_root")
		if condaRoot == "" {
			condaRoot = utils.StyleWarning("not set (no conda activation)")
		}
		fmt.Printf("  conda_root:     %s\n", condaRoot)
		fmt.Printf("  conda_env:      %s\n", viper.GetString("conda_env"))
		fmt.Printf("  train_script:   %s\n", viper.GetString("train_script"))
		fmt.Println()

		fmt.Println(utils.StyleTitle("Scheduler:"))
		schedulerBin := viper.GetString("scheduler_bin")
		if schedulerBin == "" {
			schedulerBin = utils.StyleHint("auto-detect")
		}
		fmt.Printf("  scheduler_bin:  %s\n", schedulerBin)
		queue := viper.GetString("queue")
		if queue == "" {
			queue = utils.StyleHint("scheduler default")
		}
		fmt.Printf("  queue:          %s\n", queue)
		submitJobConfig := viper.GetBool("submit_job")
		submitJobActual := config.Global.SubmitJob
		if submitJobConfig && !submitJobActual {
			fmt.Printf("  submit_job:     %v (disabled: scheduler not accessible)\n", submitJobConfig)
		} else {
			fmt.Printf("  submit_job:     %v\n", submitJobActual)
		}
		fmt.Println()

		fmt.Println(utils.StyleTitle("Job Defaults:"))
		fmt.Printf("  default_time:   %s\n", viper.GetString("default_time"))
		defaultMem := viper.GetString("default_mem")
		if defaultMem == "" {
			defaultMem = utils.StyleHint("scheduler default")
		}
		fmt.Printf("  default_mem:    %s\n", defaultMem)
		fmt.Println()

		fmt.Println(utils.StyleTitle("Directories:"))
		fmt.Printf("  base_dir:       %s\n", config.Global.BaseDir)
		fmt.Printf("  logs_dir:       %s\n", config.Global.LogsDir)
		fmt.Printf("  scripts_dir:    %s\n", config.Global.ScriptsDir)
		fmt.Printf("  ckpt_dir:       %s\n", config.Global.CkptDir)
		fmt.Println()

		fmt.Println(utils.StyleTitle("Environment Variable Overrides:"))
		envVars := []string{
			"TSRUN_PYTHON_BIN",
			"TSRUN_CONDA_ROOT",
			"TSRUN_CONDA_ENV",
			"TSRUN_TRAIN_SCRIPT",
			"TSRUN_SCHEDULER_BIN",
			"TSRUN_QUEUE",
			"TSRUN_SUBMIT_JOB",
			"TSRUN_DEFAULT_TIME",
			"TSRUN_DEFAULT_MEM",
		}
		hasEnvOverrides := false
		for _, envVar := range envVars {
			if val := os.Getenv(envVar); val != "" {
				fmt.Printf("  %s=%s\n", envVar, val)
				hasEnvOverrides = true
			}
		}
		if !hasEnvOverrides {
			fmt.Printf("  %s\n", utils.StyleHint("none"))
		}
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Example: `  tsrun config get conda_env
  tsrun config get queue
  tsrun config get default_time`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: configKeysCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		value := viper.Get(key)
		if value == nil {
			utils.PrintError("Unknown config key: %s", key)
			os.Exit(1)
		}
		fmt.Println(value)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save to the user config file.

Examples:
  tsrun config set conda_root /opt/miniconda3
  tsrun config set queue gpu
  tsrun config set default_time 48h
  tsrun config set default_time 48:00:00
  tsrun config set default_mem 64G
  tsrun config set submit_job false

Time duration format (for default_time):
  Go style:  2h, 30m, 1h30m, 2d
  HPC style: 48:00:00, 2:30:00 (HH:MM:SS or HH:MM)`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: configKeysCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		value := args[1]

		if !config.IsSettableKey(key) {
			utils.PrintWarning("Warning: '%s' is not a standard config key", key)
		}

		switch key {
		case "default_time":
			if _, err := utils.ParseDuration(value); err != nil {
				utils.PrintError("Invalid duration format: %s", value)
				utils.PrintNote("Use a format like: 2h, 1h30m, 2d, or 48:00:00")
				os.Exit(1)
			}
		case "default_mem":
			if _, err := utils.ParseSizeToMB(value); err != nil {
				utils.PrintError("Invalid memory size: %s", value)
				utils.PrintNote("Use a format like: 32G, 64GB, or 65536M")
				os.Exit(1)
			}
		}

		viper.Set(key, value)

		if err := config.SaveConfig(); err != nil {
			utils.PrintError("Failed to save config: %v", err)
			os.Exit(1)
		}

		configPath, _ := config.GetUserConfigPath()
		utils.PrintSuccess("Set %s = %s", utils.StyleInfo(key), utils.StyleInfo(value))
		utils.PrintNote("Config saved to: %s", configPath)
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit config file in default editor",
	Long:  "Open the configuration file in your default text editor ($EDITOR)",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, err := config.GetUserConfigPath()
		if err != nil {
			utils.PrintError("Failed to get config path: %v", err)
			os.Exit(1)
		}

		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			utils.PrintNote("Config file doesn't exist, creating it first...")
			if err := config.SaveConfig(); err != nil {
				utils.PrintError("Failed to create config: %v", err)
				os.Exit(1)
			}
		}

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		editorCmd := exec.Command(editor, configPath)
		editorCmd.Stdin = os.Stdin
		editorCmd.Stdout = os.Stdout
		editorCmd.Stderr = os.Stderr

		if err := editorCmd.Run(); err != nil {
			utils.PrintError("Failed to open editor: %v", err)
			os.Exit(1)
		}
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&showConfigPath, "path", false, "Show only the config file path")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configEditCmd)

	rootCmd.AddCommand(configCmd)
}
