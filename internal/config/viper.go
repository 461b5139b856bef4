package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/bravo-wd/BasicTS/internal/utils"
)

// ConfigFilename is the name of the config file
const ConfigFilename = "config"

// ConfigType is the type of config file
const ConfigType = "yaml"

// InitViper initializes Viper with search paths and defaults.
// Priority (highest to lowest):
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (TSRUN_*)
// 3. User config file (~/.config/tsrun/config.yaml)
// 4. System config file (/etc/tsrun/config.yaml)
// 5. Defaults
func InitViper() error {
	viper.SetConfigName(ConfigFilename)
	viper.SetConfigType(ConfigType)

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(userConfigDir, "tsrun"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".tsrun"))
	}
	viper.AddConfigPath("/etc/tsrun")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("TSRUN")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file; defaults and env vars apply
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// setDefaults sets default values for all config keys
func setDefaults() {
	viper.SetDefault("python_bin", "python")
	viper.SetDefault("conda_root", "")
	viper.SetDefault("conda_env", "basicts")
	viper.SetDefault("train_script", filepath.Join("experiments", "train.py"))
	viper.SetDefault("scheduler_bin", "")
	viper.SetDefault("queue", "")
	viper.SetDefault("submit_job", true)
	viper.SetDefault("default_time", "24h")
	viper.SetDefault("default_mem", "")
}

// LoadFromViper applies Viper-resolved values on top of the Global defaults.
func LoadFromViper() {
	if v := viper.GetString("python_bin"); v != "" {
		Global.PythonBin = v
	}
	if v := viper.GetString("conda_root"); v != "" {
		Global.CondaRoot = v
	}
	if v := viper.GetString("conda_env"); v != "" {
		Global.CondaEnv = v
	}
	if v := viper.GetString("train_script"); v != "" {
		Global.TrainScript = v
	}
	if v := viper.GetString("scheduler_bin"); v != "" {
		Global.SchedulerBin = v
	}
	if v := viper.GetString("queue"); v != "" {
		Global.Queue = v
	}
	Global.SubmitJob = viper.GetBool("submit_job")

	if v := viper.GetString("default_time"); v != "" {
		if d, err := utils.ParseDuration(v); err == nil {
			Global.DefaultTime = d
		} else {
			utils.PrintWarning("Invalid default_time %q in config: %v", v, err)
		}
	}
	if v := viper.GetString("default_mem"); v != "" {
		if mb, err := utils.ParseSizeToMB(v); err == nil {
			Global.DefaultMemMB = mb
		} else {
			utils.PrintWarning("Invalid default_mem %q in config: %v", v, err)
		}
	}
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".tsrun", ConfigFilename+"."+ConfigType), nil
	}
	return filepath.Join(userConfigDir, "tsrun", ConfigFilename+"."+ConfigType), nil
}

// SaveConfig writes the current Viper state to the user config file.
func SaveConfig() error {
	configPath, err := GetUserConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SettableKeys lists the config keys exposed through `tsrun config set`.
func SettableKeys() []string {
	return []string{
		"python_bin",
		"conda_root",
		"conda_env",
		"train_script",
		"scheduler_bin",
		"queue",
		"submit_job",
		"default_time",
		"default_mem",
	}
}

// IsSettableKey reports whether key can be written via `tsrun config set`.
func IsSettableKey(key string) bool {
	for _, k := range SettableKeys() {
		if k == key {
			return true
		}
	}
	return false
}
