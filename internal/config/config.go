package config

import (
	"os"
	"path/filepath"
	"time"
)

const VERSION = "0.3.1"

// Config holds global application settings
type Config struct {
	Debug     bool
	Quiet     bool
	SubmitJob bool
	Version   string

	// Framework layout
	BaseDir     string // repository root of the forecasting framework
	TrainScript string // training entry point, relative to BaseDir
	LogsDir     string // scheduler stdout/stderr logs
	ScriptsDir  string // generated batch scripts
	CkptDir     string // checkpoint root scanned by `collect`

	// Runtime environment
	PythonBin string
	CondaRoot string // conda installation root ("" = rely on caller's shell)
	CondaEnv  string // environment name to activate

	// Scheduler defaults
	SchedulerBin string // preferred submit binary ("" = auto-detect)
	Queue        string
	DefaultTime  time.Duration
	DefaultMemMB int64
}

// Global holds the singleton configuration instance
var Global Config

// LoadDefaults populates Global with defaults derived from the executable
// location. When the executable does not live inside a framework checkout,
// the current working directory is treated as the framework root.
func LoadDefaults(executablePath string) {
	baseDir := filepath.Dir(filepath.Dir(executablePath))

	// Developer mode check: no experiments/ next to the binary means we're
	// not installed inside a framework checkout.
	if _, err := os.Stat(filepath.Join(baseDir, "experiments")); os.IsNotExist(err) {
		cwd, _ := os.Getwd()
		baseDir = cwd
	}

	Global = Config{
		Debug:     false,
		Quiet:     false,
		SubmitJob: true,
		Version:   VERSION,

		BaseDir:     baseDir,
		TrainScript: filepath.Join("experiments", "train.py"),
		LogsDir:     filepath.Join(baseDir, "logs"),
		ScriptsDir:  filepath.Join(baseDir, "logs", "scripts"),
		CkptDir:     filepath.Join(baseDir, "checkpoints"),

		PythonBin: "python",
		CondaRoot: "",
		CondaEnv:  "basicts",

		SchedulerBin: "",
		Queue:        "",
		DefaultTime:  24 * time.Hour,
		DefaultMemMB: 0,
	}
}
