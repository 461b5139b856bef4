// Package runtime assembles the execution environment for the training entry
// point: conda activation, library search path, and the GPU exports consumed
// by downstream configuration.
package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bravo-wd/BasicTS/internal/config"
	"github.com/bravo-wd/BasicTS/internal/gpu"
)

// GpuCountKey is the exported variable carrying the accelerator count for
// optional use by downstream configuration.
const GpuCountKey = "NUM_GPUS"

// ActivationLines returns the shell lines that activate the configured conda
// environment and augment the library search path with its lib directory.
// Returns nil when no conda root is configured (the caller's shell is trusted).
func ActivationLines(cfg *config.Config) []string {
	if cfg.CondaRoot == "" {
		return nil
	}
	return []string{
		fmt.Sprintf("source %s", filepath.Join(cfg.CondaRoot, "etc", "profile.d", "conda.sh")),
		fmt.Sprintf("conda activate %s", cfg.CondaEnv),
		`export LD_LIBRARY_PATH=$CONDA_PREFIX/lib:$LD_LIBRARY_PATH`,
	}
}

// ExportLines returns the environment exports for an n-device job.
func ExportLines(n int) []string {
	return []string{
		fmt.Sprintf("export %s=%d", GpuCountKey, n),
	}
}

// InfoLine returns the informational line reporting the device list and count.
func InfoLine(list string, n int) string {
	return fmt.Sprintf("echo \"Using GPUs %s (%d devices)\"", list, n)
}

// TrainCommand returns the training launch argv: the python interpreter, the
// training entry point, the experiment config (-c), and the device list (-g).
func TrainCommand(cfg *config.Config, configPath, gpuList string) []string {
	script := cfg.TrainScript
	if !filepath.IsAbs(script) {
		script = filepath.Join(cfg.BaseDir, script)
	}
	return []string{cfg.PythonBin, script, "-c", configPath, "-g", gpuList}
}

// Env returns the process environment for a local launch: the parent
// environment plus the GPU count export and CUDA device visibility, with the
// conda lib directory prepended to LD_LIBRARY_PATH when one is configured.
func Env(cfg *config.Config, n int, gpuList string) []string {
	env := os.Environ()
	env = setEnv(env, GpuCountKey, fmt.Sprintf("%d", n))
	env = setEnv(env, gpu.CudaVisibleDevicesKey, gpuList)

	if cfg.CondaRoot != "" {
		libDir := filepath.Join(cfg.CondaRoot, "envs", cfg.CondaEnv, "lib")
		env = setEnv(env, "LD_LIBRARY_PATH", prependPath(libDir, os.Getenv("LD_LIBRARY_PATH")))
	}

	return env
}

// setEnv replaces key in env, appending it when absent.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// prependPath puts dir in front of a colon-separated path list.
func prependPath(dir, existing string) string {
	if existing == "" {
		return dir
	}
	return dir + ":" + existing
}
