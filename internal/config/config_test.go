package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaultsDeveloperMode(t *testing.T) {
	// No experiments/ directory next to the fake binary → base dir falls back
	// to the working directory.
	tmp := t.TempDir()
	exe := filepath.Join(tmp, "bin", "tsrun")

	cwd, _ := os.Getwd()
	LoadDefaults(exe)

	if Global.BaseDir != cwd {
		t.Errorf("BaseDir = %q, want cwd %q", Global.BaseDir, cwd)
	}
	if !Global.SubmitJob {
		t.Error("SubmitJob should default to true")
	}
	if Global.CondaEnv != "basicts" {
		t.Errorf("CondaEnv = %q, want basicts", Global.CondaEnv)
	}
}

func TestLoadDefaultsInstalledMode(t *testing.T) {
	tmp := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmp, "experiments"), 0755); err != nil {
		t.Fatal(err)
	}
	exe := filepath.Join(tmp, "bin", "tsrun")

	LoadDefaults(exe)

	if Global.BaseDir != tmp {
		t.Errorf("BaseDir = %q, want %q", Global.BaseDir, tmp)
	}
	if Global.LogsDir != filepath.Join(tmp, "logs") {
		t.Errorf("LogsDir = %q", Global.LogsDir)
	}
	if Global.CkptDir != filepath.Join(tmp, "checkpoints") {
		t.Errorf("CkptDir = %q", Global.CkptDir)
	}
}

func TestLoadFromViper(t *testing.T) {
	LoadDefaults(filepath.Join(t.TempDir(), "bin", "tsrun"))

	viper.Reset()
	defer viper.Reset()
	setDefaults()
	viper.Set("conda_env", "torch21")
	viper.Set("queue", "gpu")
	viper.Set("default_time", "2d")
	viper.Set("default_mem", "32G")
	viper.Set("submit_job", false)

	LoadFromViper()

	if Global.CondaEnv != "torch21" {
		t.Errorf("CondaEnv = %q, want torch21", Global.CondaEnv)
	}
	if Global.Queue != "gpu" {
		t.Errorf("Queue = %q, want gpu", Global.Queue)
	}
	if Global.DefaultTime != 48*time.Hour {
		t.Errorf("DefaultTime = %v, want 48h", Global.DefaultTime)
	}
	if Global.DefaultMemMB != 32768 {
		t.Errorf("DefaultMemMB = %d, want 32768", Global.DefaultMemMB)
	}
	if Global.SubmitJob {
		t.Error("SubmitJob should be false")
	}
}

func TestIsSettableKey(t *testing.T) {
	if !IsSettableKey("conda_env") {
		t.Error("conda_env should be settable")
	}
	if IsSettableKey("no_such_key") {
		t.Error("no_such_key should not be settable")
	}
}
