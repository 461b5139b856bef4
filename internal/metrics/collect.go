// Package metrics collects test results written by training runs.
//
// Each completed run leaves a test_metrics.json under the checkpoint root,
// laid out as <model>/<setting>/<hash>/test_metrics.json where the setting
// encodes the dataset ("PEMS04_300_12_12" → dataset "PEMS04").
package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bravo-wd/BasicTS/internal/utils"
)

// MetricsFilename is the per-run result file written by the trainer.
const MetricsFilename = "test_metrics.json"

// Run holds the overall test metrics of one finished training run.
type Run struct {
	Model   string
	Dataset string
	Setting string
	MAE     float64
	RMSE    float64
	MAPE    float64
	Path    string
	Time    time.Time
}

// Key identifies a (model, dataset) pairing.
type Key struct {
	Model   string
	Dataset string
}

// metricsFile mirrors the trainer's JSON output; only "overall" is read.
type metricsFile struct {
	Overall struct {
		MAE  *float64 `json:"MAE"`
		RMSE *float64 `json:"RMSE"`
		MAPE *float64 `json:"MAPE"`
	} `json:"overall"`
}

// Collect walks root recursively and gathers every test_metrics.json into
// runs grouped by (model, dataset). Unreadable files are skipped with a
// warning; a missing root is an error.
func Collect(root string) (map[Key][]Run, error) {
	if !utils.DirExists(root) {
		return nil, fmt.Errorf("checkpoint root not found: %s", root)
	}

	all := make(map[Key][]Run)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			utils.PrintWarning("Skipping inaccessible path: %s", path)
			return nil
		}
		if d.IsDir() || d.Name() != MetricsFilename {
			return nil
		}

		run, ok := readRun(root, path)
		if !ok {
			return nil
		}
		key := Key{Model: run.Model, Dataset: run.Dataset}
		all[key] = append(all[key], run)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// readRun parses one result file; ok is false when it cannot be used.
func readRun(root, path string) (Run, bool) {
	file, err := os.Open(path)
	if err != nil {
		utils.PrintWarning("Failed to read %s: %v", utils.StylePath(path), err)
		return Run{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.PrintWarning("Failed to read %s: %v", utils.StylePath(path), err)
		return Run{}, false
	}

	var mf metricsFile
	if err := json.Unmarshal(data, &mf); err != nil {
		utils.PrintWarning("Failed to parse %s: %v", utils.StylePath(path), err)
		return Run{}, false
	}
	if mf.Overall.MAE == nil {
		// Incomplete run; no overall block worth reporting
		return Run{}, false
	}

	// Layout: <model>/<setting>/<hash>/test_metrics.json
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil {
		return Run{}, false
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) < 2 {
		return Run{}, false
	}
	model := parts[0]
	setting := parts[1]
	dataset := strings.SplitN(setting, "_", 2)[0]

	run := Run{
		Model:   model,
		Dataset: dataset,
		Setting: setting,
		MAE:     *mf.Overall.MAE,
		Path:    path,
	}
	if mf.Overall.RMSE != nil {
		run.RMSE = *mf.Overall.RMSE
	}
	if mf.Overall.MAPE != nil {
		run.MAPE = *mf.Overall.MAPE
	}
	if info, err := os.Stat(path); err == nil {
		run.Time = info.ModTime()
	}
	return run, true
}

// Best returns the run with the lowest MAE, preferring the most recent on ties.
func Best(runs []Run) (Run, bool) {
	if len(runs) == 0 {
		return Run{}, false
	}
	best := runs[0]
	for _, r := range runs[1:] {
		if r.MAE < best.MAE || (r.MAE == best.MAE && r.Time.After(best.Time)) {
			best = r
		}
	}
	return best, true
}

// SortedKeys returns the collection keys ordered by model then dataset.
func SortedKeys(all map[Key][]Run) []Key {
	keys := make([]Key, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Model != keys[j].Model {
			return keys[i].Model < keys[j].Model
		}
		return keys[i].Dataset < keys[j].Dataset
	})
	return keys
}

// Render prints the best run per (model, dataset) as an aligned table.
func Render(w io.Writer, all map[Key][]Run) {
	fmt.Fprintf(w, "%-16s %-12s %10s %10s %10s  %-6s %s\n",
		"Model", "Dataset", "MAE", "RMSE", "MAPE", "Runs", "Last Run")
	for _, key := range SortedKeys(all) {
		runs := all[key]
		best, ok := Best(runs)
		if !ok {
			continue
		}
		age := ""
		if !best.Time.IsZero() {
			age = humanize.Time(best.Time)
		}
		fmt.Fprintf(w, "%-16s %-12s %10.4f %10.4f %10.4f  %-6d %s\n",
			key.Model, key.Dataset, best.MAE, best.RMSE, best.MAPE, len(runs), age)
	}
}
