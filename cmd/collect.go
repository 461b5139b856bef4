package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bravo-wd/BasicTS/internal/config"
	"github.com/bravo-wd/BasicTS/internal/metrics"
	"github.com/bravo-wd/BasicTS/internal/utils"
)

var collectCmd = &cobra.Command{
	Use:     "collect [DIR]",
	Aliases: []string{"results"},
	Short:   "Collect test metrics from finished runs",
	Long: `Collect test metrics from finished training runs.

Walks the checkpoint directory for test_metrics.json files and prints one row
per model/dataset pair, keeping the best run (lowest MAE) when several exist.`,
	Example: `  tsrun collect
  tsrun collect ./checkpoints`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	root := config.Global.CkptDir
	if len(args) > 0 {
		root = args[0]
	}

	all, err := metrics.Collect(root)
	if err != nil {
		return err
	}

	if len(all) == 0 {
		utils.PrintNote("No results found under %s", utils.StylePath(root))
		return nil
	}

	metrics.Render(os.Stdout, all)
	return nil
}
