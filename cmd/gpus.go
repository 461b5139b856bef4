package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bravo-wd/BasicTS/internal/gpu"
)

var gpusCmd = &cobra.Command{
	Use:   "gpus N",
	Short: "Print the device index list for N GPUs",
	Long: `Print the comma-separated accelerator index list for N devices,
as passed to the training entry point via -g.`,
	Example: `  tsrun gpus 4    # prints 0,1,2,3`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid GPU count %q: expected a positive integer", args[0])
		}
		list, err := gpu.IndexList(n)
		if err != nil {
			return err
		}
		fmt.Println(list)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gpusCmd)
}
