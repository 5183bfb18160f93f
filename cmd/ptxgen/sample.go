package main

import (
	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample [dir]",
	Short: "Keep a random sample of N .cu files",
	Long: `Cap the number of .cu files in a directory by random sampling: a random
N-file subset is kept and the rest are deleted after confirmation. With
--seed the selection is reproducible; without it the seed is taken from
the clock.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSample,
}

func init() {
	f := sampleCmd.Flags()
	f.Int("limit", 500, "maximum number of .cu files to keep")
	f.Int64("seed", 0, "seed for reproducible sampling (default: time-based)")
	f.Bool("dry-run", false, "show what would be removed without removing anything")
	f.Bool("yes", false, "skip the confirmation prompt")
}

func runSample(cmd *cobra.Command, args []string) error {
	opts, err := resolvePruneOptions(cmd, args, true)
	if err != nil {
		return err
	}
	return runPrune(cmd, opts, out)
}
