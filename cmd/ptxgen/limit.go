package main

import (
	"github.com/spf13/cobra"
)

var limitCmd = &cobra.Command{
	Use:   "limit [dir]",
	Short: "Keep only the first N .cu files sorted by filename",
	Long: `Cap the number of .cu files in a directory by deterministic truncation:
files are sorted by filename, the first N are kept, and the rest are
deleted after confirmation. Empty directories are cleaned up afterwards
and the remaining count is verified against the limit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLimit,
}

func init() {
	f := limitCmd.Flags()
	f.Int("limit", 500, "maximum number of .cu files to keep")
	f.Bool("dry-run", false, "show what would be removed without removing anything")
	f.Bool("yes", false, "skip the confirmation prompt")
}

func runLimit(cmd *cobra.Command, args []string) error {
	opts, err := resolvePruneOptions(cmd, args, false)
	if err != nil {
		return err
	}
	return runPrune(cmd, opts, out)
}
