// Package main implements the ptxgen CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"ptxgen/internal/config"
	"ptxgen/internal/errors"
	"ptxgen/internal/output"
	"ptxgen/internal/version"
)

// out is the shared output writer for all commands.
var out = output.New()

var rootCmd = &cobra.Command{
	Use:   "ptxgen",
	Short: "Batch PTX generation tooling for generated CUDA kernels",
	Long: `ptxgen drives nvcc over trees of generated CUDA kernels, translating each
.cu source into PTX assembly, and provides utilities to cap the number of
generated sources kept in a directory.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: applyGlobalFlags,
}

// applyGlobalFlags validates and applies the global verbosity settings.
func applyGlobalFlags(cmd *cobra.Command, _ []string) error {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return err
	}
	if quiet && verbose {
		return errors.Config("--quiet and --verbose are mutually exclusive")
	}
	out.SetQuiet(quiet)
	out.SetVerbose(verbose)
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ptxgen version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out.Println("ptxgen %s", version.Version)
	},
}

// loadConfig loads the configuration selected by the global --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.LoadOrDefault(path)
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(limitCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "path to ptxgen.yaml (default: ./"+config.DefaultFileName+" if present)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	if err := rootCmd.Execute(); err != nil {
		out.ErrorPrefix("%v", err)
		os.Exit(errors.GetExitCode(err))
	}
}
