package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"ptxgen/internal/arch"
	"ptxgen/internal/batch"
	"ptxgen/internal/compiler"
	"ptxgen/internal/config"
	"ptxgen/internal/discover"
	"ptxgen/internal/errors"
	"ptxgen/internal/output"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Compile generated .cu kernels to PTX",
	Long: `Discover .cu files under the input tree's per-architecture directories,
invoke nvcc -ptx on each, and mirror the directory structure under the
output tree. Per-unit compile failures are counted, never fatal.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.IntP("parallel", "j", 0, "enable parallel processing, optionally with a worker count (0 = host parallelism)")
	f.Lookup("parallel").NoOptDefVal = "0"
	f.String("arch", "", `target architecture token, or "all" (default: the configured default_arch)`)
	f.Bool("dry-run", false, "report what would be processed without running the compiler")
	f.String("input", "", "override the configured input directory")
	f.String("output", "", "override the configured output directory")
	f.String("nvcc", "", "override the configured nvcc path")
}

// generateOptions carries the per-run settings resolved from flags.
type generateOptions struct {
	Parallel  bool
	Workers   int
	ArchToken string
	DryRun    bool
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if v, _ := f.GetString("input"); v != "" {
		cfg.InputDir = v
	}
	if v, _ := f.GetString("output"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := f.GetString("nvcc"); v != "" {
		cfg.NVCC = v
	}

	workers, err := f.GetInt("parallel")
	if err != nil {
		return err
	}
	dryRun, _ := f.GetBool("dry-run")
	archToken, _ := f.GetString("arch")

	opts := generateOptions{
		Parallel:  f.Changed("parallel"),
		Workers:   workers,
		ArchToken: archToken,
		DryRun:    dryRun,
	}
	return generate(cmd.Context(), cfg, opts, out)
}

// generate runs the full per-architecture batch pipeline. Architectures are
// processed strictly sequentially; each batch receives its own derived flag
// set while the base configuration stays untouched.
func generate(ctx context.Context, cfg *config.Config, opts generateOptions, out *output.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Preconditions, checked before any directory is scanned.
	if _, err := os.Stat(cfg.NVCC); err != nil {
		return errors.Preconditionf("nvcc not found at %s", cfg.NVCC)
	}
	if info, err := os.Stat(cfg.InputDir); err != nil || !info.IsDir() {
		return errors.Preconditionf("input directory not found: %s", cfg.InputDir)
	}

	token := opts.ArchToken
	if token == "" {
		token = cfg.DefaultArch
	}
	archs, err := arch.Parse(token, cfg.Architectures)
	if err != nil {
		return err
	}

	printBanner(out, cfg, opts, token)

	absInput, err := filepath.Abs(cfg.InputDir)
	if err != nil {
		return errors.Wrap(err, "resolve input directory")
	}

	if !opts.DryRun {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return errors.Wrap(err, "create output directory")
		}
	}

	var grand batch.Summary
	processed := 0

	for _, a := range archs {
		archDir := filepath.Join(absInput, a)
		if info, err := os.Stat(archDir); err != nil || !info.IsDir() {
			out.Warning("SM%s directory not found at %s", a, archDir)
			continue
		}

		units, err := discover.Sources(archDir)
		if err != nil {
			return errors.Wrap(err, fmt.Sprintf("scan SM%s directory", a))
		}

		if opts.DryRun {
			out.Println("Would process %d .cu files from SM%s", len(units), a)
			continue
		}

		if len(units) == 0 {
			out.Info("No .cu files found in %s", archDir)
			continue
		}

		if opts.Parallel {
			out.Info("Processing SM%s kernels in %s with %d parallel jobs...",
				a, archDir, batch.Workers(opts.Workers))
		} else {
			out.Info("Processing SM%s kernels in %s...", a, archDir)
		}
		out.Info("Found %d .cu files to process", len(units))

		flags := cfg.Flags
		if a != cfg.DefaultArch {
			flags = arch.ResolveFlags(cfg.Flags, a)
		}

		inv := &compiler.Invoker{
			NVCC:       cfg.NVCC,
			Flags:      flags,
			Includes:   cfg.Includes,
			InputRoot:  absInput,
			OutputRoot: cfg.OutputDir,
			Timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
		}
		runner := batch.New(inv, out)

		s := runner.Run(ctx, units, batch.Options{Parallel: opts.Parallel, Workers: opts.Workers})
		runner.Report(a, s)
		if opts.Parallel && s.Elapsed > 0 {
			out.Info("Total time: %.1f minutes (%.1f files/sec)",
				s.Elapsed.Minutes(), float64(s.Total())/s.Elapsed.Seconds())
		}

		grand.Accumulate(s)
		processed++
	}

	if opts.DryRun {
		return nil
	}

	out.Section("PTX Generation Complete")
	out.SummaryPassed("Successful", fmt.Sprintf("%d", grand.Success))
	out.SummaryFailed("Failed", fmt.Sprintf("%d", grand.Failed))
	out.SummaryItem("Architectures", fmt.Sprintf("%d", processed))
	out.Hint("Output files are in: %s", cfg.OutputDir)

	// Per-unit failures are accounted for, not fatal.
	return nil
}

func printBanner(out *output.Writer, cfg *config.Config, opts generateOptions, token string) {
	out.Section("CUTLASS PTX Generation")
	out.SummaryItem("Source directory", cfg.InputDir)
	out.SummaryItem("Output directory", cfg.OutputDir)
	out.SummaryItem("Target architecture", "SM"+token)
	if opts.Parallel {
		out.SummaryItem("Parallel mode", fmt.Sprintf("ENABLED (%d workers)", batch.Workers(opts.Workers)))
	} else {
		out.SummaryItem("Parallel mode", "DISABLED")
	}
	out.SummaryItem("NVCC", cfg.NVCC)
	if opts.DryRun {
		out.DryRunNotice("DRY RUN - no compilation will be performed")
	}
}
